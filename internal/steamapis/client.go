package steamapis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/kedr891/steam-inventory/internal/domain"
)

const (
	_defaultBaseURL = "https://api.steamapis.com"
	_defaultTimeout = 30 * time.Second
	_maxBodyInError = 512

	inventoryPath = "/steam/inventory/{steamid}/{appid}/2"
)

// StatusError - ответ API с не-2xx статусом.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("steamapis: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client - клиент Inventory API steamapis.com. Повторов нет: любой сбой страницы
// прерывает весь fetch.
type Client struct {
	http   *resty.Client
	apiKey string
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = _defaultBaseURL
	}
	if timeout <= 0 {
		timeout = _defaultTimeout
	}

	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader("Accept", "application/json"),
		apiKey: apiKey,
	}
}

var _ domain.InventoryAPI = (*Client)(nil)

// FetchPage запрашивает одну страницу инвентаря. Пустой cursor - первая страница.
func (c *Client) FetchPage(ctx context.Context, steamID string, appID int, cursor string) (*domain.InventoryPage, error) {
	req := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"steamid": steamID,
			"appid":   strconv.Itoa(appID),
		}).
		SetQueryParam("api_key", c.apiKey)

	if cursor != "" {
		req.SetQueryParam("start_assetid", cursor)
	}

	resp, err := req.Get(inventoryPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	if !resp.IsSuccess() {
		body := resp.String()
		if len(body) > _maxBodyInError {
			body = body[:_maxBodyInError]
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, &StatusError{
			StatusCode: resp.StatusCode(),
			Body:       body,
		})
	}

	var payload inventoryResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("%w: decode page: %w", domain.ErrUpstreamUnavailable, err)
	}

	return payload.toPage(appID), nil
}
