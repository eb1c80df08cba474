package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/internal/entity"
	"github.com/kedr891/steam-inventory/internal/steamapis"
)

const _defaultMaxPages = 50

// exportInvalidator сбрасывает закешированный экспорт пользователя.
type exportInvalidator interface {
	Invalidate(ctx context.Context, steamID string) error
}

// Fetcher выкачивает инвентарь постранично и атомарно заменяет снимок в хранилище.
type Fetcher struct {
	api         domain.InventoryAPI
	store       domain.SnapshotStore
	publisher   domain.EventPublisher
	invalidator exportInvalidator
	log         domain.Logger

	maxPages int
	now      func() time.Time
}

type FetcherOption func(*Fetcher)

func WithPublisher(p domain.EventPublisher) FetcherOption {
	return func(f *Fetcher) {
		f.publisher = p
	}
}

func WithInvalidator(i exportInvalidator) FetcherOption {
	return func(f *Fetcher) {
		f.invalidator = i
	}
}

func WithMaxPages(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxPages = n
		}
	}
}

func WithClock(now func() time.Time) FetcherOption {
	return func(f *Fetcher) {
		f.now = now
	}
}

func NewFetcher(api domain.InventoryAPI, store domain.SnapshotStore, log domain.Logger, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		api:      api,
		store:    store,
		log:      log,
		maxPages: _defaultMaxPages,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// FetchAndStore - nil означает, что снимок (steamID, appID) заменён.
func (f *Fetcher) FetchAndStore(ctx context.Context, steamID string, appID int) error {
	return f.FetchAndStoreJob(ctx, uuid.New(), steamID, appID)
}

// FetchAndStoreJob - то же, что FetchAndStore, с известным id задачи для логов и событий.
func (f *Fetcher) FetchAndStoreJob(ctx context.Context, jobID uuid.UUID, steamID string, appID int) error {
	assets, descriptions, err := f.collect(ctx, jobID, steamID, appID)
	if err != nil {
		return err
	}

	if len(assets) == 0 {
		f.log.Warn("Inventory is empty", "job_id", jobID, "steam_id", steamID, "app_id", appID)
		return fmt.Errorf("steam_id %s app_id %d: %w", steamID, appID, domain.ErrEmptyInventory)
	}

	capturedAt := f.now().UTC()
	rows, skipped := buildSnapshotRows(steamID, appID, assets, descriptions, capturedAt)
	if skipped > 0 {
		f.log.Debug("Assets skipped: no description or repeated assetid",
			"job_id", jobID, "steam_id", steamID, "app_id", appID, "skipped", skipped)
	}

	if len(rows) == 0 {
		f.log.Warn("No asset matched a description", "job_id", jobID, "steam_id", steamID, "app_id", appID)
		return fmt.Errorf("steam_id %s app_id %d: no described assets: %w", steamID, appID, domain.ErrEmptyInventory)
	}

	key := entity.SnapshotKey{SteamID: steamID, AppID: appID}
	if err := f.store.ReplaceSnapshot(ctx, key, rows); err != nil {
		f.log.Error("Failed to replace inventory snapshot",
			"job_id", jobID, "steam_id", steamID, "app_id", appID, "error", err)
		return fmt.Errorf("replace snapshot: %w", err)
	}

	f.log.Info("Inventory snapshot replaced",
		"job_id", jobID, "steam_id", steamID, "app_id", appID, "rows", len(rows))

	f.afterReplace(ctx, entity.InventoryRefreshedEvent{
		SteamID:    steamID,
		AppID:      appID,
		Rows:       len(rows),
		CapturedAt: capturedAt,
		JobID:      jobID,
	})

	return nil
}

func (f *Fetcher) collect(
	ctx context.Context,
	jobID uuid.UUID,
	steamID string,
	appID int,
) ([]entity.InventoryAsset, map[entity.DescriptionKey]entity.ItemDescription, error) {
	var (
		assets       []entity.InventoryAsset
		descriptions = make(map[entity.DescriptionKey]entity.ItemDescription)
		cursor       string
	)

	for page := 1; ; page++ {
		if page > f.maxPages {
			f.log.Error("Inventory page limit reached",
				"job_id", jobID, "steam_id", steamID, "app_id", appID, "page", page, "cursor", cursor)
			return nil, nil, fmt.Errorf("%w: page limit %d reached", domain.ErrUpstreamUnavailable, f.maxPages)
		}

		p, err := f.api.FetchPage(ctx, steamID, appID, cursor)
		if err != nil {
			args := []interface{}{"job_id", jobID, "steam_id", steamID, "app_id", appID, "page", page, "error", err}
			var statusErr *steamapis.StatusError
			if errors.As(err, &statusErr) {
				args = append(args, "status", statusErr.StatusCode)
			}
			f.log.Error("Failed to fetch inventory page", args...)
			return nil, nil, fmt.Errorf("fetch page %d: %w", page, err)
		}

		assets = append(assets, p.Assets...)
		for _, d := range p.Descriptions {
			descriptions[d.Key()] = d
		}

		if !p.HasMore || p.NextCursor == "" {
			break
		}
		cursor = p.NextCursor
	}

	return assets, descriptions, nil
}

func (f *Fetcher) afterReplace(ctx context.Context, event entity.InventoryRefreshedEvent) {
	if f.publisher != nil {
		if err := f.publisher.PublishInventoryRefreshed(ctx, event); err != nil {
			f.log.Warn("Failed to publish inventory refreshed event",
				"job_id", event.JobID, "steam_id", event.SteamID, "app_id", event.AppID, "error", err)
		}
	}

	if f.invalidator != nil {
		if err := f.invalidator.Invalidate(ctx, event.SteamID); err != nil {
			f.log.Warn("Failed to invalidate cached export",
				"job_id", event.JobID, "steam_id", event.SteamID, "error", err)
		}
	}
}
