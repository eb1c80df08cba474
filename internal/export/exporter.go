package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/internal/entity"
)

const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"

	cacheKeyPrefix   = "inventory:export:"
	_defaultCacheTTL = 5 * time.Minute
)

type inventoryComposer interface {
	ComposePricedInventory(ctx context.Context, steamID string) ([]entity.PricedInventoryGroup, error)
}

// Exporter отдаёт экспорт инвентаря и сохраняет его файлом <dir>/<steamid>.json.
type Exporter struct {
	composer inventoryComposer
	cache    domain.CacheStorage
	log      domain.Logger

	dir      string
	xlsx     bool
	cacheTTL time.Duration
}

type Option func(*Exporter)

// WithCache - без кеша каждый Export пересобирает данные.
func WithCache(cache domain.CacheStorage, ttl time.Duration) Option {
	return func(e *Exporter) {
		e.cache = cache
		if ttl > 0 {
			e.cacheTTL = ttl
		}
	}
}

func WithXLSX(enabled bool) Option {
	return func(e *Exporter) {
		e.xlsx = enabled
	}
}

func New(composer inventoryComposer, dir string, log domain.Logger, opts ...Option) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	e := &Exporter{
		composer: composer,
		log:      log,
		dir:      dir,
		cacheTTL: _defaultCacheTTL,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

func cacheKey(steamID string) string {
	return cacheKeyPrefix + steamID
}

// Export отдаёт состав из кэша, пока он жив. Кэш сбрасывается после замены снимка и по
// событию inventory.refreshed; правки каталога цен и курсов видны не позже cacheTTL.
func (e *Exporter) Export(ctx context.Context, steamID string) ([]entity.PricedInventoryGroup, error) {
	if err := validateSteamID(steamID); err != nil {
		return nil, err
	}

	groups, cached := e.fromCache(ctx, steamID)
	if !cached {
		var err error
		groups, err = e.composer.ComposePricedInventory(ctx, steamID)
		if err != nil {
			return nil, fmt.Errorf("compose inventory: %w", err)
		}

		if e.cache != nil {
			if err := e.cache.SetJSON(ctx, cacheKey(steamID), groups, e.cacheTTL); err != nil {
				e.log.Warn("Failed to cache export", "steam_id", steamID, "error", err)
			}
		}
	}

	if groups == nil {
		groups = []entity.PricedInventoryGroup{}
	}

	if err := writeJSON(e.path(steamID, FormatJSON), groups); err != nil {
		e.log.Error("Failed to write export artifact", "steam_id", steamID, "format", FormatJSON, "error", err)
		return nil, err
	}

	if e.xlsx {
		if err := writeXLSX(e.path(steamID, FormatXLSX), groups); err != nil {
			e.log.Error("Failed to write export artifact", "steam_id", steamID, "format", FormatXLSX, "error", err)
			return nil, err
		}
	}

	e.log.Info("Inventory exported", "steam_id", steamID, "groups", len(groups), "cached", cached)

	return groups, nil
}

func (e *Exporter) fromCache(ctx context.Context, steamID string) ([]entity.PricedInventoryGroup, bool) {
	if e.cache == nil {
		return nil, false
	}

	var groups []entity.PricedInventoryGroup
	found, err := e.cache.GetJSON(ctx, cacheKey(steamID), &groups)
	if err != nil {
		e.log.Warn("Failed to read cached export", "steam_id", steamID, "error", err)
		return nil, false
	}

	return groups, found
}

// Invalidate сбрасывает кеш экспорта после обновления снимка.
func (e *Exporter) Invalidate(ctx context.Context, steamID string) error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Delete(ctx, cacheKey(steamID))
}

// ArtifactPath возвращает путь к сохранённому файлу экспорта.
func (e *Exporter) ArtifactPath(steamID, format string) (string, error) {
	if err := validateSteamID(steamID); err != nil {
		return "", err
	}

	switch format {
	case FormatJSON, FormatXLSX:
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}

	path := e.path(steamID, format)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s.%s: %w", steamID, format, domain.ErrArtifactNotFound)
		}
		return "", fmt.Errorf("stat artifact: %w", err)
	}

	return path, nil
}

func (e *Exporter) path(steamID, format string) string {
	return filepath.Join(e.dir, steamID+"."+format)
}

func validateSteamID(steamID string) error {
	if steamID == "" || filepath.Base(steamID) != steamID || steamID == "." || steamID == ".." {
		return fmt.Errorf("invalid steam id %q", steamID)
	}
	return nil
}
