package domain

import (
	"context"
	"time"

	"github.com/kedr891/steam-inventory/internal/entity"
)

// InventoryPage - одна страница ответа Inventory API.
type InventoryPage struct {
	Assets       []entity.InventoryAsset
	Descriptions []entity.ItemDescription
	HasMore      bool
	NextCursor   string
}

type InventoryAPI interface {
	FetchPage(ctx context.Context, steamID string, appID int, cursor string) (*InventoryPage, error)
}

type SnapshotStore interface {
	ReplaceSnapshot(ctx context.Context, key entity.SnapshotKey, rows []entity.SnapshotRow) error
}

type InventoryReader interface {
	GroupedInventory(ctx context.Context, steamID string) ([]entity.InventoryGroup, error)
}

type PriceCatalog interface {
	CatalogEntries(ctx context.Context) ([]entity.PriceCatalogEntry, error)
}

type RateTable interface {
	CurrencyRates(ctx context.Context) ([]entity.CurrencyRate, error)
}

// Storage - всё, что нужно от хранилища одновременно и fetcher'у, и экспортёру.
type Storage interface {
	SnapshotStore
	InventoryReader
	PriceCatalog
	RateTable
	HealthCheck(ctx context.Context) error
	Close()
}

type EventPublisher interface {
	PublishInventoryRefreshed(ctx context.Context, event entity.InventoryRefreshedEvent) error
}

// Lock - захваченная блокировка.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker возвращает ErrFetchInProgress, если ключ уже занят.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

type CacheStorage interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
