package bootstrap

import (
	"context"
	"fmt"

	"github.com/kedr891/steam-inventory/config"
	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/internal/storage/pgstorage"
	"github.com/kedr891/steam-inventory/internal/storage/sqlitestorage"
	"github.com/kedr891/steam-inventory/pkg/logger"
	"github.com/kedr891/steam-inventory/pkg/postgres"
)

// InitStorage открывает хранилище по storage.driver. Для postgres сначала прогоняются миграции.
func InitStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (domain.Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		log.Info("Opening SQLite storage", "path", cfg.Storage.SQLitePath)
		storage, err := sqlitestorage.New(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
		return storage, nil

	default:
		if err := pgstorage.Migrate(cfg.PG.URL); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}

		pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		log.Info("PostgreSQL connected successfully")

		return pgstorage.New(pg), nil
	}
}
