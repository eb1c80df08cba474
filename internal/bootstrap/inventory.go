package bootstrap

import (
	"github.com/kedr891/steam-inventory/config"
	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/internal/events"
	"github.com/kedr891/steam-inventory/internal/export"
	"github.com/kedr891/steam-inventory/internal/inventory"
	"github.com/kedr891/steam-inventory/internal/steamapis"
	"github.com/kedr891/steam-inventory/pkg/logger"
)

func InitSteamClient(cfg *config.Config) *steamapis.Client {
	return steamapis.New(cfg.Steam.BaseURL, cfg.Steam.APIKey, cfg.Steam.Timeout)
}

func InitFetcher(
	cfg *config.Config,
	storage domain.Storage,
	publisher *events.Publisher,
	exporter *export.Exporter,
	log *logger.Logger,
) *inventory.Fetcher {
	opts := []inventory.FetcherOption{
		inventory.WithMaxPages(cfg.Steam.MaxPages),
		inventory.WithInvalidator(exporter),
	}
	if publisher != nil && publisher.Enabled() {
		opts = append(opts, inventory.WithPublisher(publisher))
	}

	return inventory.NewFetcher(InitSteamClient(cfg), storage, log, opts...)
}

func InitRunner(cfg *config.Config, fetcher *inventory.Fetcher, locker domain.Locker, log *logger.Logger) *inventory.Runner {
	return inventory.NewRunner(fetcher, locker, log,
		inventory.WithWorkers(cfg.Inventory.Workers),
		inventory.WithFetchTimeout(cfg.Inventory.FetchTimeout),
		inventory.WithLockTTL(cfg.Inventory.LockTTL),
	)
}
