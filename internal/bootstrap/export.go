package bootstrap

import (
	"github.com/kedr891/steam-inventory/config"
	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/internal/export"
	"github.com/kedr891/steam-inventory/internal/pricing"
	"github.com/kedr891/steam-inventory/pkg/kafka"
	"github.com/kedr891/steam-inventory/pkg/logger"
)

func InitComposer(cfg *config.Config, storage domain.Storage, log *logger.Logger) *pricing.Composer {
	return pricing.NewComposer(storage, storage, storage, log,
		pricing.WithPrecision(cfg.Export.Precision),
		pricing.WithTotals(cfg.IncludeTotals()),
		pricing.WithLocation(cfg.DisplayLocation()),
	)
}

func InitExporter(
	cfg *config.Config,
	composer *pricing.Composer,
	cache domain.CacheStorage,
	log *logger.Logger,
) (*export.Exporter, error) {
	opts := []export.Option{export.WithXLSX(cfg.Export.XLSX)}
	if cache != nil {
		opts = append(opts, export.WithCache(cache, cfg.Export.CacheTTL))
	}

	return export.New(composer, cfg.Export.Dir, log, opts...)
}

func InitRefreshConsumer(consumer *kafka.Consumer, exporter *export.Exporter, log *logger.Logger) *export.RefreshConsumer {
	return export.NewRefreshConsumer(consumer, exporter, log)
}
