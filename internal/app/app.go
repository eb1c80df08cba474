package app

import (
	"context"
	"fmt"

	"github.com/kedr891/steam-inventory/config"
	"github.com/kedr891/steam-inventory/internal/bootstrap"
	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/internal/export"
	"github.com/kedr891/steam-inventory/internal/inventory"
	"github.com/kedr891/steam-inventory/pkg/logger"
)

// Service - общий набор зависимостей для api, exporter и invctl.
type Service struct {
	Storage  domain.Storage
	Exporter *export.Exporter
	Fetcher  *inventory.Fetcher
	Runner   *inventory.Runner
	Log      *logger.Logger

	closers []func()
}

// Close закрывает зависимости в обратном порядке.
func (s *Service) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func Build(ctx context.Context, cfg *config.Config) (*Service, error) {
	log := bootstrap.InitLogger(cfg)
	s := &Service{Log: log}

	storage, err := bootstrap.InitStorage(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	s.Storage = storage
	s.closers = append(s.closers, storage.Close)

	rdb, err := bootstrap.InitRedis(cfg, log)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}
	if rdb != nil {
		s.closers = append(s.closers, func() { _ = rdb.Close() })
	}

	producers, err := bootstrap.InitProducers(cfg, log)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("init producers: %w", err)
	}
	s.closers = append(s.closers, producers.Close)

	composer := bootstrap.InitComposer(cfg, storage, log)

	exporter, err := bootstrap.InitExporter(cfg, composer, bootstrap.InitCache(rdb), log)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("init exporter: %w", err)
	}
	s.Exporter = exporter

	s.Fetcher = bootstrap.InitFetcher(cfg, storage, producers.Publisher(cfg, log), exporter, log)
	s.Runner = bootstrap.InitRunner(cfg, s.Fetcher, bootstrap.InitLocker(rdb), log)
	// Runner закрывается первым: задачи ещё пишут в storage
	s.closers = append(s.closers, s.Runner.Stop)

	return s, nil
}

func RunAPI(ctx context.Context, cfg *config.Config) error {
	s, err := Build(ctx, cfg)
	if err != nil {
		return err
	}

	s.Log.Info("Starting Steam Inventory API", "version", cfg.App.Version)

	h := bootstrap.InitInventoryHandler(cfg, s.Runner, s.Exporter, s.Storage, s.Log)
	server := bootstrap.InitHTTPServer(cfg, h, s.Log)

	return bootstrap.RunHTTPServer(ctx, server, s.Log, s.Close)
}

func RunExporter(ctx context.Context, cfg *config.Config) error {
	s, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	s.Log.Info("Starting Steam Inventory exporter", "version", cfg.App.Version,
		"topic", cfg.Kafka.TopicInventoryRefreshed, "group", cfg.Kafka.GroupExporter)

	kafkaConsumer := bootstrap.InitKafkaConsumer(cfg, cfg.Kafka.TopicInventoryRefreshed, cfg.Kafka.GroupExporter)
	defer kafkaConsumer.Close()

	refreshConsumer := bootstrap.InitRefreshConsumer(kafkaConsumer, s.Exporter, s.Log)

	return bootstrap.RunConsumer(ctx, refreshConsumer, s.Log)
}
