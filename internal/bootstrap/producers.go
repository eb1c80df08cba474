package bootstrap

import (
	"fmt"

	"github.com/kedr891/steam-inventory/config"
	"github.com/kedr891/steam-inventory/internal/events"
	"github.com/kedr891/steam-inventory/pkg/kafka"
	"github.com/kedr891/steam-inventory/pkg/logger"
	"github.com/kedr891/steam-inventory/pkg/nats"
)

type Producers struct {
	InventoryRefreshed *kafka.Producer
	NATS               *nats.Publisher
}

func InitProducers(cfg *config.Config, log *logger.Logger) (*Producers, error) {
	p := &Producers{}

	if cfg.Kafka.Enabled {
		compression, err := kafka.ParseCompression(cfg.Kafka.Compression)
		if err != nil {
			return nil, fmt.Errorf("init kafka producer: %w", err)
		}

		producer, err := InitKafkaProducer(cfg, cfg.Kafka.TopicInventoryRefreshed,
			kafka.WithBatchSize(1),
			kafka.WithBatchTimeout(cfg.Kafka.BatchTimeout),
			kafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
			kafka.WithCompression(compression),
		)
		if err != nil {
			return nil, fmt.Errorf("init kafka producer: %w", err)
		}
		p.InventoryRefreshed = producer
		log.Info("Kafka producer initialized", "topic", cfg.Kafka.TopicInventoryRefreshed)
	}

	if cfg.IsNATSEnabled() {
		publisher, err := nats.New(cfg.NATS.URL, nats.WithName(cfg.App.Name))
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("init nats: %w", err)
		}
		p.NATS = publisher
		log.Info("NATS connected successfully", "url", cfg.NATS.URL)
	}

	return p, nil
}

// Publisher собирает events.Publisher из поднятых транспортов.
func (p *Producers) Publisher(cfg *config.Config, log *logger.Logger) *events.Publisher {
	var opts []events.Option
	if p.InventoryRefreshed != nil {
		opts = append(opts, events.WithKafka(p.InventoryRefreshed))
	}
	if p.NATS != nil {
		opts = append(opts, events.WithNATS(p.NATS, cfg.NATS.SubjectPrefix))
	}
	return events.NewPublisher(log, opts...)
}

func (p *Producers) Close() {
	if p.InventoryRefreshed != nil {
		p.InventoryRefreshed.Close()
	}
	if p.NATS != nil {
		p.NATS.Close()
	}
}
