package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/internal/entity"
)

type kafkaWriter interface {
	WriteMessage(ctx context.Context, key string, value interface{}) error
}

type natsPublisher interface {
	PublishJSON(ctx context.Context, subject string, value interface{}) error
}

// Publisher рассылает inventory.refreshed в Kafka и NATS.
// Любой из транспортов может быть не настроен.
type Publisher struct {
	kafka         kafkaWriter
	nats          natsPublisher
	subjectPrefix string
	log           domain.Logger
}

type Option func(*Publisher)

func WithKafka(w kafkaWriter) Option {
	return func(p *Publisher) {
		p.kafka = w
	}
}

func WithNATS(n natsPublisher, subjectPrefix string) Option {
	return func(p *Publisher) {
		p.nats = n
		p.subjectPrefix = subjectPrefix
	}
}

func NewPublisher(log domain.Logger, opts ...Option) *Publisher {
	p := &Publisher{log: log}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Enabled() bool {
	return p.kafka != nil || p.nats != nil
}

func (p *Publisher) PublishInventoryRefreshed(ctx context.Context, event entity.InventoryRefreshedEvent) error {
	var errs []error

	if p.kafka != nil {
		if err := p.kafka.WriteMessage(ctx, event.SteamID, event); err != nil {
			errs = append(errs, fmt.Errorf("kafka: %w", err))
		}
	}

	if p.nats != nil {
		if err := p.nats.PublishJSON(ctx, p.subject(event.SteamID), event); err != nil {
			errs = append(errs, fmt.Errorf("nats: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	p.log.Debug("Inventory refreshed event published", "steam_id", event.SteamID, "job_id", event.JobID)

	return nil
}

func (p *Publisher) subject(steamID string) string {
	if p.subjectPrefix == "" {
		return steamID
	}
	return p.subjectPrefix + "." + steamID
}
