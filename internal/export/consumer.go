package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/internal/entity"
	pkgkafka "github.com/kedr891/steam-inventory/pkg/kafka"
)

type messageConsumer interface {
	Consume(ctx context.Context, handler pkgkafka.MessageHandler, onError func(kafka.Message, error)) error
}

type refresher interface {
	Invalidate(ctx context.Context, steamID string) error
	Export(ctx context.Context, steamID string) ([]entity.PricedInventoryGroup, error)
}

// RefreshConsumer пересобирает экспорт пользователя по событию inventory.refreshed.
type RefreshConsumer struct {
	consumer messageConsumer
	exporter refresher
	log      domain.Logger
}

func NewRefreshConsumer(consumer messageConsumer, exporter refresher, log domain.Logger) *RefreshConsumer {
	return &RefreshConsumer{
		consumer: consumer,
		exporter: exporter,
		log:      log,
	}
}

// Start блокируется до отмены ctx.
func (c *RefreshConsumer) Start(ctx context.Context) error {
	c.log.Info("RefreshConsumer started")

	err := c.consumer.Consume(ctx, pkgkafka.MessageHandlerFunc(c.Handle), func(msg kafka.Message, err error) {
		c.log.Error("Failed to handle inventory refreshed event",
			"partition", msg.Partition, "offset", msg.Offset, "error", err)
	})
	if errors.Is(err, context.Canceled) {
		c.log.Info("RefreshConsumer stopped")
		return nil
	}

	return err
}

func (c *RefreshConsumer) Handle(ctx context.Context, msg kafka.Message) error {
	var event entity.InventoryRefreshedEvent
	if err := pkgkafka.UnmarshalMessage(msg, &event); err != nil {
		return err
	}

	if event.SteamID == "" {
		return fmt.Errorf("event without steam_id")
	}

	if err := c.exporter.Invalidate(ctx, event.SteamID); err != nil {
		c.log.Warn("Failed to invalidate cached export", "steam_id", event.SteamID, "error", err)
	}

	if _, err := c.exporter.Export(ctx, event.SteamID); err != nil {
		return fmt.Errorf("export steam_id %s: %w", event.SteamID, err)
	}

	c.log.Debug("Export refreshed", "steam_id", event.SteamID, "app_id", event.AppID, "job_id", event.JobID)

	return nil
}
