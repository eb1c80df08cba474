package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kedr891/steam-inventory/pkg/logger"
)

type ConsumerRunner interface {
	Start(ctx context.Context) error
}

// RunConsumer блокируется до сигнала или отмены ctx.
func RunConsumer(ctx context.Context, consumer ConsumerRunner, log *logger.Logger) error {
	consumerCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info("Starting consumer...")
	if err := consumer.Start(consumerCtx); err != nil {
		log.Error("Consumer error", "error", err)
		return err
	}

	log.Info("Consumer stopped successfully")
	return nil
}
