package bootstrap

import (
	"github.com/kedr891/steam-inventory/config"
	"github.com/kedr891/steam-inventory/pkg/logger"
)

func InitLogger(cfg *config.Config) *logger.Logger {
	return logger.New(cfg.Log.Level, logger.WithFormat(cfg.Log.Format))
}
