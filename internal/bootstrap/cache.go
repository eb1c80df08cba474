package bootstrap

import (
	"github.com/kedr891/steam-inventory/config"
	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/internal/inventory"
	"github.com/kedr891/steam-inventory/pkg/logger"
	"github.com/kedr891/steam-inventory/pkg/redis"
)

// InitRedis возвращает nil, если redis.addr не задан.
func InitRedis(cfg *config.Config, log *logger.Logger) (*redis.Redis, error) {
	if !cfg.IsRedisEnabled() {
		log.Info("Redis is DISABLED, export cache off, in-process fetch lock")
		return nil, nil
	}

	rdb, err := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	log.Info("Redis connected successfully", "addr", cfg.Redis.Addr)

	return rdb, nil
}

func InitCache(rdb *redis.Redis) domain.CacheStorage {
	if rdb == nil {
		return nil
	}
	return redis.NewCache(rdb.Client, "")
}

func InitLocker(rdb *redis.Redis) domain.Locker {
	if rdb == nil {
		return inventory.NewLocalLocker()
	}
	return inventory.NewRedisLocker(redis.NewLocker(rdb.Client, ""))
}
