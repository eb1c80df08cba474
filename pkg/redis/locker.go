package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrNotObtained - ключ уже захвачен другим владельцем.
var ErrNotObtained = redislock.ErrNotObtained

// Locker - распределённая блокировка на redislock.
type Locker struct {
	client *redislock.Client
	prefix string
}

func NewLocker(client redis.UniversalClient, prefix string) *Locker {
	return &Locker{
		client: redislock.New(client),
		prefix: prefix,
	}
}

// Obtain не ждёт: занятый ключ сразу возвращает ErrNotObtained.
func (l *Locker) Obtain(ctx context.Context, key string, ttl time.Duration) (*redislock.Lock, error) {
	lock, err := l.client.Obtain(ctx, l.prefix+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrNotObtained
	}
	if err != nil {
		return nil, fmt.Errorf("redislock obtain %s: %w", key, err)
	}
	return lock, nil
}
