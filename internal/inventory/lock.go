package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/internal/entity"
	"github.com/kedr891/steam-inventory/pkg/redis"
)

func lockKey(key entity.SnapshotKey) string {
	return fmt.Sprintf("inventory:fetch:%s:%d", key.SteamID, key.AppID)
}

// RedisLocker - блокировка между репликами API через Redis.
type RedisLocker struct {
	locker *redis.Locker
}

func NewRedisLocker(locker *redis.Locker) *RedisLocker {
	return &RedisLocker{locker: locker}
}

func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (domain.Lock, error) {
	lock, err := l.locker.Obtain(ctx, key, ttl)
	if errors.Is(err, redis.ErrNotObtained) {
		return nil, domain.ErrFetchInProgress
	}
	if err != nil {
		return nil, err
	}
	return lock, nil
}

// LocalLocker - блокировка в пределах одного процесса, когда Redis не настроен.
type LocalLocker struct {
	mu    sync.Mutex
	held  map[string]localLease
	seq   uint64
	nowFn func() time.Time
}

type localLease struct {
	token   uint64
	expires time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		held:  make(map[string]localLease),
		nowFn: time.Now,
	}
}

func (l *LocalLocker) Obtain(_ context.Context, key string, ttl time.Duration) (domain.Lock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFn()
	if lease, ok := l.held[key]; ok && now.Before(lease.expires) {
		return nil, domain.ErrFetchInProgress
	}

	l.seq++
	lease := localLease{token: l.seq, expires: now.Add(ttl)}
	l.held[key] = lease

	return &localLock{locker: l, key: key, token: lease.token}, nil
}

type localLock struct {
	locker *LocalLocker
	key    string
	token  uint64
}

// Release не трогает ключ, если его уже перехватили после истечения ttl.
func (lk *localLock) Release(context.Context) error {
	lk.locker.mu.Lock()
	defer lk.locker.mu.Unlock()

	if lease, ok := lk.locker.held[lk.key]; ok && lease.token == lk.token {
		delete(lk.locker.held, lk.key)
	}
	return nil
}
