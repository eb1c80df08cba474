package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/google/uuid"

	"github.com/kedr891/steam-inventory/internal/domain"
	"github.com/kedr891/steam-inventory/internal/entity"
)

const (
	_defaultWorkers      = 4
	_defaultFetchTimeout = 5 * time.Minute
	_lockObtainTimeout   = 5 * time.Second
)

type jobFetcher interface {
	FetchAndStoreJob(ctx context.Context, jobID uuid.UUID, steamID string, appID int) error
}

// Runner запускает fetch в фоне, отвязанным от контекста запроса.
// На один (steamID, appID) одновременно работает не больше одного fetch.
type Runner struct {
	fetcher jobFetcher
	locker  domain.Locker
	pool    *workerpool.WorkerPool
	log     domain.Logger

	fetchTimeout time.Duration
	lockTTL      time.Duration
}

type RunnerOption func(*Runner)

func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.pool.Stop()
			r.pool = workerpool.New(n)
		}
	}
}

func WithFetchTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.fetchTimeout = d
		}
	}
}

func WithLockTTL(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.lockTTL = d
		}
	}
}

func NewRunner(fetcher jobFetcher, locker domain.Locker, log domain.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		fetcher:      fetcher,
		locker:       locker,
		pool:         workerpool.New(_defaultWorkers),
		log:          log,
		fetchTimeout: _defaultFetchTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.lockTTL <= 0 {
		r.lockTTL = r.fetchTimeout + time.Minute
	}

	return r
}

// Submit ставит fetch в очередь. Канал получает ровно один результат и закрывается.
// Отмена ctx на задачу не влияет: берутся только его значения.
func (r *Runner) Submit(ctx context.Context, steamID string, appID int) (uuid.UUID, <-chan error) {
	jobID := uuid.New()
	done := make(chan error, 1)
	detached := context.WithoutCancel(ctx)

	lock, err := r.obtain(detached, entity.SnapshotKey{SteamID: steamID, AppID: appID})
	if err != nil {
		if errors.Is(err, domain.ErrFetchInProgress) {
			r.log.Info("Inventory fetch already running",
				"job_id", jobID, "steam_id", steamID, "app_id", appID)
		} else {
			r.log.Error("Failed to obtain fetch lock",
				"job_id", jobID, "steam_id", steamID, "app_id", appID, "error", err)
		}
		done <- err
		close(done)
		return jobID, done
	}

	r.pool.Submit(func() {
		defer close(done)

		start := time.Now()
		jobCtx, cancel := context.WithTimeout(detached, r.fetchTimeout)
		defer cancel()

		err := r.fetcher.FetchAndStoreJob(jobCtx, jobID, steamID, appID)

		if relErr := lock.Release(detached); relErr != nil {
			r.log.Warn("Failed to release fetch lock",
				"job_id", jobID, "steam_id", steamID, "app_id", appID, "error", relErr)
		}

		if err != nil {
			r.log.Error("Inventory fetch failed",
				"job_id", jobID, "steam_id", steamID, "app_id", appID,
				"duration", time.Since(start).String(), "error", err)
		} else {
			r.log.Info("Inventory fetch finished",
				"job_id", jobID, "steam_id", steamID, "app_id", appID,
				"duration", time.Since(start).String())
		}

		done <- err
	})

	return jobID, done
}

func (r *Runner) obtain(ctx context.Context, key entity.SnapshotKey) (domain.Lock, error) {
	ctx, cancel := context.WithTimeout(ctx, _lockObtainTimeout)
	defer cancel()

	return r.locker.Obtain(ctx, lockKey(key), r.lockTTL)
}

// Stop дожидается всех поставленных задач.
func (r *Runner) Stop() {
	r.pool.StopWait()
}
