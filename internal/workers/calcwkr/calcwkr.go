package calcwkr

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/app/appconfig"
	"github.com/lottostats/backend/internal/service"
)

// Refresher recomputes the derived statistics tables when their source data
// moved on.
type Refresher interface {
	RefreshLotto(ctx context.Context, force bool) (bool, error)
	RefreshPension(ctx context.Context, force bool) (bool, error)
}

type WorkerDeps struct {
	fx.In

	NumberStatsService *service.NumberStats
}

type Worker struct {
	// count counts batches worker has completed so far
	count int
	mu    sync.Mutex

	// sep describes the separation time in-between different jobs
	sep time.Duration

	// interval describes the interval in-between different batches of job running
	interval time.Duration

	// timeout bounds a single job
	timeout time.Duration

	refresher Refresher
}

func New(conf *appconfig.Config, refresher Refresher) *Worker {
	return &Worker{
		sep:       conf.WorkerSeparation,
		interval:  conf.WorkerInterval,
		timeout:   conf.WorkerTimeout,
		refresher: refresher,
	}
}

func Start(lc fx.Lifecycle, conf *appconfig.Config, deps WorkerDeps) {
	if !conf.WorkerEnabled {
		log.Info().Str("evt.name", "worker.calc.disabled").Msg("calc worker disabled by configuration")
		return
	}

	w := New(conf, deps.NumberStatsService)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				w.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

// Run executes batches until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		log.Info().
			Str("evt.name", "worker.calc.batch_started").
			Int("count", w.Count()).
			Msg("worker batch started")

		w.job(ctx, "lotto", w.refresher.RefreshLotto)
		if !sleep(ctx, w.sep) {
			return
		}
		w.job(ctx, "pension", w.refresher.RefreshPension)

		log.Info().
			Str("evt.name", "worker.calc.batch_finished").
			Int("count", w.Count()).
			Msg("worker batch finished")

		w.mu.Lock()
		w.count++
		w.mu.Unlock()

		if !sleep(ctx, w.interval) {
			return
		}
	}
}

func (w *Worker) job(ctx context.Context, task string, f func(ctx context.Context, force bool) (bool, error)) {
	jobCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	var refreshed bool
	err := observeCalcDuration("NumberStats", task, func() error {
		var err error
		refreshed, err = f(jobCtx, false)
		return err
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("evt.name", "worker.calc.failed").
			Str("task", task).
			Msg("worker calculation failed")
		return
	}
	log.Debug().
		Str("task", task).
		Bool("refreshed", refreshed).
		Msg("worker finished")
}

func (w *Worker) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// sleep waits for d and reports whether ctx is still alive.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
