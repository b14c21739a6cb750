package ingestwkr

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/app/appconfig"
	"github.com/lottostats/backend/internal/service"
	"github.com/lottostats/backend/internal/util"
)

type WorkerDeps struct {
	fx.In

	IngestService *service.Ingest
}

// Job is one scheduled ingestion.
type Job struct {
	Name    string
	Crontab string
	Run     func(ctx context.Context) error
}

func Jobs(conf *appconfig.Config, s *service.Ingest) []Job {
	return []Job{
		{
			Name:    "ingest-lotto",
			Crontab: conf.IngestLottoCron,
			Run: func(ctx context.Context) error {
				_, err := s.IngestLotto(ctx)
				return err
			},
		},
		{
			Name:    "ingest-pension",
			Crontab: conf.IngestPensionCron,
			Run: func(ctx context.Context) error {
				_, err := s.IngestPension(ctx)
				return err
			},
		},
		{
			Name:    "sync-speetto",
			Crontab: conf.SyncSpeettoCron,
			Run: func(ctx context.Context) error {
				_, err := s.SyncSpeetto(ctx)
				return err
			},
		},
		{
			Name:    "fetch-recommendations",
			Crontab: conf.RecommendCron,
			Run: func(ctx context.Context) error {
				_, err := s.FetchRecommendations(ctx)
				return err
			},
		},
	}
}

// NewScheduler registers jobs on a scheduler evaluating crontabs in KST.
// A job still running when its next tick arrives is rescheduled, not stacked.
func NewScheduler(jobs []Job, timeout time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(util.KST))
	if err != nil {
		return nil, err
	}

	for _, job := range jobs {
		job := job
		_, err := sched.NewJob(
			gocron.CronJob(job.Crontab, false),
			gocron.NewTask(func() { run(job, timeout) }),
			gocron.WithName(job.Name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = sched.Shutdown()
			return nil, errors.Wrapf(err, "invalid schedule %q for job %s", job.Crontab, job.Name)
		}
	}
	return sched, nil
}

func run(job Job, timeout time.Duration) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	log.Info().Str("evt.name", "worker.ingest.started").Str("job", job.Name).Msg("ingestion job started")
	if err := job.Run(ctx); err != nil {
		log.Error().
			Err(err).
			Str("evt.name", "worker.ingest.failed").
			Str("job", job.Name).
			Dur("duration", time.Since(start)).
			Msg("ingestion job failed")
		return
	}
	log.Info().
		Str("evt.name", "worker.ingest.finished").
		Str("job", job.Name).
		Dur("duration", time.Since(start)).
		Msg("ingestion job finished")
}

func Start(lc fx.Lifecycle, conf *appconfig.Config, deps WorkerDeps) error {
	if !conf.IngestEnabled {
		log.Info().Str("evt.name", "worker.ingest.disabled").Msg("ingestion schedules disabled by configuration")
		return nil
	}

	sched, err := NewScheduler(Jobs(conf, deps.IngestService), conf.WorkerTimeout)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			sched.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			return sched.Shutdown()
		},
	})
	return nil
}
