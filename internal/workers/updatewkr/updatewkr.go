package updatewkr

import (
	"context"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/app/appconfig"
	"github.com/lottostats/backend/internal/infra"
	"github.com/lottostats/backend/internal/model/types"
	"github.com/lottostats/backend/internal/pkg/jetstream"
	"github.com/lottostats/backend/internal/pkg/observability"
	"github.com/lottostats/backend/internal/service"
)

const queueGroup = "lottostats-updater"

var ErrEmptyTask = errors.New("draw update task carries no rounds")

// Processor applies rounds to the carryover history.
type Processor interface {
	ProcessRounds(ctx context.Context, rounds []int) (*types.UpdateResponse, error)
}

type WorkerDeps struct {
	fx.In

	JetStream      nats.JetStreamContext
	UpdaterService *service.Updater
}

type Worker struct {
	processor Processor
	timeout   time.Duration
}

func New(processor Processor, timeout time.Duration) *Worker {
	return &Worker{processor: processor, timeout: timeout}
}

func Start(lc fx.Lifecycle, conf *appconfig.Config, deps WorkerDeps) {
	if conf.UpdateDispatch != appconfig.DispatchNATS || deps.JetStream == nil {
		return
	}

	w := New(deps.UpdaterService, conf.WorkerTimeout)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			msgChan := make(chan *nats.Msg, 16)
			// a single consumer keeps rounds applied in publish order
			sub, err := deps.JetStream.ChanQueueSubscribe(infra.DrawSubjectLotto, queueGroup, msgChan,
				nats.AckWait(conf.WorkerTimeout+time.Minute), nats.MaxAckPending(1))
			if err != nil {
				log.Err(err).Msg("failed to subscribe to " + infra.DrawSubjectLotto)
				return err
			}
			go func() {
				defer close(done)
				defer func() {
					if err := sub.Unsubscribe(); err != nil {
						log.Warn().Err(err).Msg("failed to unsubscribe")
					}
				}()
				w.Consume(ctx, msgChan)
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

// Consume handles messages until ctx is cancelled. Every message is acked;
// a failed task is logged for manual replay through the admin API.
func (w *Worker) Consume(ctx context.Context, msgChan <-chan *nats.Msg) {
	for {
		select {
		case msg := <-msgChan:
			id := jetstream.MessageID(msg)
			informer := time.AfterFunc(time.Second*5, func() {
				if err := msg.InProgress(); err != nil {
					log.Error().Err(err).Str("msgId", id).Msg("failed to set msg InProgress")
				}
			})
			if err := w.Handle(ctx, msg.Data); err != nil {
				log.Warn().Str("msgId", id).Msg("acking failed draw update task")
			}
			informer.Stop()
			if err := msg.Ack(); err != nil {
				log.Error().Err(err).Str("msgId", id).Msg("failed to ack")
			}
		case <-ctx.Done():
			return
		}
	}
}

// Handle decodes one task and applies its rounds.
func (w *Worker) Handle(ctx context.Context, data []byte) error {
	start := time.Now()
	defer func() {
		observability.UpdateConsumeDuration.WithLabelValues().Observe(time.Since(start).Seconds())
	}()

	task := &types.DrawUpdateTask{}
	if err := json.Unmarshal(data, task); err != nil {
		log.Error().Err(err).Str("evt.name", "worker.update.malformed").Msg("failed to decode draw update task")
		return err
	}
	if len(task.Rounds) == 0 {
		log.Warn().Str("taskId", task.TaskID).Msg("draw update task carries no rounds")
		return ErrEmptyTask
	}

	taskCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	report, err := w.processor.ProcessRounds(taskCtx, task.Rounds)
	if err != nil {
		log.Error().
			Err(err).
			Str("evt.name", "worker.update.failed").
			Str("taskId", task.TaskID).
			Str("task", spew.Sdump(task)).
			Str("report", spew.Sdump(report)).
			Msg("failed to consume draw update task")
		return err
	}

	log.Info().
		Str("evt.name", "worker.update.processed").
		Str("taskId", task.TaskID).
		Ints("applied", report.Applied).
		Ints("skipped", report.Skipped).
		Int("analyzedFor", report.AnalyzedFor).
		Msg("draw update task processed successfully")
	return nil
}
