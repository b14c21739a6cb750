package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/lottostats/backend/internal/app/appconfig"
	"github.com/lottostats/backend/internal/infra"
	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/model/types"
	"github.com/lottostats/backend/internal/pkg/observability"
	"github.com/lottostats/backend/internal/source/dhlottery"
	"github.com/lottostats/backend/internal/source/llm"
	"github.com/lottostats/backend/internal/source/naver"
)

type LottoSource interface {
	Name() string
	FetchDraws(ctx context.Context, after int) ([]*model.Draw, error)
}

type PensionSource interface {
	Name() string
	LatestRound(ctx context.Context) (int, error)
	FetchDraw(ctx context.Context, round int) (*model.PensionDraw, error)
}

type SpeettoSource interface {
	FetchStatuses(ctx context.Context) ([]*model.SpeettoStatus, error)
}

type Recommender interface {
	Enabled(p llm.Provider) bool
	Ask(ctx context.Context, p llm.Provider) (*llm.Answer, error)
}

// Ingest pulls results from the external sources into the stores and hands
// newly stored lotto rounds to the updater.
type Ingest struct {
	DrawService           *Draw
	PensionService        *Pension
	SpeettoService        *Speetto
	RecommendationService *Recommendation
	Updater               *Updater
	JetStream             nats.JetStreamContext

	Lotto       LottoSource
	Pension     PensionSource
	Speetto     SpeettoSource
	Recommender Recommender
	Providers   []llm.Provider

	dispatch string
}

func NewIngest(
	conf *appconfig.Config,
	js nats.JetStreamContext,
	drawService *Draw,
	pensionService *Pension,
	speettoService *Speetto,
	recommendationService *Recommendation,
	updater *Updater,
	lottoFeed *dhlottery.LottoFeed,
	naverLotto *naver.Lotto,
	naverPension *naver.Pension,
	speetto *dhlottery.Speetto,
	recommender *llm.Client,
) *Ingest {
	var lotto LottoSource = lottoFeed
	if conf.LottoSource == appconfig.LottoSourceNaver {
		lotto = naverLotto
	}
	return &Ingest{
		DrawService:           drawService,
		PensionService:        pensionService,
		SpeettoService:        speettoService,
		RecommendationService: recommendationService,
		Updater:               updater,
		JetStream:             js,
		Lotto:                 lotto,
		Pension:               naverPension,
		Speetto:               speetto,
		Recommender:           recommender,
		Providers:             llm.Providers,
		dispatch:              conf.UpdateDispatch,
	}
}

// IngestLotto stores the rounds newer than the store and dispatches them to
// the updater.
func (s *Ingest) IngestLotto(ctx context.Context) (*types.IngestResponse, error) {
	maxRound, err := s.DrawService.DrawRepo.MaxRound(ctx)
	if err != nil {
		return nil, err
	}

	draws, err := s.Lotto.FetchDraws(ctx, maxRound)
	if err != nil {
		observability.IngestFailures.WithLabelValues("lotto").Inc()
		return nil, errors.Wrapf(err, "failed to fetch draws from %s", s.Lotto.Name())
	}

	inserted, rejected, err := s.DrawService.InsertNew(ctx, draws)
	if err != nil {
		observability.IngestFailures.WithLabelValues("lotto").Inc()
		return nil, err
	}
	observability.IngestedRecords.WithLabelValues("lotto", s.Lotto.Name()).Add(float64(len(inserted)))

	resp := &types.IngestResponse{
		Source:   s.Lotto.Name(),
		Fetched:  len(draws),
		Inserted: inserted,
		Rejected: rejected,
	}
	log.Info().
		Str("evt.name", "ingest.lotto").
		Str("source", resp.Source).
		Int("fetched", resp.Fetched).
		Ints("inserted", inserted).
		Ints("rejected", rejected).
		Msg("lotto ingestion finished")

	if len(inserted) == 0 {
		return resp, nil
	}

	if s.dispatch == appconfig.DispatchNATS {
		if s.JetStream != nil {
			resp.TaskID, err = s.publishUpdate(ctx, inserted)
			return resp, err
		}
		log.Warn().
			Str("evt.name", "ingest.dispatch_fallback").
			Msg("nats dispatch requested but nats is not configured, updating in process")
	}

	resp.Update, err = s.Updater.ProcessRounds(ctx, inserted)
	return resp, err
}

func (s *Ingest) publishUpdate(ctx context.Context, rounds []int) (string, error) {
	task := types.DrawUpdateTask{
		TaskID:    xid.New().String(),
		Rounds:    rounds,
		CreatedAt: time.Now().Unix(),
	}
	b, err := json.Marshal(task)
	if err != nil {
		return "", err
	}
	if _, err := s.JetStream.Publish(infra.DrawSubjectLotto, b, nats.MsgId(updateMsgID(rounds)), nats.Context(ctx)); err != nil {
		return "", errors.Wrap(err, "failed to publish draw update task")
	}
	log.Info().
		Str("evt.name", "ingest.dispatched").
		Str("taskId", task.TaskID).
		Ints("rounds", rounds).
		Msg("draw update task published")
	return task.TaskID, nil
}

// updateMsgID derives the JetStream message id from the rounds so that a
// repeated publication inside the stream's duplicate window is dropped.
func updateMsgID(rounds []int) string {
	return fmt.Sprintf("draw-update-%016x", xxh3.HashString(strings.Trim(fmt.Sprint(rounds), "[]")))
}

// IngestPension stores the pension rounds newer than the store. An empty
// store only receives the latest round.
func (s *Ingest) IngestPension(ctx context.Context) (*types.IngestResponse, error) {
	latest, err := s.Pension.LatestRound(ctx)
	if err != nil {
		observability.IngestFailures.WithLabelValues("pension").Inc()
		return nil, err
	}
	maxRound, err := s.PensionService.PensionRepo.MaxRound(ctx)
	if err != nil {
		return nil, err
	}

	start := maxRound + 1
	if maxRound == 0 {
		start = latest
	}

	resp := &types.IngestResponse{Source: s.Pension.Name(), Inserted: []int{}}
	for round := start; round <= latest; round++ {
		draw, err := s.Pension.FetchDraw(ctx, round)
		if err != nil {
			observability.IngestFailures.WithLabelValues("pension").Inc()
			return resp, errors.Wrapf(err, "failed to fetch pension round %d", round)
		}
		resp.Fetched++

		ok, err := s.PensionService.InsertNew(ctx, draw)
		if err != nil {
			return resp, err
		}
		if ok {
			resp.Inserted = append(resp.Inserted, round)
		}
	}
	observability.IngestedRecords.WithLabelValues("pension", resp.Source).Add(float64(len(resp.Inserted)))

	log.Info().
		Str("evt.name", "ingest.pension").
		Ints("inserted", resp.Inserted).
		Msg("pension ingestion finished")
	return resp, nil
}

func (s *Ingest) SyncSpeetto(ctx context.Context) (*types.SyncResponse, error) {
	statuses, err := s.Speetto.FetchStatuses(ctx)
	if err != nil {
		observability.IngestFailures.WithLabelValues("speetto").Inc()
		return nil, err
	}
	saved, err := s.SpeettoService.SaveStatuses(ctx, statuses)
	observability.IngestedRecords.WithLabelValues("speetto", "dhlottery").Add(float64(saved))
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("evt.name", "ingest.speetto").
		Int("saved", saved).
		Msg("speetto statuses synced")
	return &types.SyncResponse{Saved: saved, Errors: []string{}}, nil
}

// FetchRecommendations asks every provider with a configured key for this
// week's numbers. A failing provider is reported without failing the others.
func (s *Ingest) FetchRecommendations(ctx context.Context) (*types.SyncResponse, error) {
	weekKey := llm.WeekKey(time.Now())

	var (
		mu      sync.Mutex
		recs    []*model.Recommendation
		errMsgs = []string{}
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range s.Providers {
		p := p
		if !s.Recommender.Enabled(p) {
			log.Debug().Str("provider", p.Name).Msg("skipping provider without api key")
			continue
		}
		g.Go(func() error {
			ans, err := s.Recommender.Ask(gctx, p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn().
					Str("evt.name", "ingest.recommendation_failed").
					Err(err).
					Str("provider", p.Name).
					Msg("provider failed")
				observability.IngestFailures.WithLabelValues("recommendation").Inc()
				errMsgs = append(errMsgs, p.Name+": "+err.Error())
				return nil
			}
			recs = append(recs, &model.Recommendation{
				WeekKey:     weekKey,
				Provider:    p.Name,
				Agency:      p.Agency,
				Numbers:     ans.Numbers,
				Reasoning:   ans.Reasoning,
				RawResponse: ans.Raw,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &types.SyncResponse{Errors: errMsgs}
	for _, rec := range recs {
		if err := s.RecommendationService.Save(ctx, rec); err != nil {
			return resp, err
		}
		resp.Saved++
	}
	observability.IngestedRecords.WithLabelValues("recommendation", "llm").Add(float64(resp.Saved))

	log.Info().
		Str("evt.name", "ingest.recommendations").
		Str("weekKey", weekKey).
		Int("saved", resp.Saved).
		Int("failed", len(errMsgs)).
		Msg("recommendations fetched")
	return resp, nil
}
