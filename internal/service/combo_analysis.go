package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/lottostats/backend/internal/constant"
	"github.com/lottostats/backend/internal/core/carryover"
	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/model/types"
	"github.com/lottostats/backend/internal/pkg/observability"
	"github.com/lottostats/backend/internal/pkg/pgerr"
	"github.com/lottostats/backend/internal/repo"
)

type ComboAnalysis struct {
	DrawRepo  *repo.Draw
	ComboRepo *repo.ComboAnalysis
}

func NewComboAnalysis(drawRepo *repo.Draw, comboRepo *repo.ComboAnalysis) *ComboAnalysis {
	return &ComboAnalysis{
		DrawRepo:  drawRepo,
		ComboRepo: comboRepo,
	}
}

// AnalyzeLatest analyzes the combinations of the newest stored draw and
// returns its round.
func (s *ComboAnalysis) AnalyzeLatest(ctx context.Context) (int, error) {
	latest, err := s.DrawRepo.GetLatestDraw(ctx)
	if errors.Is(err, pgerr.ErrNotFound) {
		return 0, &carryover.NoDataError{Reason: "draw store is empty"}
	} else if err != nil {
		return 0, err
	}
	return latest.Round, s.analyze(ctx, latest)
}

func (s *ComboAnalysis) AnalyzeRound(ctx context.Context, round int) error {
	target, err := s.DrawRepo.GetDrawByRound(ctx, round)
	if errors.Is(err, pgerr.ErrNotFound) {
		return &carryover.NoDataError{Reason: fmt.Sprintf("round %d is not stored", round)}
	} else if err != nil {
		return err
	}
	return s.analyze(ctx, target)
}

func (s *ComboAnalysis) analyze(ctx context.Context, target *model.Draw) error {
	start := time.Now()
	core := target.Core()
	if err := carryover.Validate(core); err != nil {
		return err
	}

	// only draws sharing a number with the target can contribute
	history, err := s.DrawRepo.GetDrawsContainingAny(ctx, core.AllSet().Sorted(), core.Round)
	if err != nil {
		return err
	}
	idx := carryover.NewIndex(model.CoreDraws(history))

	var mainOnly, withBonus []carryover.ComboStat
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		mainOnly = carryover.Analyze(core, idx, false)
		return nil
	})
	g.Go(func() error {
		withBonus = carryover.Analyze(core, idx, true)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	now := time.Now()
	rows := make([]*model.ComboAnalysis, 0, len(mainOnly)+len(withBonus))
	for _, st := range append(mainOnly, withBonus...) {
		rows = append(rows, model.NewComboAnalysis(core.Round, st, now))
	}

	if err := s.ComboRepo.ReplaceForRound(ctx, core.Round, rows); err != nil {
		return err
	}

	_ = cache.Combos.Flush()

	dur := time.Since(start)
	observability.ComboAnalysisDuration.WithLabelValues().Observe(dur.Seconds())
	log.Info().
		Str("evt.name", "combo.analyzed").
		Int("targetRound", core.Round).
		Int("rows", len(rows)).
		Int("history", idx.Len()).
		Dur("duration", dur).
		Msg("combination analysis replaced")

	return nil
}

// GetCombos reads the stored analysis, defaulting to the latest analyzed
// target round.
//
// Cache: combos#round|size|includeBonus|minAppear|limit, 1 hr
func (s *ComboAnalysis) GetCombos(ctx context.Context, q *types.ComboQuery) ([]*model.ComboAnalysis, error) {
	filter := repo.ComboFilter{
		TargetRound:  q.Round,
		Size:         q.Size,
		IncludeBonus: q.IncludeBonus,
		MinAppear:    q.MinAppear,
		Limit:        lo.Ternary(q.Limit > 0, q.Limit, constant.DefaultComboLimit),
	}
	if filter.TargetRound == 0 {
		round, err := s.ComboRepo.LatestTargetRound(ctx)
		if err != nil {
			return nil, err
		}
		if round == 0 {
			return nil, &carryover.NoDataError{Reason: "no combination analysis stored"}
		}
		filter.TargetRound = round
	}

	key := strings.Join([]string{
		strconv.Itoa(filter.TargetRound),
		strconv.Itoa(filter.Size),
		lo.Ternary(filter.IncludeBonus == nil, "any", strconv.FormatBool(lo.FromPtr(filter.IncludeBonus))),
		strconv.Itoa(filter.MinAppear),
		strconv.Itoa(filter.Limit),
	}, "|")

	var rows []*model.ComboAnalysis
	_, err := cache.Combos.MutexGetSet(key, &rows, func() ([]*model.ComboAnalysis, error) {
		rows, err := s.ComboRepo.GetCombos(ctx, filter)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			n, err := s.ComboRepo.CountForRound(ctx, filter.TargetRound)
			if err != nil {
				return nil, err
			}
			if n == 0 {
				return nil, &carryover.NoDataError{Reason: fmt.Sprintf("round %d was never analyzed", filter.TargetRound)}
			}
			rows = []*model.ComboAnalysis{}
		}
		return rows, nil
	}, time.Hour)
	return rows, err
}
