package service

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/lottostats/backend/internal/core/carryover"
	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/model/types"
	"github.com/lottostats/backend/internal/pkg/observability"
)

// Updater applies newly stored rounds to the carryover history and then
// refreshes the combination analysis of the latest draw.
type Updater struct {
	CarryoverService     *Carryover
	ComboAnalysisService *ComboAnalysis
}

func NewUpdater(carryoverService *Carryover, comboAnalysisService *ComboAnalysis) *Updater {
	return &Updater{
		CarryoverService:     carryoverService,
		ComboAnalysisService: comboAnalysisService,
	}
}

// ProcessRounds applies rounds in ascending order and stops at the first
// failure, returning a *carryover.RoundFailedError. Rounds applied before
// the failure stay applied and are listed in the returned report.
func (s *Updater) ProcessRounds(ctx context.Context, rounds []int) (*types.UpdateResponse, error) {
	rounds = lo.Uniq(rounds)
	sort.Ints(rounds)

	report := &types.UpdateResponse{
		Applied: []int{},
		Skipped: []int{},
	}

	for i, round := range rounds {
		_, err := s.CarryoverService.ApplyRound(ctx, round, ApplyOptions{})

		var missing *carryover.MissingPredecessorError
		if i == 0 && errors.As(err, &missing) {
			// the earliest stored draw has nothing to carry from
			count, cerr := s.CarryoverService.DrawRepo.CountBefore(ctx, s.CarryoverService.DB, round)
			if cerr == nil && count == 0 {
				log.Info().
					Str("evt.name", "updater.skipped").
					Int("round", round).
					Msg("round has no predecessor in store, skipping")
				report.Skipped = append(report.Skipped, round)
				observability.UpdaterRounds.WithLabelValues("skipped").Inc()
				continue
			}
		}

		if err != nil {
			observability.UpdaterRounds.WithLabelValues("failed").Inc()
			log.Error().
				Str("evt.name", "updater.failed").
				Err(err).
				Int("round", round).
				Ints("applied", report.Applied).
				Msg("stopping update at failed round")
			return report, &carryover.RoundFailedError{Round: round, Err: err}
		}

		report.Applied = append(report.Applied, round)
		observability.UpdaterRounds.WithLabelValues("applied").Inc()
	}

	if len(report.Applied) == 0 {
		return report, nil
	}

	analyzed, err := s.ComboAnalysisService.AnalyzeLatest(ctx)
	if err != nil {
		return report, err
	}
	report.AnalyzedFor = analyzed

	cache.FlushGroup(cache.GroupLotto)

	return report, nil
}
