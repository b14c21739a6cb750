package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/uptrace/bun"

	"github.com/lottostats/backend/internal/constant"
	"github.com/lottostats/backend/internal/core/carryover"
	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/model/types"
	"github.com/lottostats/backend/internal/pkg/pgerr"
	"github.com/lottostats/backend/internal/repo"
	"github.com/lottostats/backend/internal/util"
)

const caseHistoryLimit = 10

type ApplyOptions struct {
	// RejectProcessed fails with DuplicateRoundError instead of recomputing
	// a round that already has a record.
	RejectProcessed bool
}

// Carryover maintains the carryover history and its summary buckets.
type Carryover struct {
	DB          *bun.DB
	DrawRepo    *repo.Draw
	RecordRepo  *repo.CarryoverRecord
	SummaryRepo *repo.CarryoverSummary
	DrawService *Draw

	lock Locker
}

func NewCarryover(db *bun.DB, drawRepo *repo.Draw, recordRepo *repo.CarryoverRecord, summaryRepo *repo.CarryoverSummary, drawService *Draw, lock Locker) *Carryover {
	return &Carryover{
		DB:          db,
		DrawRepo:    drawRepo,
		RecordRepo:  recordRepo,
		SummaryRepo: summaryRepo,
		DrawService: drawService,
		lock:        lock,
	}
}

func (s *Carryover) acquire(ctx context.Context) (func(), error) {
	if err := s.lock.LockContext(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to acquire carryover lock")
	}
	return func() {
		if _, err := s.lock.UnlockContext(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to release carryover lock")
		}
	}, nil
}

// Rebuild recomputes every record and bucket from the draw store. Nothing is
// written when fewer than two draws exist.
func (s *Carryover) Rebuild(ctx context.Context) (*types.RebuildResponse, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	draws, err := s.DrawRepo.GetDraws(ctx)
	if err != nil {
		return nil, err
	}

	history, err := carryover.BuildHistory(model.CoreDraws(draws))
	if err != nil {
		return nil, err
	}

	records := lo.Map(history.Records, func(r carryover.Record, _ int) *model.CarryoverRecord {
		return model.NewCarryoverRecord(r)
	})

	err = s.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.RecordRepo.ReplaceRecords(ctx, tx, records); err != nil {
			return err
		}
		return s.SummaryRepo.ReplaceSummary(ctx, tx, model.SummaryRows(history.Summary))
	})
	if err != nil {
		return nil, err
	}

	for _, e := range history.Errors {
		log.Warn().
			Str("evt.name", "carryover.rebuild.skipped").
			Err(e).
			Msg("skipped round while rebuilding carryover history")
	}
	if len(history.Gaps) > 0 {
		log.Warn().
			Str("evt.name", "carryover.rebuild.gaps").
			Ints("rounds", history.Gaps).
			Msg("draw store has gaps: records pair adjacent stored rounds")
	}

	cache.FlushGroup(cache.GroupLotto)

	return &types.RebuildResponse{
		Records: len(records),
		Gaps:    lo.Ternary(history.Gaps == nil, []int{}, history.Gaps),
		Errors: lo.Map(history.Errors, func(e error, _ int) string {
			return e.Error()
		}),
	}, nil
}

// ApplyRound computes the record of round against round-1 and folds it into
// the summary. Re-applying a round replaces its previous contribution.
func (s *Carryover) ApplyRound(ctx context.Context, round int, opts ApplyOptions) (*carryover.Record, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var rec carryover.Record
	err = s.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		curr, err := s.DrawRepo.GetDrawByRoundTx(ctx, tx, round)
		if errors.Is(err, pgerr.ErrNotFound) {
			return &carryover.NoDataError{Reason: fmt.Sprintf("round %d is not stored", round)}
		} else if err != nil {
			return err
		}

		prev, err := s.DrawRepo.GetDrawByRoundTx(ctx, tx, round-1)
		if errors.Is(err, pgerr.ErrNotFound) {
			return &carryover.MissingPredecessorError{Round: round}
		} else if err != nil {
			return err
		}

		if err := carryover.Validate(prev.Core()); err != nil {
			return err
		}
		if err := carryover.Validate(curr.Core()); err != nil {
			return err
		}

		old, err := s.RecordRepo.GetRecordByRound(ctx, tx, round)
		if errors.Is(err, pgerr.ErrNotFound) {
			old = nil
		} else if err != nil {
			return err
		} else if opts.RejectProcessed {
			return &carryover.DuplicateRoundError{Round: round}
		}

		rec = carryover.Compare(prev.Core(), curr.Core())

		if err := s.SummaryRepo.EnsureBuckets(ctx, tx, carryover.MainCount+1); err != nil {
			return err
		}
		if old != nil {
			if err := s.shiftBuckets(ctx, tx, old.Core(), -1); err != nil {
				return err
			}
		}
		if err := s.shiftBuckets(ctx, tx, rec, 1); err != nil {
			return err
		}
		return s.RecordRepo.UpsertRecord(ctx, tx, model.NewCarryoverRecord(rec))
	})
	if err != nil {
		return nil, err
	}

	cache.FlushGroup(cache.GroupLotto)

	log.Info().
		Str("evt.name", "carryover.applied").
		Int("round", round).
		Int("matchCount", rec.MatchCount).
		Int("matchCountWithBonus", rec.MatchCountWithBonus).
		Msg("carryover record applied")

	return &rec, nil
}

func (s *Carryover) shiftBuckets(ctx context.Context, tx bun.Tx, r carryover.Record, delta int) error {
	if err := s.SummaryRepo.IncrementTotal(ctx, tx, r.MatchCount, delta); err != nil {
		return err
	}
	return s.SummaryRepo.IncrementWithBonus(ctx, tx, r.MatchCountWithBonus, delta)
}

// Cache: carryoverSummary, 1 hr
func (s *Carryover) GetSummary(ctx context.Context) ([]*model.CarryoverSummary, error) {
	var rows []*model.CarryoverSummary
	err := cache.CarryoverSummary.MutexGetSet(&rows, func() ([]*model.CarryoverSummary, error) {
		rows, err := s.SummaryRepo.GetSummary(ctx)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, &carryover.NoDataError{Reason: "carryover summary was never built"}
		}
		return rows, nil
	}, time.Hour)
	return rows, err
}

func (s *Carryover) GetHistory(ctx context.Context, q *types.CarryoverHistoryQuery) ([]*model.CarryoverRecord, error) {
	limit := lo.Ternary(q.Limit > 0, q.Limit, constant.DefaultHistoryLimit)
	records, err := s.RecordRepo.GetRecordsDesc(ctx, q.MatchCount, q.WithBonus, limit)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*model.CarryoverRecord{}
	}
	return records, nil
}

func (s *Carryover) records(ctx context.Context) ([]*model.CarryoverRecord, error) {
	records, err := s.RecordRepo.GetRecords(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &carryover.NoDataError{Reason: "carryover history was never built"}
	}
	return records, nil
}

// GetCaseStats reports how often exactly count numbers were carried.
// Case 1 excludes records where the previous bonus was carried, case 2
// counts bonus-inclusive matches, and case 3 requires a carried bonus.
//
// Cache: carryoverCaseStats#count|includeBonus|mustIncludeBonus:{count}|{includeBonus}|{mustIncludeBonus}, 1 hr
func (s *Carryover) GetCaseStats(ctx context.Context, q *types.CarryoverStatsQuery) (*types.CarryoverCaseStats, error) {
	key := strings.Join([]string{strconv.Itoa(q.Count), strconv.FormatBool(q.IncludeBonus), strconv.FormatBool(q.MustIncludeBonus)}, "|")

	var stats types.CarryoverCaseStats
	_, err := cache.CarryoverCaseStats.MutexGetSet(key, &stats, func() (types.CarryoverCaseStats, error) {
		records, err := s.records(ctx)
		if err != nil {
			return types.CarryoverCaseStats{}, err
		}
		return caseStats(records, q), nil
	}, time.Hour)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func caseStats(records []*model.CarryoverRecord, q *types.CarryoverStatsQuery) types.CarryoverCaseStats {
	c := 1
	switch {
	case q.MustIncludeBonus:
		c = 3
	case q.IncludeBonus:
		c = 2
	}

	matches := func(r *model.CarryoverRecord) bool {
		count := r.MatchCount
		if q.IncludeBonus {
			count = r.MatchCountWithBonus
		}
		if count != q.Count {
			return false
		}
		bonusCarried := len(r.BonusMatchedNumbers) > 0
		switch c {
		case 3:
			return bonusCarried
		case 1:
			return !bonusCarried
		}
		return true
	}

	stats := types.CarryoverCaseStats{
		Case:       c,
		MatchCount: q.Count,
		Total:      len(records),
		History:    []types.CarryoverCaseEntry{},
	}
	// newest first
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if !matches(r) {
			continue
		}
		stats.Occurrences++
		if len(stats.History) < caseHistoryLimit {
			stats.History = append(stats.History, types.CarryoverCaseEntry{
				Round:          r.Round,
				MatchedNumbers: r.MatchedNumbers,
			})
		}
	}
	stats.ActualProb = util.Percent(stats.Occurrences, stats.Total, 2)
	return stats
}

// GetCandidateAnalysis rates each number of the latest draw by how often it
// was carried into the following round, and reports how often the picks
// were carried together.
//
// Cache: carryoverAnalysis#includeBonus|pick:{includeBonus}|{pick}, 1 hr
func (s *Carryover) GetCandidateAnalysis(ctx context.Context, picks []int, includeBonus bool) (*types.CandidateAnalysis, error) {
	key := strconv.FormatBool(includeBonus) + "|" + carryover.ComboKey(picks)

	var analysis types.CandidateAnalysis
	_, err := cache.CarryoverAnalysis.MutexGetSet(key, &analysis, func() (types.CandidateAnalysis, error) {
		latest, err := s.DrawService.GetLatestDraw(ctx)
		if errors.Is(err, pgerr.ErrNotFound) {
			return types.CandidateAnalysis{}, &carryover.NoDataError{Reason: "draw store is empty"}
		} else if err != nil {
			return types.CandidateAnalysis{}, err
		}
		draws, err := s.DrawService.GetDraws(ctx)
		if err != nil {
			return types.CandidateAnalysis{}, err
		}
		records, err := s.records(ctx)
		if err != nil {
			return types.CandidateAnalysis{}, err
		}
		return candidateAnalysis(latest, draws, records, picks, includeBonus), nil
	}, time.Hour)
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

func candidateAnalysis(latest *model.Draw, draws []*model.Draw, records []*model.CarryoverRecord, picks []int, includeBonus bool) types.CandidateAnalysis {
	core := latest.Core()
	candidates := carryover.Candidates(core, includeBonus)

	matched := lo.Map(records, func(r *model.CarryoverRecord, _ int) carryover.Set {
		return carryover.NewSet(r.MatchedNumbers...)
	})
	bonusMatched := lo.Map(records, func(r *model.CarryoverRecord, _ int) carryover.Set {
		return carryover.NewSet(r.BonusMatchedNumbers...)
	})
	appearances := lo.Map(draws, func(d *model.Draw, _ int) carryover.Set {
		if includeBonus {
			return d.Core().AllSet()
		}
		return d.Core().MainSet()
	})

	rates := make([]types.CandidateCarryRate, 0, len(candidates))
	for _, n := range candidates {
		carried := 0
		for i := range records {
			if matched[i].Has(n) && (includeBonus || !bonusMatched[i].Has(n)) {
				carried++
			}
		}
		appeared := lo.CountBy(appearances, func(s carryover.Set) bool { return s.Has(n) })
		rates = append(rates, types.CandidateCarryRate{
			Number:          n,
			CarryCount:      carried,
			AppearanceCount: appeared,
			CarryoverRate:   util.Percent(carried, appeared, 2),
			IsBonusLastWeek: n == core.Bonus,
		})
	}
	sortCarryRates(rates)

	analysis := types.CandidateAnalysis{
		Case:       lo.Ternary(includeBonus, 2, 1),
		LastRound:  core.Round,
		Candidates: rates,
	}

	if len(picks) > 0 {
		want := carryover.NewSet(picks...)
		synergy := &types.Synergy{
			Pair:               want.Sorted(),
			ContainsBonusCarry: want.Has(core.Bonus),
			Rounds:             []int{},
		}
		for i, r := range records {
			if matched[i].ContainsAll(want) {
				synergy.Rounds = append(synergy.Rounds, r.Round)
			}
		}
		synergy.CoOccurrenceCount = len(synergy.Rounds)
		analysis.Synergy = synergy
	}

	return analysis
}

func sortCarryRates(rates []types.CandidateCarryRate) {
	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].CarryoverRate > rates[j].CarryoverRate
	})
}
