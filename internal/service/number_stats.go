package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetb/go-linq/v3"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"

	"github.com/lottostats/backend/internal/core/carryover"
	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/model/types"
	"github.com/lottostats/backend/internal/repo"
)

// PensionPositions are the digit positions of a pension ticket, group first.
var PensionPositions = []string{"jo", "100k", "10k", "1k", "100", "10", "1"}

const pensionGroups = 5

// NumberStats derives frequency and gap statistics from stored draws.
type NumberStats struct {
	DrawRepo    *repo.Draw
	PensionRepo *repo.PensionDraw
	StatsRepo   *repo.Stats
}

func NewNumberStats(drawRepo *repo.Draw, pensionRepo *repo.PensionDraw, statsRepo *repo.Stats) *NumberStats {
	return &NumberStats{
		DrawRepo:    drawRepo,
		PensionRepo: pensionRepo,
		StatsRepo:   statsRepo,
	}
}

// RefreshLotto recomputes number frequencies and gaps. It returns false when
// the statistics already cover the latest stored round.
func (s *NumberStats) RefreshLotto(ctx context.Context, force bool) (bool, error) {
	draws, err := s.DrawRepo.GetDraws(ctx)
	if err != nil {
		return false, err
	}
	if len(draws) == 0 {
		return false, &carryover.NoDataError{Reason: "draw store is empty"}
	}
	latest := draws[len(draws)-1]

	if !force && s.upToDate(ctx, "lotto", latest.Round) {
		return false, nil
	}

	numbers, gaps := LottoStats(draws)
	if err := s.StatsRepo.SaveLottoStats(ctx, latest.Round, numbers, gaps); err != nil {
		return false, err
	}
	_ = cache.NumberStats.Delete()
	_ = cache.NumberGaps.Delete()

	log.Info().
		Str("evt.name", "stats.refreshed").
		Str("kind", "lotto").
		Int("latestRound", latest.Round).
		Msg("lotto number statistics refreshed")
	return true, nil
}

func (s *NumberStats) RefreshPension(ctx context.Context, force bool) (bool, error) {
	draws, err := s.PensionRepo.GetDraws(ctx)
	if err != nil {
		return false, err
	}
	if len(draws) == 0 {
		return false, &carryover.NoDataError{Reason: "pension store is empty"}
	}
	latest := draws[len(draws)-1]

	if !force && s.upToDate(ctx, "pension", latest.Round) {
		return false, nil
	}

	if err := s.StatsRepo.SavePensionStats(ctx, latest.Round, PensionDigitStats(draws)); err != nil {
		return false, err
	}
	_ = cache.DigitStats.Delete()

	log.Info().
		Str("evt.name", "stats.refreshed").
		Str("kind", "pension").
		Int("latestRound", latest.Round).
		Msg("pension digit statistics refreshed")
	return true, nil
}

func (s *NumberStats) upToDate(ctx context.Context, name string, latestRound int) bool {
	refresh, err := s.StatsRepo.GetRefresh(ctx, name)
	return err == nil && refresh.LatestRound >= latestRound
}

// LottoStats counts appearances of every number, with and without the bonus,
// and how many rounds ago each number was last drawn. draws must be
// ascending.
func LottoStats(draws []*model.Draw) ([]*model.LottoNumberStat, []*model.LottoNumberGap) {
	var mainCount, allCount [carryover.MaxNumber + 1]int
	var lastMain, lastAll [carryover.MaxNumber + 1]*model.Draw

	for _, d := range draws {
		for _, n := range d.Numbers() {
			if n < carryover.MinNumber || n > carryover.MaxNumber {
				continue
			}
			mainCount[n]++
			allCount[n]++
			lastMain[n] = d
			lastAll[n] = d
		}
		if d.Bonus >= carryover.MinNumber && d.Bonus <= carryover.MaxNumber {
			allCount[d.Bonus]++
			lastAll[d.Bonus] = d
		}
	}

	latestRound := 0
	if len(draws) > 0 {
		latestRound = draws[len(draws)-1].Round
	}

	numbers := make([]*model.LottoNumberStat, 0, carryover.MaxNumber*2)
	gaps := make([]*model.LottoNumberGap, 0, carryover.MaxNumber)
	for n := carryover.MinNumber; n <= carryover.MaxNumber; n++ {
		numbers = append(numbers,
			&model.LottoNumberStat{Number: n, IncludeBonus: false, WinCount: mainCount[n]},
			&model.LottoNumberStat{Number: n, IncludeBonus: true, WinCount: allCount[n]},
		)

		gap := &model.LottoNumberGap{Number: n}
		if d := lastMain[n]; d != nil {
			gap.WeeksSince = null.IntFrom(int64(latestRound - d.Round))
			gap.LastRound = null.IntFrom(int64(d.Round))
			gap.LastDate = bun.NullTime{Time: d.DrawDate}
		}
		if d := lastAll[n]; d != nil {
			gap.WeeksSinceWithBonus = null.IntFrom(int64(latestRound - d.Round))
			gap.LastRoundWithBonus = null.IntFrom(int64(d.Round))
			gap.LastDateWithBonus = bun.NullTime{Time: d.DrawDate}
		}
		gaps = append(gaps, gap)
	}
	return numbers, gaps
}

// PensionDigitStats counts the winning digit of every position. The group
// position ranges over 1..5, the others over 0..9.
func PensionDigitStats(draws []*model.PensionDraw) []*model.PensionDigitStat {
	counts := make([][10]int, len(PensionPositions))
	for _, d := range draws {
		if d.Group >= 1 && d.Group <= pensionGroups {
			counts[0][d.Group]++
		}
		for i, c := range d.Number {
			if i+1 >= len(PensionPositions) {
				break
			}
			if c >= '0' && c <= '9' {
				counts[i+1][c-'0']++
			}
		}
	}

	out := make([]*model.PensionDigitStat, 0, pensionGroups+10*(len(PensionPositions)-1))
	for i, pos := range PensionPositions {
		first, last := 0, 9
		if i == 0 {
			first, last = 1, pensionGroups
		}
		for digit := first; digit <= last; digit++ {
			out = append(out, &model.PensionDigitStat{Position: pos, Digit: digit, WinCount: counts[i][digit]})
		}
	}
	return out
}

// Cache: numberStats, 1 hr
func (s *NumberStats) GetNumberStats(ctx context.Context, q *types.NumberStatsQuery) ([]*model.LottoNumberStat, error) {
	var rows []*model.LottoNumberStat
	err := cache.NumberStats.MutexGetSet(&rows, func() ([]*model.LottoNumberStat, error) {
		rows, err := s.StatsRepo.GetNumberStats(ctx)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, &carryover.NoDataError{Reason: "number statistics were never refreshed"}
		}
		return rows, nil
	}, time.Hour)
	if err != nil {
		return nil, err
	}
	return FilterNumberStats(rows, q), nil
}

func FilterNumberStats(rows []*model.LottoNumberStat, q *types.NumberStatsQuery) []*model.LottoNumberStat {
	numbers := parseIntList(q.Numbers)

	query := linq.From(rows).WhereT(func(r *model.LottoNumberStat) bool {
		if len(numbers) > 0 && !containsInt(numbers, r.Number) {
			return false
		}
		if q.IncludeBonus != nil && r.IncludeBonus != *q.IncludeBonus {
			return false
		}
		if q.MinCount != nil && r.WinCount < *q.MinCount {
			return false
		}
		if q.MaxCount != nil && r.WinCount > *q.MaxCount {
			return false
		}
		return true
	})

	bonus := func(r *model.LottoNumberStat) int {
		if r.IncludeBonus {
			return 1
		}
		return 0
	}
	num := func(r *model.LottoNumberStat) int { return r.Number }
	win := func(r *model.LottoNumberStat) int { return r.WinCount }

	var ordered linq.OrderedQuery
	switch q.Order {
	case "win_asc":
		ordered = query.OrderByT(win).ThenByT(num).ThenByT(bonus)
	case "num_asc":
		ordered = query.OrderByT(num).ThenByT(bonus)
	case "num_desc":
		ordered = query.OrderByDescendingT(num).ThenByT(bonus)
	case "bonus_asc":
		ordered = query.OrderByT(bonus).ThenByT(num)
	case "bonus_desc":
		ordered = query.OrderByDescendingT(bonus).ThenByT(num)
	default:
		ordered = query.OrderByDescendingT(win).ThenByT(num).ThenByT(bonus)
	}

	result := ordered.Query
	if q.Limit > 0 {
		result = result.Take(q.Limit)
	}
	out := []*model.LottoNumberStat{}
	result.ToSlice(&out)
	return out
}

// Cache: numberGaps, 1 hr
func (s *NumberStats) GetNumberGaps(ctx context.Context) ([]*model.LottoNumberGap, error) {
	var rows []*model.LottoNumberGap
	err := cache.NumberGaps.MutexGetSet(&rows, func() ([]*model.LottoNumberGap, error) {
		rows, err := s.StatsRepo.GetNumberGaps(ctx)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, &carryover.NoDataError{Reason: "number gaps were never refreshed"}
		}
		return rows, nil
	}, time.Hour)
	return rows, err
}

// Cache: digitStats, 1 hr
func (s *NumberStats) GetDigitStats(ctx context.Context, q *types.DigitStatsQuery) ([]*model.PensionDigitStat, error) {
	var rows []*model.PensionDigitStat
	err := cache.DigitStats.MutexGetSet(&rows, func() ([]*model.PensionDigitStat, error) {
		rows, err := s.StatsRepo.GetDigitStats(ctx)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, &carryover.NoDataError{Reason: "digit statistics were never refreshed"}
		}
		return rows, nil
	}, time.Hour)
	if err != nil {
		return nil, err
	}
	return FilterDigitStats(rows, q), nil
}

func FilterDigitStats(rows []*model.PensionDigitStat, q *types.DigitStatsQuery) []*model.PensionDigitStat {
	var positions []string
	for _, p := range strings.Split(q.Positions, ",") {
		if p = strings.TrimSpace(p); p != "" {
			positions = append(positions, p)
		}
	}
	digits := parseIntList(q.Digits)

	query := linq.From(rows).WhereT(func(r *model.PensionDigitStat) bool {
		if len(positions) > 0 && !linq.From(positions).Contains(r.Position) {
			return false
		}
		if len(digits) > 0 && !containsInt(digits, r.Digit) {
			return false
		}
		if q.MinCount != nil && r.WinCount < *q.MinCount {
			return false
		}
		if q.MaxCount != nil && r.WinCount > *q.MaxCount {
			return false
		}
		return true
	})

	pos := func(r *model.PensionDigitStat) int { return positionIndex(r.Position) }
	digit := func(r *model.PensionDigitStat) int { return r.Digit }
	win := func(r *model.PensionDigitStat) int { return r.WinCount }

	var ordered linq.OrderedQuery
	switch q.Order {
	case "win_asc":
		ordered = query.OrderByT(win).ThenByT(pos).ThenByT(digit)
	case "pos_asc":
		ordered = query.OrderByT(pos).ThenByT(digit)
	case "pos_desc":
		ordered = query.OrderByDescendingT(pos).ThenByT(digit)
	case "digit_asc":
		ordered = query.OrderByT(digit).ThenByT(pos)
	case "digit_desc":
		ordered = query.OrderByDescendingT(digit).ThenByT(pos)
	default:
		ordered = query.OrderByDescendingT(win).ThenByT(pos).ThenByT(digit)
	}

	result := ordered.Query
	if q.Limit > 0 {
		result = result.Take(q.Limit)
	}
	out := []*model.PensionDigitStat{}
	result.ToSlice(&out)
	return out
}

func positionIndex(p string) int {
	for i, v := range PensionPositions {
		if v == p {
			return i
		}
	}
	return len(PensionPositions)
}

// parseIntList reads "1, 7,23" and ignores entries that are not numbers.
func parseIntList(s string) []int {
	var out []int
	for _, part := range strings.Split(s, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}
