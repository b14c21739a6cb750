package service

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottostats/backend/internal/core/carryover"
	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/model/types"
	"github.com/lottostats/backend/internal/repo"
)

func TestUpdaterProcessRounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, sequence()[:3]...)

	report, err := f.updater.ProcessRounds(ctx, []int{3, 1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, report.Skipped)
	assert.Equal(t, []int{2, 3}, report.Applied)
	assert.Equal(t, 3, report.AnalyzedFor)

	n, err := f.combo.ComboRepo.CountForRound(ctx, 3)
	require.NoError(t, err)
	assert.Positive(t, n)

	total, _ := f.buckets(t)
	assert.Equal(t, 2, total[3])
}

func TestUpdaterStopsAtFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := sequence()
	f.seed(t, s[0], s[1], s[3])

	report, err := f.updater.ProcessRounds(ctx, []int{4, 2})

	var failed *carryover.RoundFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 4, failed.Round)

	var missing *carryover.MissingPredecessorError
	assert.ErrorAs(t, err, &missing)

	// rounds before the failure stay applied
	assert.Equal(t, []int{2}, report.Applied)
	assert.Zero(t, report.AnalyzedFor)

	records, err := f.carryover.RecordRepo.GetRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].Round)
}

func TestUpdaterNothingApplied(t *testing.T) {
	f := newFixture(t)
	f.seed(t, sequence()[0])

	report, err := f.updater.ProcessRounds(context.Background(), []int{1})
	require.NoError(t, err)
	assert.Empty(t, report.Applied)
	assert.Equal(t, []int{1}, report.Skipped)
	assert.Zero(t, report.AnalyzedFor)
}

func TestComboAnalysisHitRate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, sequence()[:3]...)

	require.NoError(t, f.combo.AnalyzeRound(ctx, 3))

	rows, err := f.combo.GetCombos(ctx, &types.ComboQuery{
		Size:         1,
		IncludeBonus: lo.ToPtr(false),
	})
	require.NoError(t, err)
	require.Len(t, rows, 6)

	top := rows[0]
	assert.Equal(t, "7", top.NumbersCombo)
	assert.Equal(t, 3, top.TargetRound)
	assert.Equal(t, 2, top.TotalAppear)
	assert.Equal(t, 2, top.TotalOccur)
	assert.Equal(t, 100.0, top.HitRate)
	assert.Equal(t, []int{3, 2}, top.HistoryRounds)

	for _, r := range rows {
		assert.Equal(t, 1, r.ComboSize)
		assert.False(t, r.IncludeBonus)
		assert.LessOrEqual(t, r.TotalOccur, r.TotalAppear)
	}
}

func TestComboAnalysisReplacesRound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, sequence()[:3]...)

	stale := &model.ComboAnalysis{
		TargetRound:   3,
		IncludeBonus:  false,
		NumbersCombo:  "44,45",
		ComboSize:     2,
		Numbers:       []int{44, 45},
		TotalAppear:   9,
		TotalOccur:    9,
		HitRate:       100,
		HistoryRounds: []int{},
		AnalyzedAt:    time.Now(),
	}
	_, err := f.db.NewInsert().Model(stale).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, f.combo.AnalyzeRound(ctx, 3))

	mainOnly, err := f.combo.ComboRepo.GetCombos(ctx, repo.ComboFilter{TargetRound: 3, IncludeBonus: lo.ToPtr(false)})
	require.NoError(t, err)
	withBonus, err := f.combo.ComboRepo.GetCombos(ctx, repo.ComboFilter{TargetRound: 3, IncludeBonus: lo.ToPtr(true)})
	require.NoError(t, err)

	// 2^6-1 subsets of the main numbers, 2^7-2 of main plus bonus up to size 6
	assert.Len(t, mainOnly, 63)
	assert.Len(t, withBonus, 126)
	for _, r := range append(mainOnly, withBonus...) {
		assert.NotEqual(t, "44,45", r.NumbersCombo)
	}

	round, err := f.combo.AnalyzeLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, round)

	count, err := f.combo.ComboRepo.CountForRound(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 63+126, count)
}

func TestComboAnalysisNoData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var noData *carryover.NoDataError
	_, err := f.combo.AnalyzeLatest(ctx)
	assert.ErrorAs(t, err, &noData)

	_, err = f.combo.GetCombos(ctx, &types.ComboQuery{})
	assert.ErrorAs(t, err, &noData)

	f.seed(t, sequence()[:2]...)
	assert.ErrorAs(t, f.combo.AnalyzeRound(ctx, 7), &noData)
}
