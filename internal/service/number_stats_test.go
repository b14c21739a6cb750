package service

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/model/types"
	"github.com/lottostats/backend/internal/pkg/testentry"
	"github.com/lottostats/backend/internal/repo"
)

func pensionDraw(round, group int, number string) *model.PensionDraw {
	return &model.PensionDraw{
		Round:       round,
		DrawDate:    firstDrawDate.AddDate(0, 0, 7*round),
		Group:       group,
		Number:      number,
		BonusNumber: "000000",
	}
}

func TestLottoStats(t *testing.T) {
	numbers, gaps := LottoStats(sequence()[:2])
	require.Len(t, numbers, 90)
	require.Len(t, gaps, 45)

	stat := func(n int, bonus bool) int {
		s, ok := lo.Find(numbers, func(s *model.LottoNumberStat) bool {
			return s.Number == n && s.IncludeBonus == bonus
		})
		require.True(t, ok)
		return s.WinCount
	}
	assert.Equal(t, 2, stat(4, false))
	assert.Equal(t, 1, stat(7, false))
	assert.Equal(t, 2, stat(7, true))
	assert.Equal(t, 0, stat(40, false))
	assert.Equal(t, 1, stat(40, true))

	assert.EqualValues(t, 1, gaps[0].WeeksSince.Int64)
	assert.EqualValues(t, 1, gaps[0].LastRound.Int64)
	assert.EqualValues(t, 0, gaps[6].WeeksSince.Int64)
	assert.EqualValues(t, 0, gaps[39].WeeksSinceWithBonus.Int64)
	assert.False(t, gaps[39].WeeksSince.Valid)
	assert.False(t, gaps[44].LastRound.Valid)
}

func TestPensionDigitStats(t *testing.T) {
	rows := PensionDigitStats([]*model.PensionDraw{
		pensionDraw(1, 1, "123456"),
		pensionDraw(2, 3, "103456"),
	})
	// five groups plus ten digits for each of the six positions
	require.Len(t, rows, 65)
	assert.Equal(t, "jo", rows[0].Position)
	assert.Equal(t, 1, rows[0].Digit)

	count := func(pos string, digit int) int {
		r, ok := lo.Find(rows, func(r *model.PensionDigitStat) bool {
			return r.Position == pos && r.Digit == digit
		})
		require.True(t, ok)
		return r.WinCount
	}
	assert.Equal(t, 1, count("jo", 1))
	assert.Equal(t, 1, count("jo", 3))
	assert.Equal(t, 2, count("100k", 1))
	assert.Equal(t, 1, count("10k", 0))
	assert.Equal(t, 1, count("10k", 2))
	assert.Equal(t, 2, count("1", 6))
}

func TestFilterNumberStats(t *testing.T) {
	numbers, _ := LottoStats(sequence()[:2])

	t.Run("numbers and bonus", func(t *testing.T) {
		rows := FilterNumberStats(numbers, &types.NumberStatsQuery{
			Numbers:      "7,4",
			IncludeBonus: lo.ToPtr(true),
		})
		require.Len(t, rows, 2)
		assert.Equal(t, 4, rows[0].Number)
		assert.Equal(t, 7, rows[1].Number)
	})

	t.Run("count range ordered by number", func(t *testing.T) {
		rows := FilterNumberStats(numbers, &types.NumberStatsQuery{
			IncludeBonus: lo.ToPtr(false),
			MinCount:     lo.ToPtr(2),
			Order:        "num_desc",
		})
		assert.Equal(t, []int{6, 5, 4}, lo.Map(rows, func(r *model.LottoNumberStat, _ int) int { return r.Number }))
	})

	t.Run("limit", func(t *testing.T) {
		rows := FilterNumberStats(numbers, &types.NumberStatsQuery{Limit: 5})
		assert.Len(t, rows, 5)
		assert.Equal(t, 2, rows[0].WinCount)
	})
}

func TestNumberStatsRefresh(t *testing.T) {
	db := testentry.DB(t)
	ctx := context.Background()

	drawRepo := repo.NewDraw(db)
	pensionRepo := repo.NewPensionDraw(db)
	s := NewNumberStats(drawRepo, pensionRepo, repo.NewStats(db))

	_, err := s.RefreshLotto(ctx, false)
	require.Error(t, err)

	_, err = drawRepo.InsertDraws(ctx, sequence())
	require.NoError(t, err)

	refreshed, err := s.RefreshLotto(ctx, false)
	require.NoError(t, err)
	assert.True(t, refreshed)

	refreshed, err = s.RefreshLotto(ctx, false)
	require.NoError(t, err)
	assert.False(t, refreshed)

	refreshed, err = s.RefreshLotto(ctx, true)
	require.NoError(t, err)
	assert.True(t, refreshed)

	rows, err := s.GetNumberStats(ctx, &types.NumberStatsQuery{})
	require.NoError(t, err)
	assert.Len(t, rows, 90)

	gaps, err := s.GetNumberGaps(ctx)
	require.NoError(t, err)
	assert.Len(t, gaps, 45)

	// draw dates survive the round trip through the store
	stored, err := repo.NewStats(db).GetNumberGaps(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 45)
	assert.False(t, stored[0].LastDate.IsZero(), "number 1")
	assert.True(t, stored[0].LastDate.Time.Equal(firstDrawDate))
	assert.True(t, stored[0].LastDateWithBonus.Time.Equal(firstDrawDate.AddDate(0, 0, 14)))
	assert.True(t, stored[44].LastDate.IsZero(), "45 was only drawn as a bonus")
	assert.True(t, stored[44].LastDateWithBonus.Time.Equal(firstDrawDate.AddDate(0, 0, 21)))

	for _, d := range []*model.PensionDraw{pensionDraw(1, 1, "123456"), pensionDraw(2, 2, "654321")} {
		_, err := pensionRepo.InsertDraw(ctx, d)
		require.NoError(t, err)
	}
	refreshed, err = s.RefreshPension(ctx, false)
	require.NoError(t, err)
	assert.True(t, refreshed)

	digits, err := s.GetDigitStats(ctx, &types.DigitStatsQuery{Positions: "jo"})
	require.NoError(t, err)
	assert.Len(t, digits, 5)
}

func TestPensionInsertNew(t *testing.T) {
	db := testentry.DB(t)
	ctx := context.Background()
	s := NewPension(repo.NewPensionDraw(db))

	ok, err := s.InsertNew(ctx, pensionDraw(10, 1, "123456"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.InsertNew(ctx, pensionDraw(9, 1, "123456"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.InsertNew(ctx, pensionDraw(11, 1, "12345"))
	assert.Error(t, err)

	latest, err := s.GetLatestDraw(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, latest.Round)
}
