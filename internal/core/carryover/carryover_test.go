package carryover

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draw(round int, bonus int, main ...int) Draw {
	d := Draw{Round: round, Bonus: bonus}
	copy(d.Main[:], main)
	return d
}

func scenarioDraws() []Draw {
	return []Draw{
		draw(1, 7, 1, 2, 3, 4, 5, 6),
		draw(2, 10, 4, 5, 6, 7, 8, 9),
		draw(3, 1, 7, 8, 9, 10, 11, 12),
	}
}

func TestSet(t *testing.T) {
	s := NewSet(5, 1, 45, 1)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []int{1, 5, 45}, s.Sorted())
	assert.True(t, s.Has(45))
	assert.False(t, s.Has(2))
	assert.False(t, s.Has(0))
	assert.True(t, s.ContainsAll(NewSet(1, 45)))
	assert.False(t, s.ContainsAll(NewSet(1, 2)))
	assert.Equal(t, []int{}, Set(0).Sorted())
	assert.Equal(t, NewSet(5), s.Without(NewSet(1, 45)))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(draw(1, 7, 1, 2, 3, 4, 5, 6)))

	cases := map[string]Draw{
		"duplicate main":  draw(2, 7, 1, 1, 3, 4, 5, 6),
		"out of range":    draw(3, 7, 0, 2, 3, 4, 5, 6),
		"above range":     draw(4, 7, 1, 2, 3, 4, 5, 46),
		"bonus in main":   draw(5, 6, 1, 2, 3, 4, 5, 6),
		"bonus too large": draw(6, 50, 1, 2, 3, 4, 5, 6),
	}
	for name, d := range cases {
		t.Run(name, func(t *testing.T) {
			err := Validate(d)
			var malformed *MalformedDrawError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, d.Round, malformed.Round)
		})
	}
}

func TestCompareBonusPromotion(t *testing.T) {
	ds := scenarioDraws()
	r := Compare(ds[0], ds[1])

	assert.Equal(t, 2, r.Round)
	assert.Equal(t, 3, r.MatchCount)
	assert.Equal(t, 4, r.MatchCountWithBonus)
	assert.Equal(t, []int{4, 5, 6, 7}, r.MatchedNumbers)
	assert.Equal(t, []int{7}, r.BonusMatchedNumbers)
	assert.True(t, r.BonusCarried())
}

func TestCompareNoOverlap(t *testing.T) {
	r := Compare(draw(1, 7, 1, 2, 3, 4, 5, 6), draw(2, 45, 10, 11, 12, 13, 14, 15))
	assert.Equal(t, 0, r.MatchCount)
	assert.Equal(t, 0, r.MatchCountWithBonus)
	assert.Equal(t, []int{}, r.MatchedNumbers)
	assert.Equal(t, []int{}, r.BonusMatchedNumbers)
}

func TestBuildHistoryTwoDraws(t *testing.T) {
	h, err := BuildHistory(scenarioDraws()[:2])
	require.NoError(t, err)
	require.Len(t, h.Records, 1)

	r := h.Records[0]
	assert.Equal(t, 2, r.Round)
	assert.Equal(t, 3, r.MatchCount)
	assert.Equal(t, 4, r.MatchCountWithBonus)
	assert.Equal(t, []int{7}, r.BonusMatchedNumbers)

	assert.Equal(t, 1, h.Summary[3].Total)
	assert.Equal(t, 1, h.Summary[4].WithBonus)
	assert.Empty(t, h.Errors)
	assert.Empty(t, h.Gaps)
}

func TestBuildHistoryNoData(t *testing.T) {
	for _, ds := range [][]Draw{nil, scenarioDraws()[:1]} {
		_, err := BuildHistory(ds)
		var noData *NoDataError
		assert.True(t, errors.As(err, &noData))
	}
}

func TestBuildHistoryInvariants(t *testing.T) {
	ds := []Draw{
		draw(5, 2, 10, 20, 30, 40, 41, 42),
		draw(1, 7, 1, 2, 3, 4, 5, 6),
		draw(3, 1, 7, 8, 9, 10, 11, 12),
		draw(2, 10, 4, 5, 6, 7, 8, 9),
		draw(4, 44, 1, 2, 10, 11, 12, 13),
		draw(6, 11, 2, 10, 20, 30, 40, 45),
	}
	h, err := BuildHistory(ds)
	require.NoError(t, err)
	require.Len(t, h.Records, len(ds)-1)

	total, withBonus := h.Summary.Totals()
	assert.Equal(t, len(ds)-1, total)
	assert.Equal(t, len(ds)-1, withBonus)

	for i, r := range h.Records {
		assert.Equal(t, i+2, r.Round, "records are ascending")
		assert.LessOrEqual(t, r.MatchCount, r.MatchCountWithBonus)
		assert.LessOrEqual(t, r.MatchCountWithBonus, MainCount)
		assert.True(t, r.Matched().ContainsAll(NewSet(r.BonusMatchedNumbers...)))
	}

	// bonus 44 of round 4 is not drawn in round 5, bonus 2 of round 5 is
	r6 := h.Records[4]
	assert.Equal(t, 6, r6.Round)
	assert.Equal(t, 4, r6.MatchCount)
	assert.Equal(t, 5, r6.MatchCountWithBonus)
	assert.Equal(t, []int{2, 10, 20, 30, 40}, r6.MatchedNumbers)
}

func TestBuildHistoryDeterministic(t *testing.T) {
	a, err := BuildHistory(scenarioDraws())
	require.NoError(t, err)
	b, err := BuildHistory(scenarioDraws())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuildHistoryCollectsErrors(t *testing.T) {
	ds := []Draw{
		draw(1, 7, 1, 2, 3, 4, 5, 6),
		draw(2, 9, 1, 1, 3, 4, 5, 6),
		draw(3, 10, 4, 5, 6, 7, 8, 9),
		draw(4, 1, 7, 8, 9, 10, 11, 12),
		draw(6, 2, 7, 8, 9, 13, 14, 15),
	}
	h, err := BuildHistory(ds)
	require.NoError(t, err)

	require.Len(t, h.Errors, 1)
	var malformed *MalformedDrawError
	require.ErrorAs(t, h.Errors[0], &malformed)
	assert.Equal(t, 2, malformed.Round)

	rounds := make([]int, 0, len(h.Records))
	for _, r := range h.Records {
		rounds = append(rounds, r.Round)
	}
	assert.Equal(t, []int{4, 6}, rounds)
	assert.Equal(t, []int{6}, h.Gaps)
}

func TestCombinations(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {1, 3}, {2, 3}}, Combinations([]int{1, 2, 3}, 2))
	assert.Nil(t, Combinations([]int{1, 2}, 3))
	assert.Nil(t, Combinations([]int{1, 2}, 0))

	pool := Candidates(draw(1, 7, 6, 5, 4, 3, 2, 1), false)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, pool)
	assert.Len(t, AllCombinations(pool), 63)

	withBonus := Candidates(draw(1, 7, 6, 5, 4, 3, 2, 1), true)
	assert.Len(t, AllCombinations(withBonus), 7+21+35+35+21+7)

	seen := map[string]struct{}{}
	for _, c := range AllCombinations(withBonus) {
		k := ComboKey(c)
		_, dup := seen[k]
		assert.False(t, dup, k)
		seen[k] = struct{}{}
	}
}

func TestComboKey(t *testing.T) {
	assert.Equal(t, "4,5,6", ComboKey([]int{6, 4, 5}))
	c, err := ParseComboKey("6, 4,5")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5, 6}, c)

	_, err = ParseComboKey("4,x")
	assert.Error(t, err)
}

func TestIndexStatCountsBonusAppearances(t *testing.T) {
	ds := scenarioDraws()
	idx := NewIndex(ds)

	st := idx.Stat(3, []int{7}, false)
	assert.Equal(t, 2, st.TotalAppear)
	assert.Equal(t, 2, st.TotalOccur)
	assert.Equal(t, 100.0, st.HitRate)
	assert.Equal(t, []int{3, 2}, st.HistoryRounds)
}

func TestIndexStatPartialHits(t *testing.T) {
	ds := scenarioDraws()
	idx := NewIndex(ds)

	// {4,5} appears in rounds 1 and 2, but only round 2 carries it
	st := idx.Stat(3, []int{5, 4}, false)
	assert.Equal(t, []int{4, 5}, st.Numbers)
	assert.Equal(t, 2, st.TotalAppear)
	assert.Equal(t, 1, st.TotalOccur)
	assert.Equal(t, 50.0, st.HitRate)
	assert.Equal(t, []int{2}, st.HistoryRounds)

	never := idx.Stat(3, []int{44}, false)
	assert.Zero(t, never.TotalAppear)
	assert.Zero(t, never.HitRate)
	assert.Equal(t, []int{}, never.HistoryRounds)
}

func TestIndexStatIgnoresLaterRounds(t *testing.T) {
	idx := NewIndex(scenarioDraws())
	st := idx.Stat(2, []int{7}, false)
	assert.Equal(t, 1, st.TotalAppear)
	assert.Equal(t, []int{2}, st.HistoryRounds)
}

func TestAnalyze(t *testing.T) {
	ds := scenarioDraws()
	idx := NewIndex(ds)

	stats := Analyze(ds[2], idx, false)
	assert.Len(t, stats, 63)
	for _, st := range stats {
		assert.GreaterOrEqual(t, st.HitRate, 0.0)
		assert.LessOrEqual(t, st.HitRate, 100.0)
		assert.LessOrEqual(t, st.TotalOccur, st.TotalAppear)
		if st.TotalAppear == 0 {
			assert.Zero(t, st.HitRate)
		}
		assert.False(t, st.IncludeBonus)
	}

	withBonus := Analyze(ds[2], idx, true)
	assert.Len(t, withBonus, 126)
	assert.True(t, withBonus[0].IncludeBonus)
}

func TestHitRateRounding(t *testing.T) {
	assert.Equal(t, 33.33, HitRate(1, 3))
	assert.Equal(t, 66.67, HitRate(2, 3))
	assert.Equal(t, 0.0, HitRate(0, 0))
}
