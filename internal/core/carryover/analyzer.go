package carryover

import (
	"sort"

	"github.com/lottostats/backend/internal/util"
)

// ComboStat is the hit-rate of one combination against the history that
// precedes a target round.
type ComboStat struct {
	Numbers      []int
	IncludeBonus bool
	TotalAppear  int
	TotalOccur   int
	HitRate      float64

	// HistoryRounds are the follow-up rounds that carried the whole
	// combination, newest first.
	HistoryRounds []int
}

func (c ComboStat) Key() string { return ComboKey(c.Numbers) }

// Index is a read-only lookup of historical draws by round.
type Index struct {
	all  map[int]Set
	main map[int]Set
	// rounds is sorted descending
	rounds []int
}

func NewIndex(draws []Draw) *Index {
	idx := &Index{
		all:    make(map[int]Set, len(draws)),
		main:   make(map[int]Set, len(draws)),
		rounds: make([]int, 0, len(draws)),
	}
	for _, d := range draws {
		if _, ok := idx.main[d.Round]; ok {
			continue
		}
		idx.all[d.Round] = d.AllSet()
		idx.main[d.Round] = d.MainSet()
		idx.rounds = append(idx.rounds, d.Round)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(idx.rounds)))
	return idx
}

func (idx *Index) Len() int { return len(idx.rounds) }

// Stat computes the statistics of combo for rounds strictly before target.
// A round r counts as an appearance when its main and bonus numbers contain
// every number of combo; it is a hit when round r+1, which may be target
// itself, carries every number of combo among its main numbers.
func (idx *Index) Stat(target int, combo []int, includeBonus bool) ComboStat {
	c := NewSet(combo...)
	st := ComboStat{
		Numbers:       c.Sorted(),
		IncludeBonus:  includeBonus,
		HistoryRounds: []int{},
	}

	for _, r := range idx.rounds {
		if r >= target {
			continue
		}
		if !idx.all[r].ContainsAll(c) {
			continue
		}
		st.TotalAppear++

		next, ok := idx.main[r+1]
		if !ok {
			continue
		}
		if next.ContainsAll(c) {
			st.TotalOccur++
			st.HistoryRounds = append(st.HistoryRounds, r+1)
		}
	}

	st.HitRate = HitRate(st.TotalOccur, st.TotalAppear)
	return st
}

// Analyze computes every combination of the target's candidate pool.
func Analyze(target Draw, idx *Index, includeBonus bool) []ComboStat {
	combos := AllCombinations(Candidates(target, includeBonus))
	out := make([]ComboStat, 0, len(combos))
	for _, c := range combos {
		out = append(out, idx.Stat(target.Round, c, includeBonus))
	}
	return out
}

// HitRate is occur/appear as a percentage rounded to two decimals, or 0 when
// nothing appeared.
func HitRate(occur, appear int) float64 {
	return util.Percent(occur, appear, 2)
}
