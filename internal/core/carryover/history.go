package carryover

import "sort"

// History is the result of a full rebuild over the draw store.
type History struct {
	Records []Record
	Summary Summary

	// Errors holds per-round problems that were skipped instead of aborting
	// the rebuild.
	Errors []error

	// Gaps lists rounds whose stored predecessor is not round-1.
	Gaps []int
}

// BuildHistory compares every adjacent pair of draws in ascending round
// order. Pairs involving a malformed or repeated draw are skipped and
// reported in History.Errors.
func BuildHistory(draws []Draw) (*History, error) {
	if len(draws) < 2 {
		return nil, &NoDataError{Reason: "at least two draws are required"}
	}

	sorted := make([]Draw, len(draws))
	copy(sorted, draws)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Round < sorted[j].Round })

	h := &History{Records: make([]Record, 0, len(sorted)-1)}

	valid := make([]bool, len(sorted))
	for i, d := range sorted {
		if err := Validate(d); err != nil {
			h.Errors = append(h.Errors, err)
			continue
		}
		valid[i] = true
	}

	for i := 1; i < len(sorted); i++ {
		prev, curr := sorted[i-1], sorted[i]
		if curr.Round == prev.Round {
			h.Errors = append(h.Errors, &DuplicateRoundError{Round: curr.Round})
			continue
		}
		if !valid[i-1] || !valid[i] {
			continue
		}
		if curr.Round != prev.Round+1 {
			h.Gaps = append(h.Gaps, curr.Round)
		}

		r := Compare(prev, curr)
		h.Records = append(h.Records, r)
		h.Summary.Add(r)
	}

	return h, nil
}
