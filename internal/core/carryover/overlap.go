package carryover

// Record is the overlap between one draw and its predecessor.
type Record struct {
	Round               int
	MatchCount          int
	MatchCountWithBonus int

	// MatchedNumbers is every carried number, bonus carry included, ascending.
	MatchedNumbers []int
	// BonusMatchedNumbers holds the previous bonus when it reappeared among
	// the current main numbers.
	BonusMatchedNumbers []int
}

// Compare computes the carryover of prev into curr. Both draws are assumed
// valid.
func Compare(prev, curr Draw) Record {
	currMain := curr.MainSet()
	mainCarry := prev.MainSet().Intersect(currMain)
	bonusCarry := NewSet(prev.Bonus).Intersect(currMain).Without(mainCarry)
	all := mainCarry.Union(bonusCarry)

	return Record{
		Round:               curr.Round,
		MatchCount:          mainCarry.Len(),
		MatchCountWithBonus: all.Len(),
		MatchedNumbers:      all.Sorted(),
		BonusMatchedNumbers: bonusCarry.Sorted(),
	}
}

// BonusCarried reports whether the previous round's bonus was promoted.
func (r Record) BonusCarried() bool { return len(r.BonusMatchedNumbers) > 0 }

// Matched returns the carried numbers as a set.
func (r Record) Matched() Set { return NewSet(r.MatchedNumbers...) }
