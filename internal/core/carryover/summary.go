package carryover

// Bucket counts records for one match count.
type Bucket struct {
	Total     int
	WithBonus int
}

// Summary is indexed by match count, 0 through MainCount.
type Summary [MainCount + 1]Bucket

// Add counts r under its main-only bucket and, separately, under its
// bonus-inclusive bucket.
func (s *Summary) Add(r Record) {
	s[r.MatchCount].Total++
	s[r.MatchCountWithBonus].WithBonus++
}

func (s *Summary) Sub(r Record) {
	s[r.MatchCount].Total--
	s[r.MatchCountWithBonus].WithBonus--
}

// Totals returns the sums of both columns.
func (s *Summary) Totals() (total, withBonus int) {
	for _, b := range s {
		total += b.Total
		withBonus += b.WithBonus
	}
	return total, withBonus
}
