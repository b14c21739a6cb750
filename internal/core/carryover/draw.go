package carryover

import "fmt"

const (
	MinNumber = 1
	MaxNumber = 45

	// MainCount is the number of main numbers drawn per round.
	MainCount = 6
)

// Draw is the engine's view of one weekly result.
type Draw struct {
	Round int
	Main  [MainCount]int
	Bonus int
}

func (d Draw) MainSet() Set { return NewSet(d.Main[:]...) }

// AllSet is the main numbers plus the bonus.
func (d Draw) AllSet() Set { return d.MainSet().Add(d.Bonus) }

// Validate rejects draws that cannot be compared meaningfully: main numbers
// must be six distinct values in range, and the bonus must be in range and
// distinct from every main number.
func Validate(d Draw) error {
	var seen Set
	for _, n := range d.Main {
		if n < MinNumber || n > MaxNumber {
			return &MalformedDrawError{Round: d.Round, Reason: fmt.Sprintf("main number %d out of range", n)}
		}
		if seen.Has(n) {
			return &MalformedDrawError{Round: d.Round, Reason: fmt.Sprintf("duplicate main number %d", n)}
		}
		seen = seen.Add(n)
	}
	if d.Bonus < MinNumber || d.Bonus > MaxNumber {
		return &MalformedDrawError{Round: d.Round, Reason: fmt.Sprintf("bonus number %d out of range", d.Bonus)}
	}
	if seen.Has(d.Bonus) {
		return &MalformedDrawError{Round: d.Round, Reason: fmt.Sprintf("bonus number %d duplicates a main number", d.Bonus)}
	}
	return nil
}
