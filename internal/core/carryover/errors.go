package carryover

import "fmt"

// NoDataError is returned when the draw store holds too few draws for the
// requested operation.
type NoDataError struct {
	Reason string
}

func (e *NoDataError) Error() string {
	if e.Reason == "" {
		return "carryover: no draw data"
	}
	return "carryover: no draw data: " + e.Reason
}

// MissingPredecessorError is returned when round-1 is absent for an
// incremental update of round.
type MissingPredecessorError struct {
	Round int
}

func (e *MissingPredecessorError) Error() string {
	return fmt.Sprintf("carryover: round %d has no predecessor round %d", e.Round, e.Round-1)
}

type MalformedDrawError struct {
	Round  int
	Reason string
}

func (e *MalformedDrawError) Error() string {
	return fmt.Sprintf("carryover: malformed draw for round %d: %s", e.Round, e.Reason)
}

// DuplicateRoundError is returned when a round is seen more than once, or when
// an incremental update is asked to reject rounds that were already applied.
type DuplicateRoundError struct {
	Round int
}

func (e *DuplicateRoundError) Error() string {
	return fmt.Sprintf("carryover: round %d already processed", e.Round)
}

// RoundFailedError wraps the first failure of an ordered batch update.
type RoundFailedError struct {
	Round int
	Err   error
}

func (e *RoundFailedError) Error() string {
	return fmt.Sprintf("carryover: update stopped at round %d: %v", e.Round, e.Err)
}

func (e *RoundFailedError) Unwrap() error { return e.Err }
