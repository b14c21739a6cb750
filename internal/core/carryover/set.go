package carryover

import "math/bits"

// Set is a set of lottery numbers backed by a bitmask. Numbers must be in
// [1, 63]; the 6/45 game only ever uses [1, 45].
type Set uint64

func NewSet(nums ...int) Set {
	var s Set
	for _, n := range nums {
		s = s.Add(n)
	}
	return s
}

func (s Set) Add(n int) Set {
	if n < 1 || n > 63 {
		return s
	}
	return s | 1<<uint(n)
}

func (s Set) Has(n int) bool {
	if n < 1 || n > 63 {
		return false
	}
	return s&(1<<uint(n)) != 0
}

func (s Set) Union(o Set) Set { return s | o }

func (s Set) Intersect(o Set) Set { return s & o }

// Without returns the elements of s that are not in o.
func (s Set) Without(o Set) Set { return s &^ o }

// ContainsAll reports whether o is a subset of s.
func (s Set) ContainsAll(o Set) bool { return s&o == o }

func (s Set) Len() int { return bits.OnesCount64(uint64(s)) }

func (s Set) Empty() bool { return s == 0 }

// Sorted returns the elements in ascending order. The result is never nil.
func (s Set) Sorted() []int {
	out := make([]int, 0, s.Len())
	for v := uint64(s); v != 0; v &= v - 1 {
		out = append(out, bits.TrailingZeros64(v))
	}
	return out
}
