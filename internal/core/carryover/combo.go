package carryover

import (
	"sort"
	"strconv"
	"strings"
)

// MaxComboSize bounds enumerated combinations.
const MaxComboSize = MainCount

// Candidates is the pool combinations are drawn from: the main numbers of
// target, plus its bonus when includeBonus is set. Ascending.
func Candidates(target Draw, includeBonus bool) []int {
	s := target.MainSet()
	if includeBonus {
		s = s.Add(target.Bonus)
	}
	return s.Sorted()
}

// Combinations returns every k-subset of pool in lexicographic order. Each
// subset is ascending when pool is.
func Combinations(pool []int, k int) [][]int {
	n := len(pool)
	if k <= 0 || k > n {
		return nil
	}

	var out [][]int
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		c := make([]int, k)
		for i, j := range idx {
			c[i] = pool[j]
		}
		out = append(out, c)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// AllCombinations enumerates sizes 1 through min(MaxComboSize, len(pool)).
func AllCombinations(pool []int) [][]int {
	sorted := append([]int(nil), pool...)
	sort.Ints(sorted)

	var out [][]int
	for k := 1; k <= MaxComboSize && k <= len(sorted); k++ {
		out = append(out, Combinations(sorted, k)...)
	}
	return out
}

// ComboKey is the canonical text form of a combination, e.g. "4,5,6".
func ComboKey(c []int) string {
	sorted := append([]int(nil), c...)
	sort.Ints(sorted)

	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// ParseComboKey is the inverse of ComboKey.
func ParseComboKey(key string) ([]int, error) {
	if key == "" {
		return []int{}, nil
	}
	parts := strings.Split(key, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}
