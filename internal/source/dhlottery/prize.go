package dhlottery

import (
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

var prizeUnits = []struct {
	re   *regexp.Regexp
	mult int64
}{
	{regexp.MustCompile(`(\d+)억`), 100_000_000},
	{regexp.MustCompile(`(\d+)천만`), 10_000_000},
	{regexp.MustCompile(`(\d+)백만`), 1_000_000},
	{regexp.MustCompile(`(\d+)만`), 10_000},
	{regexp.MustCompile(`(\d+)천`), 1_000},
}

var nonDigit = regexp.MustCompile(`[^0-9]`)

// ParsePrize converts prize labels such as "5억", "1억 2천만" or "500" to won.
// It is null when s carries no amount.
func ParsePrize(s string) null.Int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || strings.EqualFold(s, "none") {
		return null.Int{}
	}

	var val int64
	matched := false
	for _, u := range prizeUnits {
		m := u.re.FindStringSubmatchIndex(s)
		if m == nil {
			continue
		}
		n, _ := strconv.ParseInt(s[m[2]:m[3]], 10, 64)
		val += n * u.mult
		s = s[:m[0]] + s[m[1]:]
		matched = true
	}

	if rest := nonDigit.ReplaceAllString(s, ""); rest != "" {
		n, err := strconv.ParseInt(rest, 10, 64)
		if err == nil {
			val += n
			matched = true
		}
	}

	if !matched {
		return null.Int{}
	}
	return null.IntFrom(val)
}
