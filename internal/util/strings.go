package util

import (
	"strconv"
	"strings"
)

func isASCII(b byte) bool {
	return b < 0x80
}

// AddSpace adds a space, if not present, between ASCII and non-ASCII runs,
// e.g. "번호english" -> "번호 english".
func AddSpace(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if i > 0 && isASCII(s[i]) != isASCII(s[i-1]) && s[i-1] != ' ' && s[i] != ' ' &&
			(isASCII(s[i]) || s[i]&0xC0 != 0x80) {
			b.WriteByte(' ')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// ParseIntList parses comma separated integers, skipping blanks.
func ParseIntList(s string) ([]int, error) {
	out := []int{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
