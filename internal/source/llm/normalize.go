package llm

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	fenceOpen  = regexp.MustCompile(`(?i)^` + "```" + `(?:json)?\s*`)
	fenceClose = regexp.MustCompile(`\s*` + "```" + `$`)
	objectSpan = regexp.MustCompile(`(?s)\{.*\}`)
	spaces     = regexp.MustCompile(`\s+`)
)

// StripCodeFences removes a surrounding markdown code fence.
func StripCodeFences(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "```") {
		t = fenceOpen.ReplaceAllString(t, "")
		t = fenceClose.ReplaceAllString(t, "")
	}
	return strings.TrimSpace(t)
}

// Normalize reads the numbers and reasoning of a model reply. Replies that are
// not JSON keep their text as the reasoning.
func Normalize(content string) ([]int, string) {
	text := StripCodeFences(content)
	if !gjson.Valid(text) {
		m := objectSpan.FindString(text)
		if m == "" || !gjson.Valid(m) {
			return []int{}, collapse(text)
		}
		text = m
	}

	doc := gjson.Parse(text)
	if !doc.IsObject() {
		return []int{}, collapse(doc.String())
	}

	numbers := []int{}
	for _, n := range doc.Get("numbers").Array() {
		switch n.Type {
		case gjson.Number:
			if n.Num == math.Trunc(n.Num) {
				numbers = append(numbers, int(n.Num))
			}
		case gjson.String:
			if v, err := strconv.Atoi(strings.TrimSpace(n.Str)); err == nil {
				numbers = append(numbers, v)
			}
		}
	}
	if !doc.Get("numbers").IsArray() {
		numbers = []int{}
	}

	r := doc.Get("reasoning")
	var reasoning string
	switch {
	case r.IsArray():
		parts := make([]string, 0, len(r.Array()))
		for _, p := range r.Array() {
			if p.Type == gjson.String || p.Type == gjson.Number {
				parts = append(parts, strings.TrimSpace(p.String()))
			}
		}
		reasoning = strings.Join(parts, " ")
	case r.Type == gjson.String:
		reasoning = r.Str
	case r.Exists():
		reasoning = r.Raw
	}
	return numbers, collapse(reasoning)
}

func collapse(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}
