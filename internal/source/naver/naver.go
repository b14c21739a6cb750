package naver

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/lottostats/backend/internal/pkg/fetch"
	"github.com/lottostats/backend/internal/util"
)

const SearchURL = "https://search.naver.com/search.naver"

var (
	ErrRoundNotFound = errors.New("naver: round not found on result page")
	ErrMissingBalls  = errors.New("naver: winning numbers not found")

	roundPattern = regexp.MustCompile(`(\d+)회차`)
	datePattern  = regexp.MustCompile(`(\d{4})\.(\d{2})\.(\d{2})`)

	kst = util.KST
)

type searcher struct {
	client  *fetch.Client
	baseURL string
}

func (s *searcher) search(ctx context.Context, query string) (*goquery.Document, error) {
	body, err := s.client.Get(ctx, s.baseURL+"?query="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// header reads the round and draw date of the selected result.
func header(doc *goquery.Document) (int, time.Time, bool) {
	text := strings.TrimSpace(doc.Find("a._select_trigger").First().Text())
	m := roundPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, time.Time{}, false
	}
	round, _ := strconv.Atoi(m[1])

	var date time.Time
	if d := datePattern.FindStringSubmatch(text); d != nil {
		date, _ = time.ParseInLocation("2006.01.02", d[1]+"."+d[2]+"."+d[3], kst)
	}
	return round, date, true
}

func ballTexts(sel *goquery.Selection) []string {
	return sel.Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	})
}
