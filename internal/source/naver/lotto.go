package naver

import (
	"context"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lottostats/backend/internal/core/carryover"
	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/pkg/fetch"
)

// Lotto reads Lotto 6/45 results from the search result widget, one round
// per request.
type Lotto struct {
	searcher
}

func NewLotto(client *fetch.Client) *Lotto {
	return &Lotto{searcher{client: client, baseURL: SearchURL}}
}

func (l *Lotto) Name() string { return "naver" }

func (l *Lotto) LatestRound(ctx context.Context) (int, error) {
	doc, err := l.search(ctx, "로또")
	if err != nil {
		return 0, err
	}
	round, _, ok := header(doc)
	if !ok {
		return 0, ErrRoundNotFound
	}
	return round, nil
}

// FetchDraws crawls every round after the given one up to the latest.
func (l *Lotto) FetchDraws(ctx context.Context, after int) ([]*model.Draw, error) {
	latest, err := l.LatestRound(ctx)
	if err != nil {
		return nil, err
	}

	var draws []*model.Draw
	for round := after + 1; round <= latest; round++ {
		doc, err := l.search(ctx, "로또 "+strconv.Itoa(round)+"회")
		if err != nil {
			return draws, err
		}
		d, err := ParseLotto(doc, round)
		if err != nil {
			log.Warn().Err(err).Int("round", round).Msg("naver: stopping lotto crawl")
			return draws, nil
		}
		draws = append(draws, d)
	}
	return draws, nil
}

// ParseLotto extracts the draw of round from a result page.
func ParseLotto(doc *goquery.Document, round int) (*model.Draw, error) {
	got, date, ok := header(doc)
	if !ok || got != round {
		return nil, ErrRoundNotFound
	}

	balls := ballTexts(doc.Find(".winning_number .ball"))
	if len(balls) < carryover.MainCount {
		return nil, ErrMissingBalls
	}
	var main [carryover.MainCount]int
	for i := range main {
		n, err := strconv.Atoi(balls[i])
		if err != nil {
			return nil, errors.Wrapf(ErrMissingBalls, "ball %q", balls[i])
		}
		main[i] = n
	}

	bonus, err := strconv.Atoi(ballText(doc.Find(".bonus_number .ball").First()))
	if err != nil {
		return nil, errors.Wrap(ErrMissingBalls, "bonus ball")
	}

	return model.NewDraw(round, date, main, bonus), nil
}

func ballText(s *goquery.Selection) string {
	texts := ballTexts(s)
	if len(texts) == 0 {
		return ""
	}
	return texts[0]
}
