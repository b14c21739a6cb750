package naver

import (
	"context"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/pkg/fetch"
)

const (
	pensionDigits = 6

	defaultPensionBonus = "000000"
)

// Pension reads Pension Lottery 720+ results from the search result widget.
type Pension struct {
	searcher
}

func NewPension(client *fetch.Client) *Pension {
	return &Pension{searcher{client: client, baseURL: SearchURL}}
}

func (p *Pension) Name() string { return "naver" }

func (p *Pension) LatestRound(ctx context.Context) (int, error) {
	doc, err := p.search(ctx, "연금복권")
	if err != nil {
		return 0, err
	}
	round, _, ok := header(doc)
	if !ok {
		return 0, ErrRoundNotFound
	}
	return round, nil
}

func (p *Pension) FetchDraw(ctx context.Context, round int) (*model.PensionDraw, error) {
	doc, err := p.search(ctx, "연금복권 "+strconv.Itoa(round)+"회")
	if err != nil {
		return nil, err
	}
	return ParsePension(doc, round)
}

// ParsePension extracts the group, the six first-prize digits and the bonus
// digits of round.
func ParsePension(doc *goquery.Document, round int) (*model.PensionDraw, error) {
	got, date, ok := header(doc)
	if !ok || got != round {
		return nil, ErrRoundNotFound
	}

	balls := ballTexts(doc.Find(".winning_number .ball"))
	if len(balls) < pensionDigits+1 {
		return nil, ErrMissingBalls
	}
	group, err := strconv.Atoi(balls[0])
	if err != nil {
		return nil, ErrMissingBalls
	}
	number := strings.Join(balls[1:pensionDigits+1], "")

	bonus := defaultPensionBonus
	doc.Find("td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
		if !strings.Contains(td.Text(), "보너스") {
			return true
		}
		digits := ballTexts(td.Closest("tr").Find("td.type_bold"))
		if len(digits) > 0 {
			bonus = strings.Join(digits, "")
		}
		return false
	})

	return &model.PensionDraw{
		Round:       round,
		DrawDate:    date,
		Group:       group,
		Number:      number,
		BonusNumber: bonus,
	}, nil
}
