package dhlottery

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"gopkg.in/guregu/null.v3"

	"github.com/lottostats/backend/internal/core/carryover"
	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/pkg/fetch"
	"github.com/lottostats/backend/internal/util"
)

const (
	BaseURL = "https://www.dhlottery.co.kr"

	lottoPath = "/lt645/selectPstLt645Info.do?srchLtEpsd=all"
)

var ErrMalformedResponse = errors.New("dhlottery: malformed response")

var kst = util.KST

// LottoFeed reads every published Lotto 6/45 result from the official feed.
type LottoFeed struct {
	client  *fetch.Client
	baseURL string
}

func NewLottoFeed(client *fetch.Client) *LottoFeed {
	return &LottoFeed{client: client, baseURL: BaseURL}
}

func (f *LottoFeed) Name() string { return "dhlottery" }

// FetchDraws returns the draws with a round greater than after, ascending.
func (f *LottoFeed) FetchDraws(ctx context.Context, after int) ([]*model.Draw, error) {
	body, err := f.client.Get(ctx, f.baseURL+lottoPath, fetch.Header{
		"Accept":           "application/json, text/javascript, */*; q=0.01",
		"X-Requested-With": "XMLHttpRequest",
		"Referer":          f.baseURL + "/lt645/result",
	})
	if err != nil {
		return nil, err
	}
	return ParseLottoFeed(body, after)
}

func ParseLottoFeed(body []byte, after int) ([]*model.Draw, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse
	}
	list := gjson.GetBytes(body, "data.list")
	if !list.IsArray() {
		return nil, errors.Wrap(ErrMalformedResponse, "missing data.list")
	}

	var draws []*model.Draw
	list.ForEach(func(_, item gjson.Result) bool {
		round := int(item.Get("ltEpsd").Int())
		if round <= after {
			return true
		}
		date, err := time.ParseInLocation("20060102", item.Get("ltRflYmd").String(), kst)
		if err != nil {
			log.Warn().Err(err).Int("round", round).Msg("dhlottery: skipping draw with malformed date")
			return true
		}

		var main [carryover.MainCount]int
		for i := range main {
			main[i] = int(item.Get("tm" + strconv.Itoa(i+1) + "WnNo").Int())
		}
		d := model.NewDraw(round, date, main, int(item.Get("bnsWnNo").Int()))
		d.FirstWinnerCount = nullInt(item.Get("rnk1WnNope"))
		d.FirstPrizeAmount = nullInt(item.Get("rnk1WnAmt"))
		d.SecondPrizeAmount = nullInt(item.Get("rnk2WnAmt"))
		d.TotalSales = nullInt(item.Get("wholEpsdSumNtslAmt"))
		draws = append(draws, d)
		return true
	})

	sortDraws(draws)
	return draws, nil
}

func nullInt(r gjson.Result) null.Int {
	if !r.Exists() || r.Type == gjson.Null || r.String() == "" {
		return null.Int{}
	}
	return null.IntFrom(r.Int())
}
