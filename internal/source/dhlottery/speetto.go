package dhlottery

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"gopkg.in/guregu/null.v3"

	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/pkg/fetch"
)

const (
	speettoListPath   = "/st/selectPblcnDsctn.do"
	speettoDetailPath = "/st/selectPblcnDsctnDtl.do"
	speettoImageBase  = BaseURL + "/winImages"

	maxSpeettoRank = 6
)

// Speetto reads the remaining-prize status of instant lotteries on sale.
type Speetto struct {
	client  *fetch.Client
	baseURL string
}

func NewSpeetto(client *fetch.Client) *Speetto {
	return &Speetto{client: client, baseURL: BaseURL}
}

func (s *Speetto) header() fetch.Header {
	return fetch.Header{
		"Accept":           "application/json, text/javascript, */*; q=0.01",
		"X-Requested-With": "XMLHttpRequest",
		"Referer":          s.baseURL + "/st/pblcnDsctn",
	}
}

// FetchStatuses lists the editions on sale and reads each one's details.
// Editions whose details cannot be read are skipped.
func (s *Speetto) FetchStatuses(ctx context.Context) ([]*model.SpeettoStatus, error) {
	q := url.Values{}
	q.Set("gdsType", "")
	q.Set("gdsPrice", "")
	q.Set("gdsStatus", "판매중")

	body, err := s.client.Get(ctx, s.baseURL+speettoListPath+"?"+q.Encode(), s.header())
	if err != nil {
		return nil, err
	}
	serials, err := ParseSpeettoList(body)
	if err != nil {
		return nil, err
	}

	statuses := make([]*model.SpeettoStatus, 0, len(serials))
	for _, sn := range serials {
		body, err := s.client.Get(ctx, s.baseURL+speettoDetailPath+"?ntslWnSn="+url.QueryEscape(sn), s.header())
		if err != nil {
			log.Warn().Err(err).Str("serial", sn).Msg("dhlottery: failed to fetch speetto detail")
			continue
		}
		st, err := ParseSpeettoDetail(body)
		if err != nil {
			log.Warn().Err(err).Str("serial", sn).Msg("dhlottery: failed to parse speetto detail")
			continue
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func ParseSpeettoList(body []byte) ([]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse
	}
	var serials []string
	for _, item := range gjson.GetBytes(body, "data.list").Array() {
		if sn := item.Get("ntslWnSn").String(); sn != "" {
			serials = append(serials, sn)
		}
	}
	return serials, nil
}

func ParseSpeettoDetail(body []byte) (*model.SpeettoStatus, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse
	}
	data := gjson.GetBytes(body, "data.result")
	if !data.IsObject() {
		return nil, errors.Wrap(ErrMalformedResponse, "missing data.result")
	}

	name := data.Get("stGmTypeNm").String()
	round := parseNullInt(data.Get("stEpsd").String())
	if name == "" || !round.Valid {
		return nil, errors.Wrap(ErrMalformedResponse, "missing speetto type or round")
	}

	st := &model.SpeettoStatus{
		SpeettoType:  name,
		Round:        int(round.Int64),
		SalesEndDate: nullString(data.Get("stNtslEndDt").String()),
		PublishQty:   parseNullInt(data.Get("pblcnQty").String()),
		StockingRate: nullString(data.Get("stSpmtRt").String()),
		ImageSource:  ImageURL(data.Get("tm1StWnImgStrgPathNm").String()),
		DataChangeAt: nullString(formatChangeDate(data.Get("dataChgDt").String())),
	}

	top := MaxRank(name)
	st.Ranks = make([]model.SpeettoRank, 0, top)
	for i := 1; i <= top; i++ {
		n := strconv.Itoa(i)
		st.Ranks = append(st.Ranks, model.SpeettoRank{
			Rank:       i,
			Prize:      ParsePrize(data.Get("stRnk" + n + "GdsLstcCharCn").String()),
			TotalCount: parseNullInt(data.Get("stRnk" + n + "WnQty").String()),
			LeftCount:  parseNullInt(data.Get("stIvtRnk" + n + "Qty").String()),
		})
	}
	return st, nil
}

// MaxRank is the number of prize ranks of an edition, by ticket price.
func MaxRank(name string) int {
	switch {
	case strings.Contains(name, "2000"):
		return 6
	case strings.Contains(name, "1000"):
		return 5
	case strings.Contains(name, "500"):
		return 4
	}
	return maxSpeettoRank
}

// ImageURL percent-encodes path under the winner image host.
func ImageURL(path string) string {
	if path == "" {
		return ""
	}
	return speettoImageBase + (&url.URL{Path: path}).EscapedPath()
}

// formatChangeDate expands "yy-mm-dd" to "yyyy-mm-dd" and keeps anything else.
func formatChangeDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) != 8 {
		return s
	}
	t, err := time.Parse("06-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}

func parseNullInt(s string) null.Int {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return null.Int{}
	}
	return null.IntFrom(n)
}

func nullString(s string) null.String {
	return null.NewString(s, strings.TrimSpace(s) != "")
}
