package naver

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottostats/backend/internal/pkg/fetch"
)

const lottoPage = `<html><body>
<a class="_select_trigger">1101회차 (2023.12.23.)</a>
<div class="winning_number"><span class="ball">1</span><span class="ball">6</span><span class="ball">13</span>
<span class="ball">19</span><span class="ball">21</span><span class="ball">33</span></div>
<div class="bonus_number"><span class="ball">4</span></div>
</body></html>`

const pensionPage = `<html><body>
<a class="_select_trigger">190회차 (2023.12.21.)</a>
<div class="winning_number"><span class="ball">3</span><span class="ball">1</span><span class="ball">2</span>
<span class="ball">3</span><span class="ball">4</span><span class="ball">5</span><span class="ball">6</span></div>
<table>
<tr><td>1등</td><td>3조</td></tr>
<tr><td>보너스</td><td class="type_bold">9</td><td class="type_bold">8</td><td class="type_bold">7</td>
<td class="type_bold">6</td><td class="type_bold">5</td><td class="type_bold">4</td></tr>
</table>
</body></html>`

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

func TestParseLotto(t *testing.T) {
	d, err := ParseLotto(doc(t, lottoPage), 1101)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 6, 13, 19, 21, 33}, d.Numbers())
	assert.Equal(t, 4, d.Bonus)
	assert.Equal(t, "2023-12-23", d.DrawDate.Format("2006-01-02"))
}

func TestParseLottoWrongRound(t *testing.T) {
	_, err := ParseLotto(doc(t, lottoPage), 1100)
	assert.ErrorIs(t, err, ErrRoundNotFound)
}

func TestParseLottoMissingBalls(t *testing.T) {
	_, err := ParseLotto(doc(t, `<a class="_select_trigger">5회차</a><div class="winning_number"><span class="ball">1</span></div>`), 5)
	assert.ErrorIs(t, err, ErrMissingBalls)
}

func TestParsePension(t *testing.T) {
	p, err := ParsePension(doc(t, pensionPage), 190)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Group)
	assert.Equal(t, "123456", p.Number)
	assert.Equal(t, "987654", p.BonusNumber)
	assert.Equal(t, []string{"123456", "23456", "3456", "456", "56", "6"}, p.PensionTiers())
}

func TestParsePensionDefaultBonus(t *testing.T) {
	html := strings.Replace(pensionPage, "보너스", "2등", 1)
	p, err := ParsePension(doc(t, html), 190)
	require.NoError(t, err)
	assert.Equal(t, defaultPensionBonus, p.BonusNumber)
}

func TestFetchDrawsStopsAtLatest(t *testing.T) {
	client := fetch.New(0, 1, 0)
	httpmock.ActivateNonDefault(client.HTTP)
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponderWithQuery(http.MethodGet, SearchURL, "query=로또",
		httpmock.NewStringResponder(http.StatusOK, lottoPage))
	httpmock.RegisterResponderWithQuery(http.MethodGet, SearchURL, "query=로또 1101회",
		httpmock.NewStringResponder(http.StatusOK, lottoPage))

	draws, err := NewLotto(client).FetchDraws(context.Background(), 1100)
	require.NoError(t, err)
	require.Len(t, draws, 1)
	assert.Equal(t, 1101, draws[0].Round)
}
