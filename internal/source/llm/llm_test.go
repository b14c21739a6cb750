package llm

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/lottostats/backend/internal/pkg/fetch"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		numbers   []int
		reasoning string
	}{
		{
			name:      "plain json",
			in:        `{"numbers":[3,11,19,27,35,42],"reasoning":"균형 잡힌  조합"}`,
			numbers:   []int{3, 11, 19, 27, 35, 42},
			reasoning: "균형 잡힌 조합",
		},
		{
			name:      "fenced",
			in:        "```json\n{\"numbers\":[\"1\",\"2\"],\"reasoning\":[\"a\",\"b\"]}\n```",
			numbers:   []int{1, 2},
			reasoning: "a b",
		},
		{
			name:      "embedded object",
			in:        "Here you go: {\"numbers\":[5,6],\"reasoning\":\"ok\"} good luck",
			numbers:   []int{5, 6},
			reasoning: "ok",
		},
		{
			name:      "not json",
			in:        "no idea\n\nsorry",
			numbers:   []int{},
			reasoning: "no idea sorry",
		},
		{
			name:      "bad numbers",
			in:        `{"numbers":"1,2","reasoning":7}`,
			numbers:   []int{},
			reasoning: "7",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nums, reasoning := Normalize(tt.in)
			assert.Equal(t, tt.numbers, nums)
			assert.Equal(t, tt.reasoning, reasoning)
		})
	}
}

func TestWeekKey(t *testing.T) {
	// Sunday 20:00 UTC is already Monday in Korea
	ts := time.Date(2026, time.October, 18, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-W43", WeekKey(ts))
	assert.Equal(t, "2026-W01", WeekKey(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func newTestClient(t *testing.T, keys map[string]string) *Client {
	t.Helper()
	fc := fetch.New(0, 1, 0)
	httpmock.ActivateNonDefault(fc.HTTP)
	t.Cleanup(httpmock.DeactivateAndReset)
	return NewClient(fc, keys)
}

func TestAskOpenAI(t *testing.T) {
	c := newTestClient(t, map[string]string{KeyOpenAI: "sk-test"})
	p := Providers[0]

	httpmock.RegisterResponder(http.MethodPost, p.URL, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))
		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.Equal(t, "json_object", gjson.GetBytes(body, "response_format.type").String())
		assert.Equal(t, int64(280), gjson.GetBytes(body, "max_tokens").Int())
		return httpmock.NewStringResponse(http.StatusOK,
			`{"choices":[{"message":{"content":"{\"numbers\":[1,2,3,4,5,6],\"reasoning\":\"r\"}"}}]}`), nil
	})

	ans, err := c.Ask(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, ans.Numbers)
	assert.Equal(t, "r", ans.Reasoning)
}

func TestAskOpenAIDropsResponseFormat(t *testing.T) {
	c := newTestClient(t, map[string]string{KeyDeepInfra: "k"})
	p := Providers[2]

	httpmock.RegisterResponder(http.MethodPost, p.URL, func(req *http.Request) (*http.Response, error) {
		body, _ := io.ReadAll(req.Body)
		if gjson.GetBytes(body, "response_format").Exists() {
			return httpmock.NewStringResponse(http.StatusBadRequest, `{"error":"unsupported"}`), nil
		}
		return httpmock.NewStringResponse(http.StatusOK,
			`{"choices":[{"message":{"content":"{\"numbers\":[7],\"reasoning\":\"x\"}"}}]}`), nil
	})

	ans, err := c.Ask(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, ans.Numbers)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestAskGemini(t *testing.T) {
	c := newTestClient(t, map[string]string{KeyGemini: "g"})
	p := Providers[1]

	httpmock.RegisterResponderWithQuery(http.MethodPost, p.URL, "key=g",
		httpmock.NewStringResponder(http.StatusOK,
			`{"candidates":[{"content":{"parts":[{"text":"{\"numbers\":[9,10],"},{"text":"\"reasoning\":\"g\"}"}]}}]}`))

	ans, err := c.Ask(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []int{9, 10}, ans.Numbers)
	assert.Equal(t, "g", ans.Reasoning)
}

func TestAskWithoutKey(t *testing.T) {
	c := newTestClient(t, map[string]string{})
	assert.False(t, c.Enabled(Providers[0]))
	_, err := c.Ask(context.Background(), Providers[0])
	assert.ErrorIs(t, err, ErrNoKey)
}
