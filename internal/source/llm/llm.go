package llm

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/lottostats/backend/internal/app/appconfig"
	"github.com/lottostats/backend/internal/pkg/fetch"
	"github.com/lottostats/backend/internal/util"
)

const (
	systemPrompt = "너는 한국의 로또 6/45 번호 추천 도우미다. " +
		"네가 추천하는 번호는 단순 랜덤이 아니라, " +
		"합리적인 근거와 추론 과정을 바탕으로 선택해야 한다. " +
		"항상 JSON으로 출력하고, numbers(1~45 정수 6개, 오름차순, 중복X)와 " +
		"reasoning(근거 3~6문장)을 반드시 포함해라."
	userPrompt = "다음주 토요일 추첨 예정인 로또의 예상 번호를 추천해줘. JSON만 출력해."

	maxTokens   = 280
	temperature = 0.7
)

var (
	ErrNoKey      = errors.New("llm: api key not configured")
	ErrNoResponse = errors.New("llm: response carries no content")
)

type Answer struct {
	Numbers   []int
	Reasoning string
	Raw       string
}

type Client struct {
	fetch *fetch.Client
	keys  map[string]string
}

func NewClient(client *fetch.Client, keys map[string]string) *Client {
	return &Client{fetch: client, keys: keys}
}

// Enabled reports whether p has an API key.
func (c *Client) Enabled(p Provider) bool {
	return c.keys[p.Key] != ""
}

func (c *Client) Ask(ctx context.Context, p Provider) (*Answer, error) {
	key := c.keys[p.Key]
	if key == "" {
		return nil, errors.Wrap(ErrNoKey, p.Name)
	}
	switch p.Kind {
	case KindOpenAI:
		return c.askOpenAI(ctx, p, key)
	case KindGemini:
		return c.askGemini(ctx, p, key)
	}
	return nil, fmt.Errorf("llm: unknown provider kind %q", p.Kind)
}

func (c *Client) askOpenAI(ctx context.Context, p Provider, key string) (*Answer, error) {
	body, err := openAIRequest(p.Model, p.JSONFormat)
	if err != nil {
		return nil, err
	}
	header := fetch.Header{"Authorization": "Bearer " + key}

	raw, err := c.fetch.PostJSON(ctx, p.URL, body, header)
	var serr *fetch.StatusError
	if p.JSONFormat && errors.As(err, &serr) && serr.StatusCode < 500 {
		// some hosted models reject response_format
		log.Warn().Err(err).Str("provider", p.Name).Msg("llm: retrying without response_format")
		body, _ = openAIRequest(p.Model, false)
		raw, err = c.fetch.PostJSON(ctx, p.URL, body, header)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "llm: %s", p.Name)
	}

	choices := gjson.GetBytes(raw, "choices")
	if !choices.IsArray() || len(choices.Array()) == 0 {
		return nil, errors.Wrap(ErrNoResponse, p.Name)
	}
	nums, reasoning := Normalize(choices.Get("0.message.content").String())
	return &Answer{Numbers: nums, Reasoning: reasoning, Raw: string(raw)}, nil
}

func openAIRequest(model string, jsonFormat bool) ([]byte, error) {
	body, err := sjson.SetBytes(nil, "model", model)
	if err != nil {
		return nil, err
	}
	body, _ = sjson.SetBytes(body, "messages.0.role", "system")
	body, _ = sjson.SetBytes(body, "messages.0.content", systemPrompt)
	body, _ = sjson.SetBytes(body, "messages.1.role", "user")
	body, _ = sjson.SetBytes(body, "messages.1.content", userPrompt)
	body, _ = sjson.SetBytes(body, "max_tokens", maxTokens)
	body, _ = sjson.SetBytes(body, "temperature", temperature)
	if jsonFormat {
		body, _ = sjson.SetBytes(body, "response_format.type", "json_object")
	}
	return body, nil
}

func (c *Client) askGemini(ctx context.Context, p Provider, key string) (*Answer, error) {
	body, err := sjson.SetBytes(nil, "contents.0.parts.0.text", systemPrompt+"\n\n"+userPrompt)
	if err != nil {
		return nil, err
	}
	body, _ = sjson.SetBytes(body, "generationConfig.maxOutputTokens", maxTokens)
	body, _ = sjson.SetBytes(body, "generationConfig.temperature", temperature)
	body, _ = sjson.SetBytes(body, "generationConfig.response_mime_type", "application/json")

	raw, err := c.fetch.PostJSON(ctx, p.URL+"?key="+url.QueryEscape(key), body, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "llm: %s", p.Name)
	}

	candidates := gjson.GetBytes(raw, "candidates")
	if len(candidates.Array()) == 0 {
		return nil, errors.Wrap(ErrNoResponse, p.Name)
	}
	var sb strings.Builder
	for _, part := range candidates.Get("0.content.parts").Array() {
		sb.WriteString(part.Get("text").String())
	}
	nums, reasoning := Normalize(strings.TrimSpace(sb.String()))
	return &Answer{Numbers: nums, Reasoning: reasoning, Raw: string(raw)}, nil
}

var kst = util.KST

// WeekKey is the ISO week of t in Korea, as in "2026-W42".
func WeekKey(t time.Time) string {
	year, week := t.In(kst).ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func Provide(client *fetch.Client, conf *appconfig.Config) *Client {
	return NewClient(client, conf.AIKeys)
}
