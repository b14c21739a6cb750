package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lottostats/backend/internal/app/appconfig"
)

const (
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	maxBodySize = 16 << 20
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: %s responded with status %d", e.URL, e.StatusCode)
}

// Client performs outbound requests with browser-like headers and retries
// transient failures with exponential backoff.
type Client struct {
	HTTP *http.Client

	attempts uint
	delay    time.Duration
}

func New(timeout time.Duration, attempts uint, delay time.Duration) *Client {
	if attempts == 0 {
		attempts = 1
	}
	return &Client{
		HTTP:     &http.Client{Timeout: timeout},
		attempts: attempts,
		delay:    delay,
	}
}

func Provide(conf *appconfig.Config) *Client {
	return New(conf.FetchTimeout, conf.FetchRetries, time.Second)
}

type Header map[string]string

func (c *Client) Get(ctx context.Context, url string, header Header) ([]byte, error) {
	return c.do(ctx, http.MethodGet, url, nil, header)
}

func (c *Client) PostJSON(ctx context.Context, url string, body []byte, header Header) ([]byte, error) {
	h := Header{"Content-Type": "application/json"}
	for k, v := range header {
		h[k] = v
	}
	return c.do(ctx, http.MethodPost, url, body, h)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, header Header) ([]byte, error) {
	var resp []byte
	err := retry.Do(
		func() error {
			var err error
			resp, err = c.once(ctx, method, url, body, header)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().
				Str("evt.name", "fetch.retry").
				Err(err).
				Str("url", url).
				Uint("attempt", n+1).
				Msg("request failed, retrying")
		}),
	)
	return resp, err
}

func (c *Client) once(ctx context.Context, method, url string, body []byte, header Header) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, retry.Unrecoverable(errors.Wrap(err, "fetch: failed to build request"))
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8")
	for k, v := range header {
		req.Header.Set(k, v)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch: request to %s failed", url)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		serr := &StatusError{URL: url, StatusCode: res.StatusCode}
		if res.StatusCode >= 400 && res.StatusCode < 500 && res.StatusCode != http.StatusTooManyRequests {
			return nil, retry.Unrecoverable(serr)
		}
		return nil, serr
	}

	b, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrapf(err, "fetch: failed to read response of %s", url)
	}
	return b, nil
}
