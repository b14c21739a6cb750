package controller_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/lottostats/backend/internal/constant"
	"github.com/lottostats/backend/internal/controller"
	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/pkg/testentry"
	"github.com/lottostats/backend/internal/repo"
	"github.com/lottostats/backend/internal/server"
	"github.com/lottostats/backend/internal/service"
	"github.com/lottostats/backend/internal/source"
)

type env struct {
	app   *fiber.App
	draws *repo.Draw
}

func startup(t *testing.T) *env {
	t.Helper()

	var e env
	opts := testentry.Options(t, testentry.Config())
	opts = append(opts,
		server.Module(),
		source.Module(),
		repo.Module(),
		service.Module(),
		controller.Module(),
		fx.Populate(&e.app, &e.draws),
	)
	fxApp := fxtest.New(t, opts...)
	fxApp.RequireStart()
	t.Cleanup(fxApp.RequireStop)

	return &e
}

func (e *env) seed(t *testing.T, rounds ...[8]int) {
	t.Helper()

	draws := make([]*model.Draw, 0, len(rounds))
	for _, r := range rounds {
		var main [6]int
		copy(main[:], r[1:7])
		draws = append(draws, model.NewDraw(r[0], time.Date(2002, time.December, 7, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*r[0]), main, r[7]))
	}
	_, err := e.draws.InsertDraws(context.Background(), draws)
	require.NoError(t, err)
}

func (e *env) request(t *testing.T, req *http.Request) (*http.Response, gjson.Result) {
	t.Helper()

	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, gjson.ParseBytes(body)
}

func (e *env) get(t *testing.T, path string) (*http.Response, gjson.Result) {
	return e.request(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *env) admin(t *testing.T, path, body string) (*http.Response, gjson.Result) {
	req := httptest.NewRequest(http.MethodPost, "/api/_/admin"+path, bytes.NewBufferString(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(constant.AdminKeyHeader, testentry.Config().AdminKey)
	return e.request(t, req)
}

var sequence = [][8]int{
	{1, 1, 2, 3, 4, 5, 6, 7},
	{2, 4, 5, 6, 7, 8, 9, 40},
	{3, 7, 8, 9, 10, 11, 12, 1},
	{4, 20, 21, 22, 23, 24, 25, 45},
}

func TestAPIMeta(t *testing.T) {
	e := startup(t)

	t.Run("health", func(t *testing.T) {
		resp, body := e.get(t, "/health")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		// redis and nats are not configured in tests
		assert.Equal(t, `["database"]`, body.Get("checked").Raw)
	})

	t.Run("bininfo", func(t *testing.T) {
		resp, body := e.get(t, "/api/_/bininfo")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, body.Get("version").Exists())
		assert.Equal(t, "cli", body.Get("env").String())
	})

	t.Run("request id", func(t *testing.T) {
		resp, _ := e.get(t, "/health")
		assert.NotEmpty(t, resp.Header.Get(constant.RequestIDHeader))
	})
}

func TestAPIEmptyStore(t *testing.T) {
	e := startup(t)

	for _, path := range []string{
		"/lotto/latest",
		"/lotto/round/1",
		"/lotto/carryover/summary",
		"/lotto/carryover/combos",
		"/lotto/number-stats",
	} {
		resp, body := e.get(t, path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "NOT_FOUND", body.Get("code").String(), path)
	}

	resp, body := e.get(t, "/lotto/count")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, body.Get("count").Int())

	resp, _ = e.admin(t, "/carryover/rebuild", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPIDraws(t *testing.T) {
	e := startup(t)
	e.seed(t, sequence...)

	resp, body := e.get(t, "/lotto/latest")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 4, body.Get("round").Int())
	assert.Equal(t, `[20,21,22,23,24,25]`, body.Get("numbers").Raw)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderLastModified))
	assert.Equal(t, "public", resp.Header.Get(constant.CacheHeader))

	_, body = e.get(t, "/lotto/all")
	assert.Equal(t, `[4,3,2,1]`, body.Get("#.round").Raw)

	resp, _ = e.get(t, "/lotto/round/abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPIAdminRequiresKey(t *testing.T) {
	e := startup(t)

	req := httptest.NewRequest(http.MethodPost, "/api/_/admin/carryover/rebuild", nil)
	resp, body := e.request(t, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body.Get("code").String())

	req = httptest.NewRequest(http.MethodPost, "/api/_/admin/carryover/rebuild", nil)
	req.Header.Set(constant.AdminKeyHeader, "wrong")
	resp, _ = e.request(t, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPICarryover(t *testing.T) {
	e := startup(t)
	e.seed(t, sequence...)

	resp, body := e.admin(t, "/carryover/rebuild", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, body.Get("records").Int())

	t.Run("summary", func(t *testing.T) {
		resp, body := e.get(t, "/lotto/carryover/summary")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body.Array(), 7)
		assert.EqualValues(t, 2, body.Get("#(matchCount==3).occurrenceTotal").Int())
	})

	t.Run("history", func(t *testing.T) {
		_, body := e.get(t, "/lotto/carryover/history?matchCount=3")
		assert.Equal(t, `[3,2]`, body.Get("#.round").Raw)

		resp, _ := e.get(t, "/lotto/carryover/history?matchCount=9")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("case stats", func(t *testing.T) {
		_, body := e.get(t, "/lotto/carryover/stats?count=3")
		assert.EqualValues(t, 1, body.Get("occurrences").Int())
	})

	t.Run("analysis", func(t *testing.T) {
		resp, body := e.get(t, "/lotto/carryover/analysis?pick=20,21")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 4, body.Get("lastRound").Int())
		assert.Equal(t, `[20,21]`, body.Get("synergy.pair").Raw)

		resp, _ = e.get(t, "/lotto/carryover/analysis?pick=a,b")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("strict reapply conflicts", func(t *testing.T) {
		resp, body := e.admin(t, "/carryover/apply/3?strict=true", "")
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.EqualValues(t, 3, body.Get("round").Int())

		resp, body = e.admin(t, "/carryover/apply/3", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 3, body.Get("matchCount").Int())
	})
}

func TestAPIApplyRounds(t *testing.T) {
	e := startup(t)
	e.seed(t, append(sequence, [8]int{6, 1, 3, 5, 7, 9, 11, 2})...)

	resp, body := e.admin(t, "/carryover/apply", `{"rounds":[2,3,4]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `[2,3,4]`, body.Get("applied").Raw)
	// analysis always targets the newest stored draw
	assert.EqualValues(t, 6, body.Get("analyzedFor").Int())

	resp, body = e.admin(t, "/carryover/apply", `{"rounds":[6]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.EqualValues(t, 6, body.Get("round").Int())
	assert.Equal(t, `[]`, body.Get("report.applied").Raw)

	resp, _ = e.admin(t, "/carryover/apply", `{"rounds":[]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = e.admin(t, "/purge", `{"groups":["lotto"],"pairs":[{"name":"latestDraw"}]}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = e.admin(t, "/purge", `{"groups":["keno"]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	t.Run("combos", func(t *testing.T) {
		resp, body := e.get(t, "/lotto/carryover/combos?size=1&includeBonus=false")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body.Array(), 6)
		assert.EqualValues(t, 6, body.Get("0.targetRound").Int())
	})
}

func TestAPIStats(t *testing.T) {
	e := startup(t)
	e.seed(t, sequence...)

	resp, _ := e.admin(t, "/refresh/stats", "")
	// the pension store is empty
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := e.get(t, "/lotto/number-stats?numbers=4,7&includeBonus=true")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `[4,7]`, body.Get("#.number").Raw)

	resp, _ = e.get(t, "/lotto/number-stats?numbers=x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = e.get(t, "/lotto/gaps")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body.Array(), 45)
}
