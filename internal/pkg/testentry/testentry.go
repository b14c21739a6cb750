package testentry

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dchest/uniuri"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/app/appconfig"
	"github.com/lottostats/backend/internal/app/appcontext"
	"github.com/lottostats/backend/internal/infra"
	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/repo"
)

// DB opens an in-memory sqlite database private to t with the schema
// created. Global caches are emptied and logs are routed to t.
func DB(t testing.TB) *bun.DB {
	t.Helper()

	prev := log.Logger
	log.Logger = log.Logger.Output(zerolog.NewTestWriter(t))
	t.Cleanup(func() { log.Logger = prev })

	// shared cache needs a name; a random one keeps databases of repeated calls apart
	name := "lottostats_" + uniuri.NewLen(16)
	sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	// a single connection keeps the memory database alive and serializes writers
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, repo.CreateSchema(context.Background(), db))

	cache.Initialize(nil)
	for _, g := range []string{cache.GroupLotto, cache.GroupPension, cache.GroupSpeetto, cache.GroupAI} {
		cache.FlushGroup(g)
	}

	return db
}

// Config is a CLI-context configuration with every optional
// infrastructure component disabled.
func Config() *appconfig.Config {
	return &appconfig.Config{
		ConfigSpec: appconfig.ConfigSpec{
			ServiceAddress:            "localhost:0",
			HTTPServerShutdownTimeout: time.Second,
			WorkerInterval:            time.Minute,
			WorkerSeparation:          time.Millisecond,
			WorkerTimeout:             time.Minute,
			LottoSource:               appconfig.LottoSourceDHLottery,
			UpdateDispatch:            appconfig.DispatchInProcess,
			FetchTimeout:              time.Second,
			FetchRetries:              1,
			AdminKey:                  "test-admin-key",
		},
		AppContext: appcontext.Declare(appcontext.EnvCLI),
	}
}

// Options supplies the sqlite database of t and conf in place of the
// infrastructure module. Redis and NATS resolve to nil.
func Options(t testing.TB, conf *appconfig.Config) []fx.Option {
	return []fx.Option{
		// for testing, logger is too annoying. therefore, we use a NopLogger here
		fx.NopLogger,
		fx.Supply(conf),
		fx.Supply(DB(t)),
		fx.Provide(infra.Tracing, infra.NATS, infra.Redis, infra.RedSync),
		fx.Invoke(cache.Initialize),
	}
}
