package app

import (
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/app/appconfig"
	"github.com/lottostats/backend/internal/app/appcontext"
	"github.com/lottostats/backend/internal/controller"
	"github.com/lottostats/backend/internal/infra"
	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/pkg/bininfo"
	"github.com/lottostats/backend/internal/pkg/logger"
	"github.com/lottostats/backend/internal/repo"
	"github.com/lottostats/backend/internal/server"
	"github.com/lottostats/backend/internal/service"
	"github.com/lottostats/backend/internal/source"
	"github.com/lottostats/backend/internal/workers/calcwkr"
	"github.com/lottostats/backend/internal/workers/ingestwkr"
	"github.com/lottostats/backend/internal/workers/updatewkr"
)

func Options(ctx appcontext.Ctx, additionalOpts ...fx.Option) []fx.Option {
	conf, err := appconfig.Parse(ctx)
	if err != nil {
		panic(err)
	}

	// logger and configuration are the only two things that are not in the fx graph
	// because some other packages need them to be initialized before fx starts
	logger.Configure(conf)
	log.Info().
		Str("env", ctx.Env.String()).
		Str("version", bininfo.Version).
		Msg("assembling application")

	baseOpts := []fx.Option{
		// fx meta
		fx.WithLogger(logger.Fx),

		// Misc
		fx.Supply(conf),

		// Infrastructures, Sentry included
		infra.Module(),

		// Servers
		server.Module(),

		// External sources
		source.Module(),

		// Repositories
		repo.Module(),

		// Services
		service.Module(),

		// Global Singleton Inits: Keep those before controllers to ensure they are initialized
		// before controllers are registered as controllers are also fx#Invoke functions which
		// are called in the order of their registration.
		fx.Invoke(cache.Initialize),

		// Controllers
		controller.Module(),

		// fx Extra Options
		fx.StartTimeout(5 * time.Second),
		// fiber's Shutdown() honours its IdleTimeout; this only guards against a stuck shutdown.
		fx.StopTimeout(5 * time.Minute),
	}

	if ctx.Env != appcontext.EnvCLI {
		baseOpts = append(baseOpts,
			fx.Invoke(calcwkr.Start),
			fx.Invoke(ingestwkr.Start),
			fx.Invoke(updatewkr.Start),
		)
	}

	return append(baseOpts, additionalOpts...)
}

func New(ctx appcontext.Ctx, additionalOpts ...fx.Option) *fx.App {
	return fx.New(Options(ctx, additionalOpts...)...)
}
