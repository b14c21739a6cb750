package infra

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"

	"github.com/lottostats/backend/internal/app/appconfig"
	"github.com/lottostats/backend/internal/pkg/bininfo"
	"github.com/lottostats/backend/internal/pkg/observability"
)

// Datadog runs the continuous profiler for the lifetime of the app. It never
// runs in DevMode, and a failed start is logged rather than fatal.
func Datadog(conf *appconfig.Config, lc fx.Lifecycle) {
	if conf.DevMode || !conf.DatadogProfilerEnabled {
		log.Info().
			Str("evt.name", "infra.datadog.disabled").
			Bool("devMode", conf.DevMode).
			Msg("datadog profiler is disabled")
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			err := profiler.Start(
				profiler.WithService(observability.ServiceName),
				profiler.WithEnv(conf.AppContext.Env.String()),
				profiler.WithVersion(bininfo.Version),
				profiler.WithAgentAddr(conf.DatadogProfilerAgentAddress),
				profiler.WithProfileTypes(profiler.CPUProfile, profiler.HeapProfile),
			)
			if err != nil {
				log.Error().
					Err(err).
					Str("evt.name", "infra.datadog.error").
					Msg("datadog profiler failed to start")
			}
			return nil
		},
		OnStop: func(context.Context) error {
			profiler.Stop()
			return nil
		},
	})
}
