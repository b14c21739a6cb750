package infra

import "go.uber.org/fx"

// Module provides the database, the tracer provider and the optional Redis
// and NATS handles. Sentry and the profiler are started as side effects.
func Module() fx.Option {
	return fx.Module("infra",
		fx.Provide(
			Tracing,
			Postgres,
			Redis,
			RedSync,
			NATS,
		),
		fx.Invoke(SentryInit),
		fx.Invoke(Datadog),
	)
}
