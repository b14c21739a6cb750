package infra

import (
	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"

	"github.com/lottostats/backend/internal/app/appconfig"
	"github.com/lottostats/backend/internal/pkg/bininfo"
)

// SentryInit configures the global sentry hub. Events are tagged with the
// process kind so worker-only deployments can be told apart from servers.
func SentryInit(conf *appconfig.Config) error {
	if conf.SentryDSN == "" {
		log.Warn().Msg("sentry disabled: no DSN configured")
		return nil
	}

	env := conf.AppContext.Env.String()
	if conf.DevMode {
		env += "-dev"
	}
	log.Info().Str("environment", env).Msg("initializing sentry")

	return sentry.Init(sentry.ClientOptions{
		Dsn:              conf.SentryDSN,
		Release:          "lottostats-backend@" + bininfo.Version,
		Environment:      env,
		Debug:            conf.DevMode,
		AttachStacktrace: true,
		TracesSampleRate: conf.SentryTracesSampleRate,
	})
}
