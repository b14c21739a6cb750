package cli

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/app"
	"github.com/lottostats/backend/internal/app/appcontext"
)

// Start builds and starts the app for a one-shot command. The returned
// function stops it.
func Start(module fx.Option) func() {
	a := app.New(appcontext.Declare(appcontext.EnvCLI), module)
	if err := a.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to start app")
	}
	return func() {
		if err := a.Stop(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to stop app")
		}
	}
}
