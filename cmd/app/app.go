package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/lottostats/backend/cmd/app/cli/runscript"
	"github.com/lottostats/backend/cmd/app/server"
	"github.com/lottostats/backend/internal/pkg/bininfo"
)

func Run() {
	app := &cli.App{
		Name:                 "lottostats",
		Usage:                "Korean lottery draw statistics",
		Description:          "Ingests lotto, pension and speetto results, keeps the carryover history and combination hit rates, and serves them over HTTP.",
		Version:              bininfo.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			server.Command(),
			server.WorkerCommand(),
			runscript.Command(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Strs("args", os.Args).Msg("lottostats exited with an error")
	}
}
