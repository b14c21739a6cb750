package script_schema

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/repo"
)

type CommandDeps struct {
	fx.In

	DB *bun.DB
}

func Command(depsFn func() (CommandDeps, func())) *cli.Command {
	return &cli.Command{
		Name:        "init-schema",
		Description: "create every table and index that does not exist yet",
		Action: func(ctx *cli.Context) error {
			deps, stop := depsFn()
			defer stop()

			if err := repo.CreateSchema(ctx.Context, deps.DB); err != nil {
				return errors.Wrap(err, "failed to create schema")
			}
			log.Info().Msg("schema created")
			return nil
		},
	}
}
