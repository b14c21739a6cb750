package script_stats

import (
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/service"
)

type CommandDeps struct {
	fx.In

	NumberStatsService *service.NumberStats
}

func Command(depsFn func() (CommandDeps, func())) *cli.Command {
	return &cli.Command{
		Name:        "refresh-stats",
		Description: "recompute number frequency, gap and pension digit statistics",
		Action: func(ctx *cli.Context) error {
			deps, stop := depsFn()
			defer stop()

			lotto, err := deps.NumberStatsService.RefreshLotto(ctx.Context, true)
			if err != nil {
				return err
			}
			pension, err := deps.NumberStatsService.RefreshPension(ctx.Context, true)
			if err != nil {
				return err
			}
			log.Info().Bool("lotto", lotto).Bool("pension", pension).Msg("statistics refreshed")
			return nil
		},
	}
}
