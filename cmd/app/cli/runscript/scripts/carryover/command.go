package script_carryover

import (
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/service"
)

type CommandDeps struct {
	fx.In

	CarryoverService     *service.Carryover
	ComboAnalysisService *service.ComboAnalysis
	UpdaterService       *service.Updater
}

func Commands(depsFn func() (CommandDeps, func())) []*cli.Command {
	return []*cli.Command{
		{
			Name:        "rebuild-carryover",
			Description: "rebuild the carryover history and summary from every stored draw",
			Action: func(ctx *cli.Context) error {
				deps, stop := depsFn()
				defer stop()

				resp, err := deps.CarryoverService.Rebuild(ctx.Context)
				if err != nil {
					return err
				}
				log.Info().
					Int("records", resp.Records).
					Ints("gaps", resp.Gaps).
					Strs("errors", resp.Errors).
					Msg("carryover rebuilt")
				return nil
			},
		},
		{
			Name:        "analyze-combos",
			Description: "recompute the combination hit rates of the latest or a given round",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "round",
					Usage: "target round; the latest draw when omitted",
				},
			},
			Action: func(ctx *cli.Context) error {
				deps, stop := depsFn()
				defer stop()

				round := ctx.Int("round")
				var err error
				if round > 0 {
					err = deps.ComboAnalysisService.AnalyzeRound(ctx.Context, round)
				} else {
					round, err = deps.ComboAnalysisService.AnalyzeLatest(ctx.Context)
				}
				if err != nil {
					return err
				}
				log.Info().Int("targetRound", round).Msg("combinations analyzed")
				return nil
			},
		},
		{
			Name:        "apply-rounds",
			Description: "apply the given rounds to the carryover history in ascending order",
			Flags: []cli.Flag{
				&cli.IntSliceFlag{
					Name:     "round",
					Usage:    "round to apply; repeatable",
					Required: true,
				},
			},
			Action: func(ctx *cli.Context) error {
				deps, stop := depsFn()
				defer stop()

				report, err := deps.UpdaterService.ProcessRounds(ctx.Context, ctx.IntSlice("round"))
				if report != nil {
					log.Info().
						Ints("applied", report.Applied).
						Ints("skipped", report.Skipped).
						Int("analyzedFor", report.AnalyzedFor).
						Msg("rounds processed")
				}
				return err
			},
		},
	}
}
