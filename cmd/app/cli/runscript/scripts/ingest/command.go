package script_ingest

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/service"
)

type CommandDeps struct {
	fx.In

	IngestService *service.Ingest
}

func command(name, description string, depsFn func() (CommandDeps, func()), run func(ctx context.Context, s *service.Ingest) (any, error)) *cli.Command {
	return &cli.Command{
		Name:        name,
		Description: description,
		Action: func(ctx *cli.Context) error {
			deps, stop := depsFn()
			defer stop()

			resp, err := run(ctx.Context, deps.IngestService)
			if err != nil {
				return err
			}
			log.Info().Str("script", name).Interface("result", resp).Msg("script finished")
			return nil
		},
	}
}

func Commands(depsFn func() (CommandDeps, func())) []*cli.Command {
	return []*cli.Command{
		command("ingest-lotto", "fetch new lotto draws and apply them", depsFn,
			func(ctx context.Context, s *service.Ingest) (any, error) { return s.IngestLotto(ctx) }),
		command("ingest-pension", "fetch new pension lottery draws", depsFn,
			func(ctx context.Context, s *service.Ingest) (any, error) { return s.IngestPension(ctx) }),
		command("sync-speetto", "sync the remaining prizes of speetto editions on sale", depsFn,
			func(ctx context.Context, s *service.Ingest) (any, error) { return s.SyncSpeetto(ctx) }),
		command("fetch-recommendations", "ask every configured AI provider for this week's numbers", depsFn,
			func(ctx context.Context, s *service.Ingest) (any, error) { return s.FetchRecommendations(ctx) }),
	}
}
