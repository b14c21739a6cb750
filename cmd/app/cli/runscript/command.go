package runscript

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "github.com/lottostats/backend/cmd/app/cli"
	script_carryover "github.com/lottostats/backend/cmd/app/cli/runscript/scripts/carryover"
	script_ingest "github.com/lottostats/backend/cmd/app/cli/runscript/scripts/ingest"
	script_schema "github.com/lottostats/backend/cmd/app/cli/runscript/scripts/schema"
	script_stats "github.com/lottostats/backend/cmd/app/cli/runscript/scripts/stats"
)

// depsFn defers starting the app until a script actually runs.
func depsFn[T any]() func() (T, func()) {
	return func() (T, func()) {
		var deps T
		stop := cliapp.Start(fx.Populate(&deps))
		return deps, stop
	}
}

func Command() *cli.Command {
	subcommands := []*cli.Command{
		script_schema.Command(depsFn[script_schema.CommandDeps]()),
		script_stats.Command(depsFn[script_stats.CommandDeps]()),
	}
	subcommands = append(subcommands, script_carryover.Commands(depsFn[script_carryover.CommandDeps]())...)
	subcommands = append(subcommands, script_ingest.Commands(depsFn[script_ingest.CommandDeps]())...)

	return &cli.Command{
		Name:        "run-script",
		Description: "run maintenance go scripts",
		Subcommands: subcommands,
	}
}
