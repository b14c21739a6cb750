package server

import "github.com/urfave/cli/v2"

func Command() *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "serve the HTTP API and run the background workers",
		Action: func(c *cli.Context) error {
			Run()
			return nil
		},
	}
}

// WorkerCommand runs the scheduled ingestion, statistics and update workers
// without listening for HTTP requests.
func WorkerCommand() *cli.Command {
	return &cli.Command{
		Name:  "worker",
		Usage: "run the background workers only",
		Action: func(c *cli.Context) error {
			RunWorker()
			return nil
		},
	}
}
