package server

import (
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/server/httpserver"
	"github.com/lottostats/backend/internal/server/svr"
)

// Module provides the fiber app and its route groups. Listening is left to
// the command that starts the server.
func Module() fx.Option {
	return fx.Module("server",
		fx.Provide(
			httpserver.Create,
			svr.CreateEndpointGroups,
		),
	)
}
