package meta

import "go.uber.org/fx"

// Module registers the health, build info and admin routes.
func Module() fx.Option {
	return fx.Module("controller.meta",
		fx.Invoke(RegisterMeta),
		fx.Invoke(RegisterAdmin),
	)
}
