package controller

import (
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/controller/lottery"
	"github.com/lottostats/backend/internal/controller/meta"
)

func Module() fx.Option {
	return fx.Module("controller",
		lottery.Module(),
		meta.Module(),
	)
}
