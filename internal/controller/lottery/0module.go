package lottery

import (
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("controller.lottery", fx.Invoke(
		RegisterDraw,
		RegisterCarryover,
		RegisterStats,
		RegisterPension,
		RegisterSpeetto,
		RegisterRecommendation,
	))
}
