package service

import (
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("service", fx.Provide(
		NewCarryoverLock,
		NewDraw,
		NewHealth,
		NewIngest,
		NewSpeetto,
		NewPension,
		NewUpdater,
		NewCarryover,
		NewNumberStats,
		NewComboAnalysis,
		NewRecommendation,
	))
}
