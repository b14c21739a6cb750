package source

import (
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/pkg/fetch"
	"github.com/lottostats/backend/internal/source/dhlottery"
	"github.com/lottostats/backend/internal/source/llm"
	"github.com/lottostats/backend/internal/source/naver"
)

func Module() fx.Option {
	return fx.Module("source", fx.Provide(
		fetch.Provide,
		dhlottery.NewLottoFeed,
		dhlottery.NewSpeetto,
		naver.NewLotto,
		naver.NewPension,
		llm.Provide,
	))
}
