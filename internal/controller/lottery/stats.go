package lottery

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/model/types"
	"github.com/lottostats/backend/internal/server/svr"
	"github.com/lottostats/backend/internal/service"
	"github.com/lottostats/backend/internal/util/rekuest"
)

type Stats struct {
	fx.In

	NumberStatsService *service.NumberStats
}

func RegisterStats(root *svr.Root, c Stats) {
	root.Get("/lotto/number-stats", c.GetNumberStats)
	root.Get("/lotto/gaps", c.GetNumberGaps)
	root.Get("/pension/digit-stats", c.GetDigitStats)
}

func (c *Stats) GetNumberStats(ctx *fiber.Ctx) error {
	var q types.NumberStatsQuery
	if err := rekuest.ValidQuery(ctx, &q); err != nil {
		return err
	}

	rows, err := c.NumberStatsService.GetNumberStats(ctx.UserContext(), &q)
	if err != nil {
		return err
	}

	optIn(ctx, cache.GroupLotto)
	return ctx.JSON(rows)
}

func (c *Stats) GetNumberGaps(ctx *fiber.Ctx) error {
	rows, err := c.NumberStatsService.GetNumberGaps(ctx.UserContext())
	if err != nil {
		return err
	}

	optIn(ctx, cache.GroupLotto)
	return ctx.JSON(rows)
}

func (c *Stats) GetDigitStats(ctx *fiber.Ctx) error {
	var q types.DigitStatsQuery
	if err := rekuest.ValidQuery(ctx, &q); err != nil {
		return err
	}

	rows, err := c.NumberStatsService.GetDigitStats(ctx.UserContext(), &q)
	if err != nil {
		return err
	}

	optIn(ctx, cache.GroupPension)
	return ctx.JSON(rows)
}
