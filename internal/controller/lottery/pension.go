package lottery

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/model/types"
	"github.com/lottostats/backend/internal/server/svr"
	"github.com/lottostats/backend/internal/service"
)

type Pension struct {
	fx.In

	PensionService *service.Pension
}

func RegisterPension(root *svr.Root, c Pension) {
	root.Get("/pension/latest", c.GetLatest)
	root.Get("/pension/round/:round", c.GetByRound)
	root.Get("/pension/count", c.GetCount)
}

func (c *Pension) GetLatest(ctx *fiber.Ctx) error {
	draw, err := c.PensionService.GetLatestDraw(ctx.UserContext())
	if err != nil {
		return err
	}

	optIn(ctx, cache.GroupPension)
	return ctx.JSON(draw)
}

func (c *Pension) GetByRound(ctx *fiber.Ctx) error {
	round, err := roundParam(ctx)
	if err != nil {
		return err
	}

	draw, err := c.PensionService.GetDrawByRound(ctx.UserContext(), round)
	if err != nil {
		return err
	}

	optIn(ctx, cache.GroupPension)
	return ctx.JSON(draw)
}

func (c *Pension) GetCount(ctx *fiber.Ctx) error {
	count, err := c.PensionService.CountDraws(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(types.CountResponse{Count: count})
}
