package lottery

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/model/types"
	"github.com/lottostats/backend/internal/server/svr"
	"github.com/lottostats/backend/internal/service"
)

type Draw struct {
	fx.In

	DrawService *service.Draw
}

func RegisterDraw(root *svr.Root, c Draw) {
	root.Get("/lotto/latest", c.GetLatest)
	root.Get("/lotto/round/:round", c.GetByRound)
	root.Get("/lotto/count", c.GetCount)
	root.Get("/lotto/numbers/all", c.GetAll)
	root.Get("/lotto/all", c.GetAll)
}

func (c *Draw) GetLatest(ctx *fiber.Ctx) error {
	draw, err := c.DrawService.GetLatestDraw(ctx.UserContext())
	if err != nil {
		return err
	}

	optIn(ctx, cache.GroupLotto)
	return ctx.JSON(c.DrawService.ToResponse(draw))
}

func (c *Draw) GetByRound(ctx *fiber.Ctx) error {
	round, err := roundParam(ctx)
	if err != nil {
		return err
	}

	draw, err := c.DrawService.GetDrawByRound(ctx.UserContext(), round)
	if err != nil {
		return err
	}

	optIn(ctx, cache.GroupLotto)
	return ctx.JSON(c.DrawService.ToResponse(draw))
}

func (c *Draw) GetCount(ctx *fiber.Ctx) error {
	count, err := c.DrawService.CountDraws(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(types.CountResponse{Count: count})
}

// GetAll lists every draw, newest first.
func (c *Draw) GetAll(ctx *fiber.Ctx) error {
	draws, err := c.DrawService.GetDraws(ctx.UserContext())
	if err != nil {
		return err
	}

	resp := lo.Map(lo.Reverse(append([]*model.Draw(nil), draws...)), func(d *model.Draw, _ int) *types.DrawResponse {
		return c.DrawService.ToResponse(d)
	})

	optIn(ctx, cache.GroupLotto)
	return ctx.JSON(resp)
}
