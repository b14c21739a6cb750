package lottery

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/pkg/pgerr"
	"github.com/lottostats/backend/internal/server/svr"
	"github.com/lottostats/backend/internal/service"
)

type Speetto struct {
	fx.In

	SpeettoService *service.Speetto
}

func RegisterSpeetto(root *svr.Root, c Speetto) {
	root.Get("/speetto/status", c.GetStatuses)
}

func (c *Speetto) GetStatuses(ctx *fiber.Ctx) error {
	statuses, err := c.SpeettoService.GetStatuses(ctx.UserContext())
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		return pgerr.ErrNotFound.Msg("no speetto status was synced yet")
	}

	optIn(ctx, cache.GroupSpeetto)
	return ctx.JSON(statuses)
}
