package meta

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/app/appconfig"
	"github.com/lottostats/backend/internal/pkg/bininfo"
	"github.com/lottostats/backend/internal/pkg/cachectrl"
	"github.com/lottostats/backend/internal/pkg/pgerr"
	"github.com/lottostats/backend/internal/server/svr"
	"github.com/lottostats/backend/internal/service"
)

type Meta struct {
	fx.In

	Conf          *appconfig.Config
	HealthService *service.Health
}

func RegisterMeta(app *fiber.App, root *svr.Root, meta *svr.Meta, c Meta) {
	app.Get("/api", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "lottostats API",
			"version": bininfo.Version,
		})
	})
	meta.Get("/bininfo", c.BinInfo)

	// cache it for a second to mitigate potential DDoS
	healthCache := cache.New(cache.Config{
		Expiration: time.Second,
	})
	meta.Get("/health", healthCache, c.Health)
	root.Get("/health", healthCache, c.Health)
}

func (c *Meta) BinInfo(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"version": bininfo.Version,
		"build":   bininfo.BuildTime,
		"env":     c.Conf.AppContext.Env.String(),
	})
}

func (c *Meta) Health(ctx *fiber.Ctx) error {
	cachectrl.OptOut(ctx)
	if err := c.HealthService.Ping(ctx.UserContext()); err != nil {
		return pgerr.ErrUnavailable.Msg("%s", err)
	}

	return ctx.JSON(fiber.Map{
		"status":    "ok",
		"checked":   c.HealthService.Components(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
