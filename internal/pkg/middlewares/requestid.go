package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lottostats/backend/internal/constant"
	"github.com/lottostats/backend/internal/pkg/flog"
)

// RequestID mirrors the id assigned by flog.RequestIDHandler into Locals so
// the error handler and the sentry middleware can attach it without touching
// the user context.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := flog.IDFromFiberCtx(c); ok {
			c.Locals(constant.ContextKeyRequestID, id.String())
		}
		return c.Next()
	}
}
