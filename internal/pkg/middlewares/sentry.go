package middlewares

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/lottostats/backend/internal/constant"
)

// EnrichSentry tags the request hub with the request id and opens a
// transaction continuing any incoming sentry-trace header. Requests marked
// with the slim header are left untraced.
func EnrichSentry() fiber.Handler {
	return func(c *fiber.Ctx) error {
		hub := fibersentry.GetHubFromContext(c)
		if hub == nil || c.Get(constant.SlimHeaderKey) != "" {
			return c.Next()
		}

		if id, ok := c.Locals(constant.ContextKeyRequestID).(string); ok {
			hub.Scope().SetTag("request_id", id)
		}
		hub.Scope().SetTag("route", c.Route().Path)

		var r http.Request
		if err := fasthttpadaptor.ConvertRequest(c.Context(), &r, true); err != nil {
			return err
		}
		span := sentry.StartTransaction(c.Context(), c.Method()+" "+c.Path(), sentry.ContinueFromRequest(&r))
		defer span.Finish()

		return c.Next()
	}
}
