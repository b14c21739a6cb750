package middlewares

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/lottostats/backend/internal/constant"
	"github.com/lottostats/backend/internal/pkg/pgerr"
)

// AdminKey rejects requests whose X-Admin-Key header does not equal key.
// An empty key disables every admin route.
func AdminKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		given := c.Get(constant.AdminKeyHeader)
		if key == "" || given == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
			return pgerr.ErrUnauthorized
		}
		return c.Next()
	}
}
