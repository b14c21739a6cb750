package cachectrl

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lottostats/backend/internal/constant"
)

// MaxAge bounds how long a client reuses a response after an ingestion.
const MaxAge = time.Hour

// OptIn marks the response publicly cacheable with t as its modification time.
func OptIn(ctx *fiber.Ctx, t time.Time) {
	OptInFor(ctx, t, MaxAge)
}

func OptInFor(ctx *fiber.Ctx, t time.Time, maxAge time.Duration) {
	ctx.Set(fiber.HeaderCacheControl, "public, max-age="+strconv.Itoa(int(maxAge.Seconds())))
	ctx.Set(fiber.HeaderExpires, time.Now().Add(maxAge).UTC().Format(http.TimeFormat))
	ctx.Set(constant.CacheHeader, "public")
	ctx.Response().Header.SetLastModified(t)
}

func OptOut(ctx *fiber.Ctx) {
	ctx.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	ctx.Set(fiber.HeaderPragma, "no-cache")
	ctx.Set(fiber.HeaderExpires, "0")
	ctx.Set(constant.CacheHeader, "bypass")
}
