package lottery

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/pkg/cachectrl"
	"github.com/lottostats/backend/internal/pkg/pgerr"
)

func roundParam(ctx *fiber.Ctx) (int, error) {
	round, err := strconv.Atoi(ctx.Params("round"))
	if err != nil || round < 1 {
		return 0, pgerr.ErrInvalidReq.Msg("invalid or missing round")
	}
	return round, nil
}

// optIn sets cache headers with the first time group was served since its
// caches were last flushed as the modification time.
func optIn(ctx *fiber.Ctx, group string) {
	var t time.Time
	_, err := cache.LastModifiedTime.MutexGetSet(group, &t, func() (time.Time, error) {
		return time.Now(), nil
	}, 24*time.Hour)
	if err != nil {
		cachectrl.OptOut(ctx)
		return
	}
	cachectrl.OptIn(ctx, t)
}
