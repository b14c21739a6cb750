package lottery

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/pkg/pgerr"
	"github.com/lottostats/backend/internal/server/svr"
	"github.com/lottostats/backend/internal/service"
)

type Recommendation struct {
	fx.In

	RecommendationService *service.Recommendation
}

func RegisterRecommendation(root *svr.Root, c Recommendation) {
	root.Get("/lotto/ai", c.GetLatest)
}

func (c *Recommendation) GetLatest(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", service.DefaultRecommendationLimit)
	if limit < 1 || limit > 100 {
		return pgerr.ErrInvalidReq.Msg("limit must be between 1 and 100")
	}

	recs, err := c.RecommendationService.GetLatest(ctx.UserContext(), limit)
	if err != nil {
		return err
	}

	optIn(ctx, cache.GroupAI)
	return ctx.JSON(recs)
}
