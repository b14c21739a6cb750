package lottery

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/model/types"
	"github.com/lottostats/backend/internal/pkg/pgerr"
	"github.com/lottostats/backend/internal/server/svr"
	"github.com/lottostats/backend/internal/service"
	"github.com/lottostats/backend/internal/util"
	"github.com/lottostats/backend/internal/util/rekuest"
)

type Carryover struct {
	fx.In

	CarryoverService     *service.Carryover
	ComboAnalysisService *service.ComboAnalysis
}

func RegisterCarryover(root *svr.Root, c Carryover) {
	root.Get("/lotto/carryover/summary", c.GetSummary)
	root.Get("/lotto/carryover/history", c.GetHistory)
	root.Get("/lotto/carryover/stats", c.GetCaseStats)
	root.Get("/lotto/carryover/analysis", c.GetAnalysis)
	root.Get("/lotto/carryover/combos", c.GetCombos)
}

func (c *Carryover) GetSummary(ctx *fiber.Ctx) error {
	rows, err := c.CarryoverService.GetSummary(ctx.UserContext())
	if err != nil {
		return err
	}

	optIn(ctx, cache.GroupLotto)
	return ctx.JSON(rows)
}

func (c *Carryover) GetHistory(ctx *fiber.Ctx) error {
	var q types.CarryoverHistoryQuery
	if err := rekuest.ValidQuery(ctx, &q); err != nil {
		return err
	}

	records, err := c.CarryoverService.GetHistory(ctx.UserContext(), &q)
	if err != nil {
		return err
	}

	return ctx.JSON(records)
}

func (c *Carryover) GetCaseStats(ctx *fiber.Ctx) error {
	q := types.CarryoverStatsQuery{Count: 1}
	if err := rekuest.ValidQuery(ctx, &q); err != nil {
		return err
	}

	stats, err := c.CarryoverService.GetCaseStats(ctx.UserContext(), &q)
	if err != nil {
		return err
	}

	optIn(ctx, cache.GroupLotto)
	return ctx.JSON(stats)
}

func (c *Carryover) GetAnalysis(ctx *fiber.Ctx) error {
	var q types.CarryoverAnalysisQuery
	if err := rekuest.ValidQuery(ctx, &q); err != nil {
		return err
	}

	picks, err := util.ParseIntList(q.Pick)
	if err != nil {
		return pgerr.ErrInvalidReq.Msg("invalid pick: %s", err)
	}
	includeBonus := q.IncludeBonus == nil || *q.IncludeBonus

	analysis, err := c.CarryoverService.GetCandidateAnalysis(ctx.UserContext(), picks, includeBonus)
	if err != nil {
		return err
	}

	optIn(ctx, cache.GroupLotto)
	return ctx.JSON(analysis)
}

func (c *Carryover) GetCombos(ctx *fiber.Ctx) error {
	var q types.ComboQuery
	if err := rekuest.ValidQuery(ctx, &q); err != nil {
		return err
	}

	combos, err := c.ComboAnalysisService.GetCombos(ctx.UserContext(), &q)
	if err != nil {
		return err
	}

	optIn(ctx, cache.GroupLotto)
	return ctx.JSON(combos)
}
