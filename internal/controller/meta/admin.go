package meta

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	"github.com/lottostats/backend/internal/core/carryover"
	"github.com/lottostats/backend/internal/model"
	"github.com/lottostats/backend/internal/model/cache"
	"github.com/lottostats/backend/internal/model/types"
	"github.com/lottostats/backend/internal/pkg/pgerr"
	"github.com/lottostats/backend/internal/server/svr"
	"github.com/lottostats/backend/internal/service"
	"github.com/lottostats/backend/internal/util/rekuest"
)

type AdminController struct {
	fx.In

	CarryoverService     *service.Carryover
	ComboAnalysisService *service.ComboAnalysis
	NumberStatsService   *service.NumberStats
	UpdaterService       *service.Updater
	IngestService        *service.Ingest
}

func RegisterAdmin(admin *svr.Admin, c AdminController) {
	admin.Post("/purge", c.PurgeCache)

	admin.Post("/carryover/rebuild", c.RebuildCarryover)
	admin.Post("/carryover/apply", c.ApplyRounds)
	admin.Post("/carryover/apply/:round", c.ApplyRound)

	admin.Post("/refresh/combos", c.RefreshCombos)
	admin.Post("/refresh/stats", c.RefreshStats)

	admin.Post("/ingest/lotto", c.IngestLotto)
	admin.Post("/ingest/pension", c.IngestPension)
	admin.Post("/ingest/speetto", c.SyncSpeetto)
	admin.Post("/ingest/recommendations", c.FetchRecommendations)
}

func (c *AdminController) PurgeCache(ctx *fiber.Ctx) error {
	var request types.PurgeCacheRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}
	for _, pair := range request.Pairs {
		if err := cache.Delete(pair.Name, pair.Key); err != nil {
			return err
		}
	}
	for _, group := range request.Groups {
		cache.FlushGroup(group)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *AdminController) RebuildCarryover(ctx *fiber.Ctx) error {
	resp, err := c.CarryoverService.Rebuild(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(resp)
}

// ApplyRounds runs the incremental updater. When a round fails the rounds
// applied before it are reported alongside the error.
func (c *AdminController) ApplyRounds(ctx *fiber.Ctx) error {
	var request types.ApplyRoundsRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	report, err := c.UpdaterService.ProcessRounds(ctx.UserContext(), request.Rounds)
	var failed *carryover.RoundFailedError
	if errors.As(err, &failed) {
		return pgerr.ErrUnprocessable.Msg("%s", failed.Error()).WithExtras(pgerr.Extras{
			"round":  failed.Round,
			"report": report,
		})
	}
	if err != nil {
		return err
	}
	return ctx.JSON(report)
}

// ApplyRound applies one round directly. With ?strict=true an already
// applied round is rejected instead of recomputed.
func (c *AdminController) ApplyRound(ctx *fiber.Ctx) error {
	round, err := ctx.ParamsInt("round")
	if err != nil || round < 1 {
		return pgerr.ErrInvalidReq.Msg("invalid or missing round")
	}

	rec, err := c.CarryoverService.ApplyRound(ctx.UserContext(), round, service.ApplyOptions{
		RejectProcessed: ctx.QueryBool("strict"),
	})
	if err != nil {
		return err
	}
	return ctx.JSON(model.NewCarryoverRecord(*rec))
}

func (c *AdminController) RefreshCombos(ctx *fiber.Ctx) error {
	round := ctx.QueryInt("round")
	if round > 0 {
		if err := c.ComboAnalysisService.AnalyzeRound(ctx.UserContext(), round); err != nil {
			return err
		}
	} else {
		var err error
		round, err = c.ComboAnalysisService.AnalyzeLatest(ctx.UserContext())
		if err != nil {
			return err
		}
	}
	return ctx.JSON(fiber.Map{"targetRound": round})
}

func (c *AdminController) RefreshStats(ctx *fiber.Ctx) error {
	lotto, err := c.NumberStatsService.RefreshLotto(ctx.UserContext(), true)
	if err != nil {
		return err
	}
	pension, err := c.NumberStatsService.RefreshPension(ctx.UserContext(), true)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"lotto": lotto, "pension": pension})
}

func (c *AdminController) IngestLotto(ctx *fiber.Ctx) error {
	resp, err := c.IngestService.IngestLotto(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(resp)
}

func (c *AdminController) IngestPension(ctx *fiber.Ctx) error {
	resp, err := c.IngestService.IngestPension(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(resp)
}

func (c *AdminController) SyncSpeetto(ctx *fiber.Ctx) error {
	resp, err := c.IngestService.SyncSpeetto(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(resp)
}

func (c *AdminController) FetchRecommendations(ctx *fiber.Ctx) error {
	resp, err := c.IngestService.FetchRecommendations(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(resp)
}
