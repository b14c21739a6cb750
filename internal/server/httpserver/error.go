package httpserver

import (
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lottostats/backend/internal/constant"
	"github.com/lottostats/backend/internal/core/carryover"
	"github.com/lottostats/backend/internal/pkg/pgerr"
)

func handleCustomError(ctx *fiber.Ctx, e *pgerr.APIError) error {
	log.Warn().
		Err(e).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Msg(e.Message)

	body := fiber.Map{
		"code":    e.ErrorCode,
		"message": e.Message,
	}

	if e.Extras != nil && len(*e.Extras) > 0 {
		for k, v := range *e.Extras {
			body[k] = v
		}
	}

	return ctx.Status(e.StatusCode).JSON(body)
}

// domainError maps errors of the carryover domain to their API error.
func domainError(err error) *pgerr.APIError {
	var (
		apiErr    *pgerr.APIError
		noData    *carryover.NoDataError
		missing   *carryover.MissingPredecessorError
		malformed *carryover.MalformedDrawError
		duplicate *carryover.DuplicateRoundError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &noData):
		return pgerr.ErrNotFound.Msg("%s", noData.Error())
	case errors.As(err, &missing):
		return pgerr.ErrInvalidReq.Msg("%s", missing.Error()).WithExtras(pgerr.Extras{"round": missing.Round})
	case errors.As(err, &duplicate):
		return pgerr.ErrConflict.Msg("%s", duplicate.Error()).WithExtras(pgerr.Extras{"round": duplicate.Round})
	case errors.As(err, &malformed):
		return pgerr.ErrUnprocessable.Msg("%s", malformed.Error()).WithExtras(pgerr.Extras{"round": malformed.Round})
	}
	return nil
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	if e := domainError(err); e != nil {
		return handleCustomError(ctx, e)
	}

	// Default 500 statuscode
	re := *pgerr.ErrInternalError

	if e, ok := err.(*fiber.Error); ok {
		re.StatusCode = e.Code
		re.ErrorCode = "UNKNOWN_ERROR"
		re.Message = e.Message
	}

	log.Error().
		Stack().
		Err(err).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Int("status", re.StatusCode).
		Msg("Internal Server Error")

	if re.StatusCode >= fiber.StatusInternalServerError {
		if hub := fibersentry.GetHubFromContext(ctx); hub != nil {
			hub.Scope().SetTag("status", strconv.Itoa(re.StatusCode))
			if id, ok := ctx.Locals(constant.ContextKeyRequestID).(string); ok {
				hub.Scope().SetUser(sentry.User{ID: id})
			}
			hub.CaptureException(err)
		}
	}

	return handleCustomError(ctx, &re)
}
