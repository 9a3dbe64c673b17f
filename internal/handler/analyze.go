package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"llmstxt-go/internal/service"
	"llmstxt-go/pkg/api"
)

// Analyze handles POST /api/analyze.
func (c *Controller) Analyze(ctx *fiber.Ctx) error {
	if c.analysis == nil || !c.analysis.Enabled() {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": service.ErrScorerNotConfigured.Error(),
		})
	}

	target, ok, err := parseTarget(ctx)
	if !ok {
		return err
	}

	result, err := c.analysis.Analyze(ctx.UserContext(), target, requestLogger(ctx))
	if err != nil {
		var se *api.StatusError
		if errors.As(err, &se) {
			return ctx.Status(se.StatusCode).JSON(fiber.Map{
				"error":   "AI readiness analysis failed",
				"details": se.Details(),
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to call AI readiness endpoint",
			"details": err.Error(),
		})
	}

	return ctx.JSON(result)
}
