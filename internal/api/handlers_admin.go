package api

import (
	"errors"

	"github.com/VerenaSchrama/Decode-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
)

// RunSweep triggers one scheduler pass outside the timer, for operators and
// tests. The sweep only touches periods already past their planned end, so
// an extra run is always safe.
func (handler *Handler) RunSweep(c *fiber.Ctx) error {
	result, err := handler.pipeline.Scheduler.Sweep()
	if err != nil {
		if errors.Is(err, services.ErrSweepAlreadyRunning) {
			return apiError(c, fiber.StatusConflict, "sweep already running")
		}
		return apiError(c, fiber.StatusInternalServerError, "sweep failed")
	}

	details := make([]fiber.Map, 0, len(result.Details))
	for _, detail := range result.Details {
		entry := fiber.Map{
			"period_id":         detail.PeriodID,
			"user_id":           detail.UserID,
			"already_completed": detail.AlreadyCompleted,
		}
		if detail.Err != nil {
			entry["error"] = detail.Err.Error()
		}
		details = append(details, entry)
	}

	return c.JSON(fiber.Map{
		"found":     result.Found,
		"completed": result.Completed,
		"failed":    result.Failed,
		"details":   details,
	})
}
