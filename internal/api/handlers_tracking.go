package api

import (
	"errors"

	"github.com/VerenaSchrama/Decode-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) UpsertDailySummary(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := dailySummaryPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	day, err := parseDateField(payload.Date, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	entry, err := handler.pipeline.Tracking.RecordDailySummary(user.ID, services.DailySummaryInput{
		Date:            day,
		HabitsTotal:     payload.HabitsTotal,
		HabitsCompleted: payload.HabitsCompleted,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidTrackingInput) {
			return apiError(c, fiber.StatusBadRequest, "invalid tracking input")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to record summary")
	}

	return c.JSON(fiber.Map{
		"date":             entry.Date.Format(dateParamLayout),
		"habits_total":     entry.HabitsTotal,
		"habits_completed": entry.HabitsCompleted,
		"completion_pct":   entry.CompletionPct,
		"period_id":        entry.PeriodID,
	})
}

func (handler *Handler) UpsertMood(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := moodPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	day, err := parseDateField(payload.Date, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	entry, err := handler.pipeline.Tracking.RecordMood(user.ID, day, payload.Score)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTrackingInput) {
			return apiError(c, fiber.StatusBadRequest, "invalid mood score")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to record mood")
	}

	return c.JSON(fiber.Map{
		"date":      entry.Date.Format(dateParamLayout),
		"score":     entry.Score,
		"period_id": entry.PeriodID,
	})
}
