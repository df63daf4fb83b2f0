package api

import (
	"errors"

	"github.com/VerenaSchrama/Decode-sub000/internal/models"
	"github.com/VerenaSchrama/Decode-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) CreatePeriod(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := periodInput{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	startDate, err := parseDateField(payload.StartDate, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid start_date")
	}
	plannedEnd, err := parseDateField(payload.PlannedEndDate, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid planned_end_date")
	}

	period, err := handler.pipeline.Interventions.Start(user.ID, services.StartPeriodInput{
		InterventionName: payload.InterventionName,
		Habits:           payload.Habits,
		StartDate:        startDate,
		PlannedEndDate:   plannedEnd,
		Notes:            payload.Notes,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidPeriodInput) {
			return apiError(c, fiber.StatusBadRequest, "invalid period input")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to create period")
	}

	return c.Status(fiber.StatusCreated).JSON(periodJSON(&period))
}

func (handler *Handler) ListPeriods(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	periods, err := handler.pipeline.Interventions.ListForUser(user.ID, c.Query("status"))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch periods")
	}

	views := make([]fiber.Map, 0, len(periods))
	for index := range periods {
		views = append(views, periodJSON(&periods[index]))
	}
	return c.JSON(fiber.Map{"periods": views})
}

func (handler *Handler) GetPeriod(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	period, err := handler.pipeline.Interventions.Get(c.Params("id"), user.ID)
	if err != nil {
		if errors.Is(err, services.ErrPeriodNotFound) {
			return apiError(c, fiber.StatusNotFound, "period not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch period")
	}

	return c.JSON(periodJSON(&period))
}

func (handler *Handler) CompletePeriod(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := completeInput{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}

	periodID := c.Params("id")
	if _, err := handler.pipeline.Interventions.Get(periodID, user.ID); err != nil {
		if errors.Is(err, services.ErrPeriodNotFound) {
			return apiError(c, fiber.StatusNotFound, "period not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch period")
	}

	result, err := handler.pipeline.Interventions.Complete(periodID, payload.Notes, false)
	if err != nil {
		if errors.Is(err, services.ErrPeriodNotFound) {
			return apiError(c, fiber.StatusNotFound, "period not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to complete period")
	}

	return c.JSON(completionResultJSON(result))
}

func (handler *Handler) GetPeriodSummary(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	periodID := c.Params("id")
	if _, err := handler.pipeline.Interventions.Get(periodID, user.ID); err != nil {
		if errors.Is(err, services.ErrPeriodNotFound) {
			return apiError(c, fiber.StatusNotFound, "period not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch period")
	}

	summary, found, err := handler.repositories.Summaries.FindByPeriodID(periodID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch summary")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "summary not found")
	}

	return c.JSON(summaryJSON(&summary))
}

func periodJSON(period *models.InterventionPeriod) fiber.Map {
	view := fiber.Map{
		"id":                period.ID,
		"intervention_name": period.InterventionName,
		"habits":            period.SelectedHabits,
		"start_date":        period.StartDate.Format(dateParamLayout),
		"planned_end_date":  period.PlannedEndDate.Format(dateParamLayout),
		"status":            period.Status,
		"notes":             period.Notes,
	}
	if period.ActualEndDate != nil {
		view["actual_end_date"] = period.ActualEndDate.Format(dateParamLayout)
	}
	return view
}

func completionResultJSON(result services.CompletionResult) fiber.Map {
	listeners := make([]fiber.Map, 0, len(result.ListenerResults))
	for _, listener := range result.ListenerResults {
		entry := fiber.Map{"handler": listener.Handler, "ok": listener.Err == nil}
		if listener.Err != nil {
			entry["error"] = listener.Err.Error()
		}
		listeners = append(listeners, entry)
	}

	view := fiber.Map{
		"period_id":         result.PeriodID,
		"already_completed": result.AlreadyCompleted,
		"auto_completed":    result.AutoCompleted,
		"listeners":         listeners,
	}
	if !result.CompletedAt.IsZero() {
		view["completed_at"] = result.CompletedAt.Format(dateParamLayout)
	}
	return view
}

func summaryJSON(summary *models.CompletionSummary) fiber.Map {
	view := fiber.Map{
		"period_id":      summary.PeriodID,
		"adherence_rate": summary.AdherenceRate,
		"mood_trend":     summary.MoodTrend,
		"breakdown":      summary.Breakdown,
	}
	if summary.AverageMood != nil {
		view["average_mood"] = *summary.AverageMood
	}
	return view
}
