package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/VerenaSchrama/Decode-sub000/internal/models"
	"github.com/gofiber/fiber/v2"
)

func createTestPeriod(t *testing.T, app *fiber.App, token string, name string, habits []string, start time.Time, end time.Time) string {
	t.Helper()

	body := performRequest(t, app, jsonRequest(t, http.MethodPost, "/api/periods", token, fiber.Map{
		"intervention_name": name,
		"habits":            habits,
		"start_date":        start.Format(dateParamLayout),
		"planned_end_date":  end.Format(dateParamLayout),
	}), http.StatusCreated)

	periodID, _ := body["id"].(string)
	if periodID == "" {
		t.Fatalf("period response is missing an id: %v", body)
	}
	return periodID
}

func TestCreatePeriodNormalizesHabitsAndEnrollsThem(t *testing.T) {
	app, database := newTestApp(t)
	token := registerTestUser(t, app, "qa@decode.local", "StrongPass1")

	today := time.Now().UTC()
	body := performRequest(t, app, jsonRequest(t, http.MethodPost, "/api/periods", token, fiber.Map{
		"intervention_name": "Seed cycling",
		"habits":            []string{" Flax seeds ", "Flax seeds", "Magnesium"},
		"start_date":        today.Format(dateParamLayout),
		"planned_end_date":  today.AddDate(0, 0, 13).Format(dateParamLayout),
	}), http.StatusCreated)

	if body["status"] != models.PeriodStatusActive {
		t.Fatalf("expected active period, got %v", body["status"])
	}
	habits, ok := body["habits"].([]any)
	if !ok || len(habits) != 2 {
		t.Fatalf("expected 2 deduplicated habits, got %v", body["habits"])
	}

	var habitCount int64
	if err := database.Model(&models.UserHabit{}).Count(&habitCount).Error; err != nil {
		t.Fatalf("count habits: %v", err)
	}
	if habitCount != 2 {
		t.Fatalf("expected 2 enrolled habit rows, got %d", habitCount)
	}
}

func TestCreatePeriodRejectsInvalidInput(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerTestUser(t, app, "qa@decode.local", "StrongPass1")

	today := time.Now().UTC()
	performRequest(t, app, jsonRequest(t, http.MethodPost, "/api/periods", token, fiber.Map{
		"intervention_name": "   ",
		"start_date":        today.Format(dateParamLayout),
		"planned_end_date":  today.Format(dateParamLayout),
	}), http.StatusBadRequest)

	performRequest(t, app, jsonRequest(t, http.MethodPost, "/api/periods", token, fiber.Map{
		"intervention_name": "Seed cycling",
		"start_date":        today.Format(dateParamLayout),
		"planned_end_date":  today.AddDate(0, 0, -1).Format(dateParamLayout),
	}), http.StatusBadRequest)

	performRequest(t, app, jsonRequest(t, http.MethodPost, "/api/periods", token, fiber.Map{
		"intervention_name": "Seed cycling",
		"start_date":        "not-a-date",
		"planned_end_date":  today.Format(dateParamLayout),
	}), http.StatusBadRequest)
}

func TestCompletePeriodIsIdempotentWithSingleSideEffects(t *testing.T) {
	app, database := newTestApp(t)
	token := registerTestUser(t, app, "qa@decode.local", "StrongPass1")

	today := time.Now().UTC()
	periodID := createTestPeriod(t, app, token, "Seed cycling", []string{"Flax seeds"}, today.AddDate(0, 0, -9), today)

	first := performRequest(t, app, jsonRequest(t, http.MethodPost, "/api/periods/"+periodID+"/complete", token, fiber.Map{
		"notes": "felt great",
	}), http.StatusOK)
	if first["already_completed"] != false {
		t.Fatalf("expected a fresh completion, got %v", first)
	}
	listeners, ok := first["listeners"].([]any)
	if !ok || len(listeners) != 3 {
		t.Fatalf("expected 3 listener results, got %v", first["listeners"])
	}
	for _, raw := range listeners {
		listener := raw.(map[string]any)
		if listener["ok"] != true {
			t.Fatalf("listener %v reported failure: %v", listener["handler"], listener)
		}
	}

	second := performRequest(t, app, jsonRequest(t, http.MethodPost, "/api/periods/"+periodID+"/complete", token, nil), http.StatusOK)
	if second["already_completed"] != true {
		t.Fatalf("expected already_completed on the second call, got %v", second)
	}

	var notificationCount int64
	if err := database.Model(&models.Notification{}).Count(&notificationCount).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	if notificationCount != 1 {
		t.Fatalf("expected exactly one notification, got %d", notificationCount)
	}

	var summaryCount int64
	if err := database.Model(&models.CompletionSummary{}).Count(&summaryCount).Error; err != nil {
		t.Fatalf("count summaries: %v", err)
	}
	if summaryCount != 1 {
		t.Fatalf("expected exactly one completion summary, got %d", summaryCount)
	}

	var habit models.UserHabit
	if err := database.Where("name = ?", "Flax seeds").First(&habit).Error; err != nil {
		t.Fatalf("load habit: %v", err)
	}
	if habit.Status != models.HabitStatusCompleted {
		t.Fatalf("expected habit completed, got %q", habit.Status)
	}

	reloaded := performRequest(t, app, jsonRequest(t, http.MethodGet, "/api/periods/"+periodID, token, nil), http.StatusOK)
	if reloaded["status"] != models.PeriodStatusCompleted {
		t.Fatalf("expected completed period, got %v", reloaded["status"])
	}
	if reloaded["notes"] != "felt great" {
		t.Fatalf("expected caller notes retained, got %v", reloaded["notes"])
	}
}

func TestPeriodOwnershipEnforced(t *testing.T) {
	app, _ := newTestApp(t)
	ownerToken := registerTestUser(t, app, "owner@decode.local", "StrongPass1")
	otherToken := registerTestUser(t, app, "other@decode.local", "StrongPass1")

	today := time.Now().UTC()
	periodID := createTestPeriod(t, app, ownerToken, "Seed cycling", nil, today, today.AddDate(0, 0, 6))

	performRequest(t, app, jsonRequest(t, http.MethodGet, "/api/periods/"+periodID, otherToken, nil), http.StatusNotFound)
	performRequest(t, app, jsonRequest(t, http.MethodPost, "/api/periods/"+periodID+"/complete", otherToken, nil), http.StatusNotFound)
	performRequest(t, app, jsonRequest(t, http.MethodGet, "/api/periods/"+periodID+"/summary", otherToken, nil), http.StatusNotFound)

	performRequest(t, app, jsonRequest(t, http.MethodGet, "/api/periods/"+periodID, ownerToken, nil), http.StatusOK)
}

func TestPeriodSummaryReflectsTrackedAdherence(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerTestUser(t, app, "qa@decode.local", "StrongPass1")

	today := time.Now().UTC()
	start := today.AddDate(0, 0, -9)
	periodID := createTestPeriod(t, app, token, "Seed cycling", []string{"Flax seeds"}, start, today)

	scores := []int{2, 2, 2, 2, 5, 5, 5, 5}
	for offset, score := range scores {
		day := start.AddDate(0, 0, offset).Format(dateParamLayout)
		performRequest(t, app, jsonRequest(t, http.MethodPost, "/api/tracking/daily", token, fiber.Map{
			"date":             day,
			"habits_total":     1,
			"habits_completed": 1,
		}), http.StatusOK)
		performRequest(t, app, jsonRequest(t, http.MethodPost, "/api/tracking/mood", token, fiber.Map{
			"date":  day,
			"score": score,
		}), http.StatusOK)
	}

	performRequest(t, app, jsonRequest(t, http.MethodPost, "/api/periods/"+periodID+"/complete", token, nil), http.StatusOK)

	summary := performRequest(t, app, jsonRequest(t, http.MethodGet, "/api/periods/"+periodID+"/summary", token, nil), http.StatusOK)
	if summary["adherence_rate"] != 80.0 {
		t.Fatalf("expected adherence 80, got %v", summary["adherence_rate"])
	}
	if summary["mood_trend"] != models.MoodTrendImproved {
		t.Fatalf("expected improved mood trend, got %v", summary["mood_trend"])
	}
	if summary["average_mood"] != 3.5 {
		t.Fatalf("expected average mood 3.5, got %v", summary["average_mood"])
	}
}
