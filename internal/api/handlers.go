package api

import (
	"time"

	"github.com/VerenaSchrama/Decode-sub000/internal/db"
	"github.com/VerenaSchrama/Decode-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const defaultAuthTokenTTL = 7 * 24 * time.Hour

// Handler is the HTTP shell over the completion pipeline. All domain
// behavior lives in internal/services; handlers parse, authorize and
// serialize.
type Handler struct {
	secretKey []byte
	location  *time.Location

	repositories *db.Repositories
	authService  *services.AuthService
	pipeline     *services.CompletionPipeline
}

type credentialsInput struct {
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	DisplayName string `json:"display_name" form:"display_name"`
}

type periodInput struct {
	InterventionName string   `json:"intervention_name"`
	Habits           []string `json:"habits"`
	StartDate        string   `json:"start_date"`
	PlannedEndDate   string   `json:"planned_end_date"`
	Notes            string   `json:"notes"`
}

type completeInput struct {
	Notes string `json:"notes"`
}

type dailySummaryPayload struct {
	Date            string `json:"date"`
	HabitsTotal     int    `json:"habits_total"`
	HabitsCompleted int    `json:"habits_completed"`
}

type moodPayload struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

func NewHandler(database *gorm.DB, secret string, location *time.Location) *Handler {
	if location == nil {
		location = time.UTC
	}

	repositories := db.NewRepositories(database)
	pipeline := services.NewCompletionPipeline(services.PipelineDeps{
		Periods:       repositories.Periods,
		Habits:        repositories.Habits,
		Tracking:      repositories.Tracking,
		Summaries:     repositories.Summaries,
		Notifications: repositories.Notifications,
	}, location)

	return &Handler{
		secretKey:    []byte(secret),
		location:     location,
		repositories: repositories,
		authService:  services.NewAuthService(repositories.Users),
		pipeline:     pipeline,
	}
}

// Scheduler exposes the pipeline scheduler so cmd can run the background
// sweep loop next to the server.
func (handler *Handler) Scheduler() *services.Scheduler {
	return handler.pipeline.Scheduler
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
