package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)

	periods := api.Group("/periods", handler.AuthRequired)
	periods.Get("", handler.ListPeriods)
	periods.Post("", handler.CreatePeriod)
	periods.Get("/:id", handler.GetPeriod)
	periods.Post("/:id/complete", handler.CompletePeriod)
	periods.Get("/:id/summary", handler.GetPeriodSummary)

	tracking := api.Group("/tracking", handler.AuthRequired)
	tracking.Post("/daily", handler.UpsertDailySummary)
	tracking.Post("/mood", handler.UpsertMood)

	notifications := api.Group("/notifications", handler.AuthRequired)
	notifications.Get("", handler.ListNotifications)
	notifications.Post("/:id/read", handler.MarkNotificationRead)

	admin := api.Group("/admin", handler.AuthRequired)
	admin.Post("/sweep", handler.RunSweep)
}
