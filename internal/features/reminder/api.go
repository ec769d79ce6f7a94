package reminder

import (
	"sk-pengajuan/internal/common/api"
	"sk-pengajuan/internal/config"
	"sk-pengajuan/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReminderApi struct {
	controller *ReminderController
	config     *config.Config
}

func NewReminderApi(controller *ReminderController, config *config.Config) api.Route {
	return &ReminderApi{
		controller: controller,
		config:     config,
	}
}

func (h *ReminderApi) Setup(app *fiber.App) {
	group := app.Group("/api/reminders", middleware.AuthMiddleware(h.config.SkipAuth), middleware.RequireReviewer())

	group.Get("/runs", h.controller.ListRuns)
	group.Post("/run", h.controller.Trigger)
}
