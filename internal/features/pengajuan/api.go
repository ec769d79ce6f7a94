package pengajuan

import (
	"sk-pengajuan/internal/common/api"
	"sk-pengajuan/internal/config"
	"sk-pengajuan/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SubmissionApi struct {
	controller *SubmissionController
	config     *config.Config
}

func NewSubmissionApi(controller *SubmissionController, config *config.Config) api.Route {
	return &SubmissionApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers the submission routes. Transition endpoints check the role
// before binding the body; the service checks it again against the state.
func (h *SubmissionApi) Setup(app *fiber.App) {
	group := app.Group("/api/pengajuan", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Get("/active", h.controller.GetActive)
	group.Get("/progress", h.controller.MyProgress)
	group.Get("/queue", middleware.RequireReviewer(), h.controller.Queue)
	group.Put("/draft", h.controller.Permit(ActionSubmit), h.controller.SaveDraft)
	group.Post("/submit", h.controller.Permit(ActionSubmit), h.controller.Submit)

	group.Get("/:id", h.controller.Get)
	group.Get("/:id/progress", h.controller.GetProgress)
	group.Get("/:id/history", h.controller.History)
	group.Get("/:id/pengurus/export", h.controller.ExportRoster)
	group.Post("/:id/resubmit", h.controller.Permit(ActionResubmit), h.controller.Resubmit)
	group.Post("/:id/review", h.controller.Permit(ActionApprove), h.controller.Review)
	group.Post("/:id/publish", h.controller.Permit(ActionPublish), h.controller.Publish)
}
