package administrasi

import (
	"sk-pengajuan/internal/common/api"
	common_models "sk-pengajuan/internal/common/models"
	"sk-pengajuan/internal/config"
	"sk-pengajuan/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RecordApi struct {
	controller *RecordController
	config     *config.Config
}

func NewRecordApi(controller *RecordController, config *config.Config) api.Route {
	return &RecordApi{
		controller: controller,
		config:     config,
	}
}

func (h *RecordApi) Setup(app *fiber.App) {
	group := app.Group("/api/administrasi", middleware.AuthMiddleware(h.config.SkipAuth))

	// Owner
	me := group.Group("/me", middleware.RequireRole(common_models.RoleOwner))
	me.Get("/", h.controller.MyStatus)
	me.Put("/bank", h.controller.SaveBank)
	me.Put("/office", h.controller.SaveOffice)
	me.Put("/legality", h.controller.SaveLegality)

	// Review
	group.Get("/status", middleware.RequireReviewer(), h.controller.ListStatuses)
	group.Get("/status/export", middleware.RequireReviewer(), h.controller.ExportStatuses)
	group.Get("/records/:id", h.controller.Get)
	group.Get("/units/:unitId", h.controller.ListByUnit)
	group.Post("/units/:unitId/:type/reset", h.controller.Reset)
	group.Post("/:type/:id/review", middleware.RequireReviewer(), h.controller.Review)
}
