package pengurus

import (
	"sk-pengajuan/internal/common/api"
	common_models "sk-pengajuan/internal/common/models"
	"sk-pengajuan/internal/config"
	"sk-pengajuan/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PengurusApi struct {
	controller *PengurusController
	config     *config.Config
}

func NewPengurusApi(controller *PengurusController, config *config.Config) api.Route {
	return &PengurusApi{
		controller: controller,
		config:     config,
	}
}

func (h *PengurusApi) Setup(app *fiber.App) {
	group := app.Group("/api/pengurus", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/stats", h.controller.Stats)

	owner := middleware.RequireRole(common_models.RoleOwner)
	group.Get("/custom-jabatan", owner, h.controller.ListCustomJabatan)
	group.Post("/custom-jabatan", owner, h.controller.AddCustomJabatan)
}
