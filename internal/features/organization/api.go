package organization

import (
	"sk-pengajuan/internal/common/api"
	"sk-pengajuan/internal/config"
	"sk-pengajuan/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UnitApi struct {
	controller *UnitController
	config     *config.Config
}

func NewUnitApi(controller *UnitController, config *config.Config) api.Route {
	return &UnitApi{
		controller: controller,
		config:     config,
	}
}

func (h *UnitApi) Setup(app *fiber.App) {
	group := app.Group("/api/units", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/me", h.controller.GetMine)
	group.Put("/me", h.controller.SaveMine)
	group.Get("/:id", middleware.RequireReviewer(), h.controller.Get)
}
