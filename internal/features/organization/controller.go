package organization

import (
	"sk-pengajuan/internal/common/api"
	"sk-pengajuan/internal/common/apperror"
	"sk-pengajuan/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UnitController struct {
	Service UnitService
}

func NewUnitController(service UnitService) *UnitController {
	return &UnitController{Service: service}
}

// GetMine godoc
// @Summary Get own unit profile
// @Tags units
// @Produce json
// @Success 200 {object} Unit
// @Router /api/units/me [get]
func (ctrl *UnitController) GetMine(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	unit, err := ctrl.Service.GetMine(c.UserContext(), actor)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(unit)
}

// SaveMine godoc
// @Summary Create or update own unit profile
// @Tags units
// @Accept json
// @Produce json
// @Param unit body UnitInput true "Unit profile"
// @Success 200 {object} Unit
// @Router /api/units/me [put]
func (ctrl *UnitController) SaveMine(c *fiber.Ctx) error {
	var input UnitInput
	if err := api.BindJSON(c, &input); err != nil {
		return apperror.Respond(c, err)
	}

	actor, _ := middleware.ActorFrom(c)
	unit, err := ctrl.Service.SaveMine(c.UserContext(), actor, input)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(unit)
}

// Get godoc
// @Summary Get a unit profile
// @Tags units
// @Produce json
// @Param id path string true "Unit ID"
// @Success 200 {object} Unit
// @Router /api/units/{id} [get]
func (ctrl *UnitController) Get(c *fiber.Ctx) error {
	unit, err := ctrl.Service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(unit)
}
