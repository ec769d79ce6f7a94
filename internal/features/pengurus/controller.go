package pengurus

import (
	"sk-pengajuan/internal/common/api"
	"sk-pengajuan/internal/common/apperror"
	"sk-pengajuan/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PengurusController struct {
	Service   CustomJabatanService
	Validator *RosterValidator
}

func NewPengurusController(service CustomJabatanService, validator *RosterValidator) *PengurusController {
	return &PengurusController{Service: service, Validator: validator}
}

type statsRequest struct {
	Pengurus []Entry `json:"pengurus"`
}

// Stats godoc
// @Summary Gender representation of a draft roster
// @Tags pengurus
// @Accept json
// @Produce json
// @Success 200 {object} Stats
// @Router /api/pengurus/stats [post]
func (ctrl *PengurusController) Stats(c *fiber.Ctx) error {
	var req statsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, apperror.Validation("invalid request body"))
	}
	return c.JSON(fiber.Map{
		"stats":         ComputeStats(req.Pengurus),
		"meets_quota":   ctrl.Validator.ValidateGenderRepresentation(req.Pengurus),
		"quota_percent": ctrl.Validator.QuotaPercent,
	})
}

// ListCustomJabatan godoc
// @Summary List the unit's custom jabatan
// @Tags pengurus
// @Produce json
// @Success 200 {array} CustomJabatan
// @Router /api/pengurus/custom-jabatan [get]
func (ctrl *PengurusController) ListCustomJabatan(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	list, err := ctrl.Service.List(c.UserContext(), actor)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(list)
}

// AddCustomJabatan godoc
// @Summary Add a custom jabatan
// @Tags pengurus
// @Accept json
// @Produce json
// @Param jabatan body CustomJabatanInput true "Jabatan"
// @Success 201 {object} CustomJabatan
// @Router /api/pengurus/custom-jabatan [post]
func (ctrl *PengurusController) AddCustomJabatan(c *fiber.Ctx) error {
	var input CustomJabatanInput
	if err := api.BindJSON(c, &input); err != nil {
		return apperror.Respond(c, err)
	}

	actor, _ := middleware.ActorFrom(c)
	cj, err := ctrl.Service.Add(c.UserContext(), actor, input)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cj)
}
