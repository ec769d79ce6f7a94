package administrasi

import (
	"sk-pengajuan/internal/common/api"
	"sk-pengajuan/internal/common/apperror"
	common_models "sk-pengajuan/internal/common/models"
	"sk-pengajuan/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RecordController struct {
	Service RecordService
}

func NewRecordController(service RecordService) *RecordController {
	return &RecordController{Service: service}
}

type ReviewRequest struct {
	Decision common_models.Decision `json:"decision" validate:"required,oneof=approve reject"`
	Notes    string                 `json:"notes"`
}

// SaveBank godoc
// @Summary Save the unit's bank account
// @Tags administrasi
// @Accept json
// @Produce json
// @Param bank body BankAccount true "Bank account"
// @Success 200 {object} Record
// @Failure 400 {object} map[string]string
// @Router /api/administrasi/me/bank [put]
func (ctrl *RecordController) SaveBank(c *fiber.Ctx) error {
	var req BankAccount
	return ctrl.save(c, &req, func() Fields { return req })
}

// SaveOffice godoc
// @Summary Save the unit's office address
// @Tags administrasi
// @Accept json
// @Produce json
// @Param office body OfficeAddress true "Office address"
// @Success 200 {object} Record
// @Router /api/administrasi/me/office [put]
func (ctrl *RecordController) SaveOffice(c *fiber.Ctx) error {
	var req OfficeAddress
	return ctrl.save(c, &req, func() Fields { return req })
}

// SaveLegality godoc
// @Summary Save the unit's office legality document
// @Tags administrasi
// @Accept json
// @Produce json
// @Param legality body OfficeLegality true "Office legality"
// @Success 200 {object} Record
// @Router /api/administrasi/me/legality [put]
func (ctrl *RecordController) SaveLegality(c *fiber.Ctx) error {
	var req OfficeLegality
	return ctrl.save(c, &req, func() Fields { return req })
}

func (ctrl *RecordController) save(c *fiber.Ctx, req any, fields func() Fields) error {
	if err := api.BindJSON(c, req); err != nil {
		return apperror.Respond(c, err)
	}

	actor, _ := middleware.ActorFrom(c)
	rec, err := ctrl.Service.Upsert(c.UserContext(), actor, fields())
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(rec)
}

// MyStatus godoc
// @Summary Review state of the unit's three administrative documents
// @Tags administrasi
// @Produce json
// @Success 200 {object} MyStatus
// @Router /api/administrasi/me [get]
func (ctrl *RecordController) MyStatus(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	status, err := ctrl.Service.MyStatus(c.UserContext(), actor)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(status)
}

// ListByUnit godoc
// @Summary Administrative records of a unit
// @Tags administrasi
// @Produce json
// @Param unitId path string true "Unit ID"
// @Success 200 {array} Record
// @Router /api/administrasi/units/{unitId} [get]
func (ctrl *RecordController) ListByUnit(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	unitID := c.Params("unitId")
	records, err := ctrl.Service.ListByUnit(c.UserContext(), actor, unitID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	overall, err := ctrl.Service.GetOverallStatus(c.UserContext(), unitID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"data":           records,
		"overall_status": overall,
	})
}

// Get godoc
// @Summary Get an administrative record
// @Tags administrasi
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} Record
// @Failure 404 {object} map[string]string
// @Router /api/administrasi/records/{id} [get]
func (ctrl *RecordController) Get(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	rec, err := ctrl.Service.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(rec)
}

// Review godoc
// @Summary Approve or reject an administrative record
// @Tags administrasi
// @Accept json
// @Produce json
// @Param type path string true "bank, office or legality"
// @Param id path string true "Record ID"
// @Param review body ReviewRequest true "Decision"
// @Success 200 {object} Record
// @Failure 409 {object} map[string]string
// @Router /api/administrasi/{type}/{id}/review [post]
func (ctrl *RecordController) Review(c *fiber.Ctx) error {
	t, ok := ParseRecordType(c.Params("type"))
	if !ok {
		return apperror.Respond(c, apperror.Validation("unknown record type %q", c.Params("type")))
	}

	var req ReviewRequest
	if err := api.BindJSON(c, &req); err != nil {
		return apperror.Respond(c, err)
	}

	actor, _ := middleware.ActorFrom(c)
	rec, err := ctrl.Service.Review(c.UserContext(), actor, c.Params("id"), t, req.Decision, req.Notes)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(rec)
}

// Reset godoc
// @Summary Return a decided record of a unit to pending
// @Tags administrasi
// @Produce json
// @Param unitId path string true "Unit ID"
// @Param type path string true "bank, office or legality"
// @Success 200 {object} Record
// @Router /api/administrasi/units/{unitId}/{type}/reset [post]
func (ctrl *RecordController) Reset(c *fiber.Ctx) error {
	t, ok := ParseRecordType(c.Params("type"))
	if !ok {
		return apperror.Respond(c, apperror.Validation("unknown record type %q", c.Params("type")))
	}

	actor, _ := middleware.ActorFrom(c)
	rec, err := ctrl.Service.ResetTrack(c.UserContext(), actor, c.Params("unitId"), t)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(rec)
}

func statusFilter(c *fiber.Ctx) (StatusFilter, error) {
	raw := c.Query("overall_status")
	if raw == "" {
		return StatusFilter{}, nil
	}
	overall, ok := ParseOverallStatus(raw)
	if !ok {
		return StatusFilter{}, apperror.Validation("unknown overall status %q", raw)
	}
	return StatusFilter{Overall: overall}, nil
}

// ListStatuses godoc
// @Summary Administrative review state of every unit
// @Tags administrasi
// @Produce json
// @Param overall_status query string false "incomplete, has_rejection, pending or all_approved"
// @Success 200 {array} UnitStatus
// @Router /api/administrasi/status [get]
func (ctrl *RecordController) ListStatuses(c *fiber.Ctx) error {
	filter, err := statusFilter(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	rows, err := ctrl.Service.ListStatuses(c.UserContext(), filter)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{"data": rows, "total": len(rows)})
}

// ExportStatuses godoc
// @Summary Export the administrative review state of every unit
// @Tags administrasi
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param overall_status query string false "incomplete, has_rejection, pending or all_approved"
// @Router /api/administrasi/status/export [get]
func (ctrl *RecordController) ExportStatuses(c *fiber.Ctx) error {
	filter, err := statusFilter(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	data, filename, err := ctrl.Service.ExportStatuses(c.UserContext(), filter)
	if err != nil {
		return apperror.Respond(c, err)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}
