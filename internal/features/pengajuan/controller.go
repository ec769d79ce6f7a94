package pengajuan

import (
	"strconv"
	"strings"
	"time"

	"sk-pengajuan/internal/common/api"
	"sk-pengajuan/internal/common/apperror"
	common_models "sk-pengajuan/internal/common/models"
	"sk-pengajuan/internal/features/pengurus"
	"sk-pengajuan/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SubmissionController struct {
	Service SubmissionService
}

func NewSubmissionController(service SubmissionService) *SubmissionController {
	return &SubmissionController{Service: service}
}

type SubmitRequest struct {
	TanggalMusda     string           `json:"tanggal_musda" validate:"required,datetime=2006-01-02"`
	LokasiMusda      string           `json:"lokasi_musda" validate:"required"`
	FileLaporanMusda string           `json:"file_laporan_musda" validate:"required"`
	Pengurus         []pengurus.Entry `json:"pengurus" validate:"required,min=1"`
}

// DraftRequest relaxes SubmitRequest; drafts may be saved incomplete.
type DraftRequest struct {
	TanggalMusda     string           `json:"tanggal_musda" validate:"omitempty,datetime=2006-01-02"`
	LokasiMusda      string           `json:"lokasi_musda"`
	FileLaporanMusda string           `json:"file_laporan_musda"`
	Pengurus         []pengurus.Entry `json:"pengurus"`
}

type ReviewRequest struct {
	Decision common_models.Decision `json:"decision" validate:"required,oneof=approve reject"`
	Note     string                 `json:"note"`
}

func toInput(tanggal, lokasi, file string, list []pengurus.Entry) (SubmitInput, error) {
	in := SubmitInput{LokasiMusda: lokasi, FileLaporanMusda: file, Pengurus: list}
	if tanggal != "" {
		at, err := time.Parse("2006-01-02", tanggal)
		if err != nil {
			return in, apperror.Validation("tanggal_musda must be a YYYY-MM-DD date")
		}
		in.TanggalMusda = at
	}
	return in, nil
}

// Permit rejects actors whose role never performs action before the body is
// read, so a wrong role gets the access-denied reason rather than a field error.
func (ctrl *SubmissionController) Permit(action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return apperror.Respond(c, apperror.Unauthorized("no actor resolved for this request"))
		}
		if !CanPerform(actor.Role, action) {
			return apperror.Respond(c, apperror.Unauthorized("role %q may not %s a submission", actor.Role, action))
		}
		return c.Next()
	}
}

// SaveDraft godoc
// @Summary Save the MUSDA data of a draft submission
// @Tags pengajuan
// @Accept json
// @Produce json
// @Param draft body DraftRequest true "Draft"
// @Success 200 {object} Submission
// @Router /api/pengajuan/draft [put]
func (ctrl *SubmissionController) SaveDraft(c *fiber.Ctx) error {
	var req DraftRequest
	if err := api.BindJSON(c, &req); err != nil {
		return apperror.Respond(c, err)
	}

	actor, _ := middleware.ActorFrom(c)
	in, err := toInput(req.TanggalMusda, req.LokasiMusda, req.FileLaporanMusda, req.Pengurus)
	if err != nil {
		return apperror.Respond(c, err)
	}
	sub, err := ctrl.Service.SaveDraft(c.UserContext(), actor, in)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(sub)
}

// Submit godoc
// @Summary Submit the MUSDA report and pengurus roster
// @Tags pengajuan
// @Accept json
// @Produce json
// @Param submission body SubmitRequest true "Report and roster"
// @Success 201 {object} Submission
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/pengajuan/submit [post]
func (ctrl *SubmissionController) Submit(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := api.BindJSON(c, &req); err != nil {
		return apperror.Respond(c, err)
	}

	actor, _ := middleware.ActorFrom(c)
	in, err := toInput(req.TanggalMusda, req.LokasiMusda, req.FileLaporanMusda, req.Pengurus)
	if err != nil {
		return apperror.Respond(c, err)
	}
	sub, err := ctrl.Service.SubmitReportAndRoster(c.UserContext(), actor, in)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// Resubmit godoc
// @Summary Resubmit a rejected submission, optionally with corrected data
// @Tags pengajuan
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param submission body SubmitRequest false "Corrected report and roster"
// @Success 200 {object} Submission
// @Router /api/pengajuan/{id}/resubmit [post]
func (ctrl *SubmissionController) Resubmit(c *fiber.Ctx) error {
	var in *SubmitInput
	if len(c.Body()) > 0 {
		var req SubmitRequest
		if err := api.BindJSON(c, &req); err != nil {
			return apperror.Respond(c, err)
		}
		parsed, err := toInput(req.TanggalMusda, req.LokasiMusda, req.FileLaporanMusda, req.Pengurus)
		if err != nil {
			return apperror.Respond(c, err)
		}
		in = &parsed
	}

	actor, _ := middleware.ActorFrom(c)
	sub, err := ctrl.Service.Resubmit(c.UserContext(), actor, c.Params("id"), in)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(sub)
}

// Review godoc
// @Summary Approve or reject a submission at the actor's review stage
// @Tags pengajuan
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param review body ReviewRequest true "Decision"
// @Success 200 {object} Submission
// @Router /api/pengajuan/{id}/review [post]
func (ctrl *SubmissionController) Review(c *fiber.Ctx) error {
	var req ReviewRequest
	if err := api.BindJSON(c, &req); err != nil {
		return apperror.Respond(c, err)
	}

	actor, _ := middleware.ActorFrom(c)
	sub, err := ctrl.Service.Review(c.UserContext(), actor, c.Params("id"), req.Decision, req.Note)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(sub)
}

// Publish godoc
// @Summary Publish the SK of a Ketum-approved submission
// @Tags pengajuan
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} Submission
// @Router /api/pengajuan/{id}/publish [post]
func (ctrl *SubmissionController) Publish(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	sub, err := ctrl.Service.PublishDecree(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(sub)
}

// GetActive godoc
// @Summary Get the owner's active submission
// @Tags pengajuan
// @Produce json
// @Success 200 {object} Submission
// @Router /api/pengajuan/active [get]
func (ctrl *SubmissionController) GetActive(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	sub, err := ctrl.Service.GetActive(c.UserContext(), actor)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"data":            sub,
		"status_label":    sub.Status.Label(),
		"allowed_actions": AllowedActions(actor.Role, sub.Status),
	})
}

// MyProgress godoc
// @Summary Progress of the owner's active submission
// @Tags pengajuan
// @Produce json
// @Success 200 {object} Progress
// @Router /api/pengajuan/progress [get]
func (ctrl *SubmissionController) MyProgress(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	p, err := ctrl.Service.MyProgress(c.UserContext(), actor)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(p)
}

// Get godoc
// @Summary Get a submission
// @Tags pengajuan
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} Submission
// @Router /api/pengajuan/{id} [get]
func (ctrl *SubmissionController) Get(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	sub, err := ctrl.Service.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"data":            sub,
		"status_label":    sub.Status.Label(),
		"gender_stats":    pengurus.ComputeStats(sub.Pengurus),
		"allowed_actions": AllowedActions(actor.Role, sub.Status),
	})
}

// GetProgress godoc
// @Summary Progress of a submission
// @Tags pengajuan
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} Progress
// @Router /api/pengajuan/{id}/progress [get]
func (ctrl *SubmissionController) GetProgress(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	p, err := ctrl.Service.GetProgress(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(p)
}

// History godoc
// @Summary Transition history of a submission
// @Tags pengajuan
// @Produce json
// @Param id path string true "Submission ID"
// @Router /api/pengajuan/{id}/history [get]
func (ctrl *SubmissionController) History(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	logs, err := ctrl.Service.History(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(logs)
}

// ExportRoster godoc
// @Summary Download the roster of a submission as XLSX
// @Tags pengajuan
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Submission ID"
// @Router /api/pengajuan/{id}/pengurus/export [get]
func (ctrl *SubmissionController) ExportRoster(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	data, filename, err := ctrl.Service.ExportRoster(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return apperror.Respond(c, err)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

// List godoc
// @Summary List submissions
// @Tags pengajuan
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Router /api/pengajuan [get]
func (ctrl *SubmissionController) List(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	filter := ListFilter{Limit: limit, Offset: (page - 1) * limit}
	for _, raw := range splitCSV(c.Query("status")) {
		st, ok := ParseStatus(raw)
		if !ok {
			return apperror.Respond(c, apperror.Validation("unknown status %q", raw))
		}
		filter.Statuses = append(filter.Statuses, st)
	}

	actor, _ := middleware.ActorFrom(c)
	list, total, err := ctrl.Service.List(c.UserContext(), actor, filter)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"data":  list,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Queue godoc
// @Summary Submissions waiting on the actor's role
// @Tags pengajuan
// @Produce json
// @Router /api/pengajuan/queue [get]
func (ctrl *SubmissionController) Queue(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	list, total, err := ctrl.Service.Queue(c.UserContext(), actor)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{"data": list, "total": total})
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
