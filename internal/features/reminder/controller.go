package reminder

import (
	"strconv"

	"sk-pengajuan/internal/common/apperror"
	"sk-pengajuan/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReminderController struct {
	Service ReminderService
}

func NewReminderController(service ReminderService) *ReminderController {
	return &ReminderController{Service: service}
}

// ListRuns godoc
// @Summary Recent review reminder runs
// @Tags reminders
// @Produce json
// @Param limit query int false "Limit"
// @Success 200 {array} Run
// @Router /api/reminders/runs [get]
func (ctrl *ReminderController) ListRuns(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	runs, err := ctrl.Service.ListRuns(c.UserContext(), limit)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"data":     runs,
		"next_run": ctrl.Service.NextRun(),
	})
}

// Trigger godoc
// @Summary Send review reminders now
// @Tags reminders
// @Produce json
// @Success 200 {object} Run
// @Router /api/reminders/run [post]
func (ctrl *ReminderController) Trigger(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	run, err := ctrl.Service.RunOnce(c.UserContext(), actor.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
			"run":   run,
		})
	}
	return c.JSON(run)
}
