package system

import (
	"context"
	"time"

	"sk-pengajuan/internal/database"
	"sk-pengajuan/internal/features/pengajuan"
	"sk-pengajuan/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SystemController struct {
	db     *database.MongodbDB
	logger *zap.Logger
}

func NewSystemController(db *database.MongodbDB, logger *zap.Logger) *SystemController {
	return &SystemController{db: db, logger: logger}
}

// Health godoc
// @Summary      Liveness and database reachability
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *SystemController) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.db.Client.Ping(ctx, nil); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "degraded",
			"database": "unreachable",
		})
	}
	return c.JSON(fiber.Map{"status": "ok", "database": "ok"})
}

// Me godoc
// @Summary      Resolved actor of the current token
// @Description  Echoes the role and unit the server resolved from the token, with the submission states the role reviews
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/me [get]
func (h *SystemController) Me(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	return c.JSON(fiber.Map{
		"actor":        actor,
		"is_reviewer":  actor.Role.IsReviewer(),
		"review_queue": pengajuan.ReviewQueue(actor.Role),
	})
}
