package notification

import (
	"strconv"

	"sk-pengajuan/internal/common/apperror"
	common_models "sk-pengajuan/internal/common/models"
	"sk-pengajuan/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type NotificationController struct {
	service NotificationService
	hub     *Hub
	logger  *zap.Logger
}

func NewNotificationController(service NotificationService, hub *Hub, logger *zap.Logger) *NotificationController {
	return &NotificationController{
		service: service,
		hub:     hub,
		logger:  logger,
	}
}

// List godoc
// @Summary List notifications for the current actor
// @Tags notifications
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Router /api/notifications [get]
func (c *NotificationController) List(ctx *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(ctx)

	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "10"), 10, 64)

	notifications, total, err := c.service.List(ctx.UserContext(), actor, page, limit)
	if err != nil {
		return apperror.Respond(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"data":  notifications,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetUnreadCount godoc
// @Summary Count unread notifications
// @Tags notifications
// @Produce json
// @Router /api/notifications/unread-count [get]
func (c *NotificationController) GetUnreadCount(ctx *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(ctx)

	count, err := c.service.UnreadCount(ctx.UserContext(), actor)
	if err != nil {
		return apperror.Respond(ctx, err)
	}

	return ctx.JSON(fiber.Map{"count": count})
}

// MarkAsRead godoc
// @Summary Mark one notification as read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Router /api/notifications/{id}/read [put]
func (c *NotificationController) MarkAsRead(ctx *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(ctx)

	if err := c.service.MarkAsRead(ctx.UserContext(), actor, ctx.Params("id")); err != nil {
		return apperror.Respond(ctx, err)
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}

// MarkAllAsRead godoc
// @Summary Mark every notification as read
// @Tags notifications
// @Router /api/notifications/mark-all-read [post]
func (c *NotificationController) MarkAllAsRead(ctx *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(ctx)

	if err := c.service.MarkAllAsRead(ctx.UserContext(), actor); err != nil {
		return apperror.Respond(ctx, err)
	}

	return ctx.JSON(fiber.Map{"status": "success"})
}

// Stream pushes the actor's new notifications over the websocket until either side closes.
func (c *NotificationController) Stream(conn *websocket.Conn) {
	actor, ok := conn.Locals(string(common_models.ActorKey)).(common_models.Actor)
	if !ok {
		_ = conn.Close()
		return
	}

	sub := c.hub.Subscribe(AudienceOf(actor))
	if sub == nil {
		_ = conn.Close()
		return
	}
	defer sub.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case n, ok := <-sub.C():
			if !ok {
				return
			}
			if err := conn.WriteJSON(n); err != nil {
				c.logger.Debug("Websocket write failed", zap.String("actor_id", actor.ID), zap.Error(err))
				return
			}
		case <-closed:
			return
		}
	}
}
