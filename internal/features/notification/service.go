package notification

import (
	"context"
	"time"

	"sk-pengajuan/internal/common/apperror"
	common_models "sk-pengajuan/internal/common/models"

	"go.uber.org/zap"
)

type NotificationService interface {
	NotifyUnit(ctx context.Context, unitID string, d Draft) error
	NotifyRole(ctx context.Context, role common_models.Role, d Draft) error
	List(ctx context.Context, actor common_models.Actor, page, limit int64) ([]Notification, int64, error)
	UnreadCount(ctx context.Context, actor common_models.Actor) (int64, error)
	MarkAsRead(ctx context.Context, actor common_models.Actor, id string) error
	MarkAllAsRead(ctx context.Context, actor common_models.Actor) error
}

type NotificationServiceImpl struct {
	Repo      NotificationRepository
	Publisher Publisher
	Logger    *zap.Logger
	now       func() time.Time
}

func NewNotificationService(repo NotificationRepository, hub *Hub, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		Repo:      repo,
		Publisher: hub,
		Logger:    logger,
		now:       time.Now,
	}
}

func (s *NotificationServiceImpl) NotifyUnit(ctx context.Context, unitID string, d Draft) error {
	if unitID == "" {
		return apperror.Validation("notification recipient unit is required")
	}
	return s.deliver(ctx, Notification{RecipientUnitID: unitID}, d)
}

func (s *NotificationServiceImpl) NotifyRole(ctx context.Context, role common_models.Role, d Draft) error {
	if !role.IsReviewer() {
		return apperror.Validation("role notifications are only sent to reviewers, got %q", role)
	}
	return s.deliver(ctx, Notification{RecipientRole: role}, d)
}

func (s *NotificationServiceImpl) deliver(ctx context.Context, n Notification, d Draft) error {
	if d.Type == "" {
		d.Type = NotificationTypeInfo
	}
	n.Title = d.Title
	n.Message = d.Message
	n.Type = d.Type
	n.Link = d.Link
	n.ReadBy = []string{}
	n.CreatedAt = s.now()

	if err := s.Repo.Create(ctx, &n); err != nil {
		s.Logger.Error("Failed to store notification", zap.String("title", n.Title), zap.Error(err))
		return err
	}
	if s.Publisher != nil {
		s.Publisher.Publish(n)
	}
	return nil
}

func (s *NotificationServiceImpl) List(ctx context.Context, actor common_models.Actor, page, limit int64) ([]Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	items, total, err := s.Repo.List(ctx, AudienceOf(actor), limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].markReadFor(actor.ID)
	}
	return items, total, nil
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, actor common_models.Actor) (int64, error) {
	return s.Repo.CountUnread(ctx, AudienceOf(actor), actor.ID)
}

func (s *NotificationServiceImpl) MarkAsRead(ctx context.Context, actor common_models.Actor, id string) error {
	return s.Repo.MarkRead(ctx, id, AudienceOf(actor), actor.ID)
}

func (s *NotificationServiceImpl) MarkAllAsRead(ctx context.Context, actor common_models.Actor) error {
	return s.Repo.MarkAllRead(ctx, AudienceOf(actor), actor.ID)
}
