package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"sk-pengajuan/internal/common/apperror"
	common_models "sk-pengajuan/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type MockNotificationRepo struct {
	items []Notification
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *Notification) error {
	n.ID = primitive.NewObjectID()
	m.items = append(m.items, *n)
	return nil
}

func (m *MockNotificationRepo) visible(aud Audience) []int {
	var idx []int
	for i, n := range m.items {
		if aud.Matches(n) {
			idx = append(idx, i)
		}
	}
	return idx
}

func (m *MockNotificationRepo) List(ctx context.Context, aud Audience, limit, offset int64) ([]Notification, int64, error) {
	var out []Notification
	for _, i := range m.visible(aud) {
		out = append(out, m.items[i])
	}
	return out, int64(len(out)), nil
}

func (m *MockNotificationRepo) CountUnread(ctx context.Context, aud Audience, actorID string) (int64, error) {
	var count int64
	for _, i := range m.visible(aud) {
		n := m.items[i]
		n.markReadFor(actorID)
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *MockNotificationRepo) MarkRead(ctx context.Context, id string, aud Audience, actorID string) error {
	for _, i := range m.visible(aud) {
		if m.items[i].ID.Hex() == id {
			m.items[i].ReadBy = append(m.items[i].ReadBy, actorID)
			return nil
		}
	}
	return apperror.NotFound("notification %s", id)
}

func (m *MockNotificationRepo) MarkAllRead(ctx context.Context, aud Audience, actorID string) error {
	for _, i := range m.visible(aud) {
		m.items[i].ReadBy = append(m.items[i].ReadBy, actorID)
	}
	return nil
}

func (m *MockNotificationRepo) EnsureIndexes(ctx context.Context) error { return nil }

type recordingPublisher struct {
	published []Notification
}

func (p *recordingPublisher) Publish(n Notification) {
	p.published = append(p.published, n)
}

func newTestService() (*NotificationServiceImpl, *MockNotificationRepo, *recordingPublisher) {
	repo := &MockNotificationRepo{}
	pub := &recordingPublisher{}
	return &NotificationServiceImpl{
		Repo:      repo,
		Publisher: pub,
		Logger:    zap.NewNop(),
		now:       func() time.Time { return time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC) },
	}, repo, pub
}

func TestNotifyStoresAndPublishes(t *testing.T) {
	svc, repo, pub := newTestService()
	ctx := context.Background()

	if err := svc.NotifyUnit(ctx, "unit-1", Draft{Title: "SK terbit"}); err != nil {
		t.Fatalf("NotifyUnit() error = %v", err)
	}
	if err := svc.NotifyRole(ctx, common_models.RoleSekjend, Draft{Title: "Menunggu persetujuan", Type: NotificationTypeTask}); err != nil {
		t.Fatalf("NotifyRole() error = %v", err)
	}

	if len(repo.items) != 2 || len(pub.published) != 2 {
		t.Fatalf("stored %d, published %d; want 2 each", len(repo.items), len(pub.published))
	}
	if repo.items[0].Type != NotificationTypeInfo {
		t.Errorf("default type = %q, want info", repo.items[0].Type)
	}
	if pub.published[1].ID.IsZero() {
		t.Error("published notification should carry its stored id")
	}
}

func TestNotifyRejectsBadRecipients(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	if err := svc.NotifyUnit(ctx, "", Draft{Title: "x"}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("NotifyUnit(\"\") error = %v, want ErrValidation", err)
	}
	if err := svc.NotifyRole(ctx, common_models.RoleOwner, Draft{Title: "x"}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("NotifyRole(owner) error = %v, want ErrValidation", err)
	}
	if len(repo.items) != 0 {
		t.Errorf("rejected notifications must not be stored, got %d", len(repo.items))
	}
}

func TestReadTrackingIsPerActor(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	_ = svc.NotifyRole(ctx, common_models.RoleOKK, Draft{Title: "a"})
	_ = svc.NotifyRole(ctx, common_models.RoleOKK, Draft{Title: "b"})

	alice := common_models.Actor{ID: "okk-a", Role: common_models.RoleOKK}
	bob := common_models.Actor{ID: "okk-b", Role: common_models.RoleOKK}

	if err := svc.MarkAsRead(ctx, alice, repo.items[0].ID.Hex()); err != nil {
		t.Fatalf("MarkAsRead() error = %v", err)
	}

	if n, _ := svc.UnreadCount(ctx, alice); n != 1 {
		t.Errorf("alice unread = %d, want 1", n)
	}
	if n, _ := svc.UnreadCount(ctx, bob); n != 2 {
		t.Errorf("bob unread = %d, want 2", n)
	}

	items, total, err := svc.List(ctx, alice, 1, 10)
	if err != nil || total != 2 {
		t.Fatalf("List() = %d items, %v", total, err)
	}
	if !items[0].IsRead || items[1].IsRead {
		t.Errorf("IsRead flags = %v, %v; want true, false", items[0].IsRead, items[1].IsRead)
	}

	_ = svc.MarkAllAsRead(ctx, bob)
	if n, _ := svc.UnreadCount(ctx, bob); n != 0 {
		t.Errorf("bob unread after MarkAllAsRead = %d, want 0", n)
	}

	owner := common_models.Actor{ID: "u", Role: common_models.RoleOwner, UnitID: "unit-1"}
	if err := svc.MarkAsRead(ctx, owner, repo.items[0].ID.Hex()); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("owner marking a reviewer notification error = %v, want ErrNotFound", err)
	}
}
