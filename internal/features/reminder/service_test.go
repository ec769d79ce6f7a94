package reminder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	common_models "sk-pengajuan/internal/common/models"
	"sk-pengajuan/internal/features/notification"

	"go.uber.org/zap"
)

type MockRunRepo struct {
	runs []Run
}

func (m *MockRunRepo) CreateRun(ctx context.Context, run *Run) error {
	m.runs = append(m.runs, *run)
	return nil
}

func (m *MockRunRepo) UpdateRun(ctx context.Context, run *Run) error {
	m.runs[len(m.runs)-1] = *run
	return nil
}

func (m *MockRunRepo) ListRuns(ctx context.Context, limit int64) ([]Run, error) {
	return m.runs, nil
}

type staticQueues map[common_models.Role]int64

func (q staticQueues) QueueSizes(ctx context.Context) (map[common_models.Role]int64, error) {
	return q, nil
}

type failingQueues struct{}

func (failingQueues) QueueSizes(ctx context.Context) (map[common_models.Role]int64, error) {
	return nil, errors.New("mongo unavailable")
}

type MockRoleNotifier struct {
	sent map[common_models.Role]notification.Draft
	fail common_models.Role
}

func (m *MockRoleNotifier) NotifyRole(ctx context.Context, role common_models.Role, d notification.Draft) error {
	if role == m.fail {
		return errors.New("hub closed")
	}
	m.sent[role] = d
	return nil
}

type MockAuditor struct {
	actions []common_models.AuditAction
}

func (m *MockAuditor) LogChange(ctx context.Context, actor common_models.Actor, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	m.actions = append(m.actions, action)
	return nil
}

var fixedNow = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

func newTestService(queues QueueCounter, notifier *MockRoleNotifier) (*ReminderServiceImpl, *MockRunRepo, *MockAuditor) {
	repo := &MockRunRepo{}
	auditor := &MockAuditor{}
	return &ReminderServiceImpl{
		repo:     repo,
		queues:   queues,
		notifier: notifier,
		audit:    auditor,
		logger:   zap.NewNop(),
		now:      func() time.Time { return fixedNow },
	}, repo, auditor
}

func TestRunOnceNotifiesNonEmptyQueues(t *testing.T) {
	t.Parallel()

	notifier := &MockRoleNotifier{sent: map[common_models.Role]notification.Draft{}}
	svc, repo, auditor := newTestService(staticQueues{
		common_models.RoleOKK:     3,
		common_models.RoleSekjend: 0,
		common_models.RoleKetum:   1,
	}, notifier)

	run, err := svc.RunOnce(context.Background(), "schedule")
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if run.Status != RunStatusSuccess || run.EndTime == nil {
		t.Errorf("run = %+v, want finished success", run)
	}
	if len(notifier.sent) != 2 {
		t.Fatalf("notified %d roles, want 2", len(notifier.sent))
	}
	if _, ok := notifier.sent[common_models.RoleSekjend]; ok {
		t.Error("empty queue must not be reminded")
	}
	if d := notifier.sent[common_models.RoleOKK]; !strings.Contains(d.Message, "3") || d.Type != notification.NotificationTypeTask {
		t.Errorf("okk reminder = %+v", d)
	}
	if len(repo.runs) != 1 || repo.runs[0].Status != RunStatusSuccess {
		t.Errorf("stored runs = %+v", repo.runs)
	}
	if len(auditor.actions) != 1 || auditor.actions[0] != common_models.AuditActionCron {
		t.Errorf("audit actions = %v", auditor.actions)
	}
}

func TestRunOnceRecordsFailures(t *testing.T) {
	t.Parallel()

	t.Run("queue count fails", func(t *testing.T) {
		notifier := &MockRoleNotifier{sent: map[common_models.Role]notification.Draft{}}
		svc, repo, _ := newTestService(failingQueues{}, notifier)

		run, err := svc.RunOnce(context.Background(), "okk-1")
		if err == nil {
			t.Fatal("RunOnce() should fail when queues cannot be counted")
		}
		if run.Status != RunStatusFailed || run.Error == "" || repo.runs[0].Status != RunStatusFailed {
			t.Errorf("run = %+v", run)
		}
		if len(notifier.sent) != 0 {
			t.Error("nothing should be sent")
		}
	})

	t.Run("one role fails", func(t *testing.T) {
		notifier := &MockRoleNotifier{sent: map[common_models.Role]notification.Draft{}, fail: common_models.RoleOKK}
		svc, _, _ := newTestService(staticQueues{
			common_models.RoleOKK:   2,
			common_models.RoleKetum: 1,
		}, notifier)

		run, err := svc.RunOnce(context.Background(), "schedule")
		if err == nil {
			t.Fatal("RunOnce() should report the failed role")
		}
		if len(run.Notified) != 1 || run.Notified[0] != common_models.RoleKetum {
			t.Errorf("Notified = %v, want [ketum]", run.Notified)
		}
	})
}

func TestSchedulerLifecycle(t *testing.T) {
	t.Parallel()

	notifier := &MockRoleNotifier{sent: map[common_models.Role]notification.Draft{}}
	svc, _, _ := newTestService(staticQueues{}, notifier)

	svc.schedule = "not a schedule"
	if err := svc.Start(); err == nil {
		t.Error("Start() should reject an invalid schedule")
	}

	svc.schedule = "0 8 * * *"
	if err := svc.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := svc.Start(); err == nil {
		t.Error("second Start() should fail")
	}
	next := svc.NextRun()
	if next == nil || next.Hour() != 8 || next.Minute() != 0 {
		t.Errorf("NextRun() = %v, want 08:00", next)
	}

	svc.Stop()
	if svc.NextRun() != nil {
		t.Error("NextRun() should be nil after Stop")
	}
}

func TestEmptyScheduleDisablesReminder(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(staticQueues{}, &MockRoleNotifier{})
	if err := svc.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if svc.NextRun() != nil {
		t.Error("disabled reminder has no next run")
	}
	svc.Stop()
}
