package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	common_models "sk-pengajuan/internal/common/models"
	"sk-pengajuan/internal/config"
	"sk-pengajuan/internal/features/audit"
	"sk-pengajuan/internal/features/notification"
	"sk-pengajuan/internal/features/pengajuan"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	auditModule     = "reminder"
	scheduleTrigger = "schedule"
)

// QueueCounter reports how many submissions wait on each reviewer role.
type QueueCounter interface {
	QueueSizes(ctx context.Context) (map[common_models.Role]int64, error)
}

type RoleNotifier interface {
	NotifyRole(ctx context.Context, role common_models.Role, d notification.Draft) error
}

type Auditor interface {
	LogChange(ctx context.Context, actor common_models.Actor, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error
}

type ReminderService interface {
	Start() error
	Stop()
	RunOnce(ctx context.Context, trigger string) (*Run, error)
	ListRuns(ctx context.Context, limit int64) ([]Run, error)
	NextRun() *time.Time
}

type ReminderServiceImpl struct {
	repo     RunRepository
	queues   QueueCounter
	notifier RoleNotifier
	audit    Auditor
	logger   *zap.Logger
	schedule string
	now      func() time.Time

	scheduler *cron.Cron
	entry     cron.EntryID
	mu        sync.Mutex
}

func NewReminderService(
	repo RunRepository,
	submissions pengajuan.SubmissionService,
	notifier notification.NotificationService,
	auditService audit.AuditService,
	cfg *config.Config,
	logger *zap.Logger,
) ReminderService {
	return &ReminderServiceImpl{
		repo:     repo,
		queues:   submissions,
		notifier: notifier,
		audit:    auditService,
		logger:   logger,
		schedule: cfg.ReminderSchedule,
		now:      time.Now,
	}
}

// Start registers the reminder on the configured schedule. An empty schedule
// disables it.
func (s *ReminderServiceImpl) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("Review reminder disabled")
		return nil
	}
	if s.scheduler != nil {
		return fmt.Errorf("reminder scheduler already started")
	}

	scheduler := cron.New()
	entry, err := scheduler.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(context.Background(), scheduleTrigger); err != nil {
			s.logger.Error("Scheduled review reminder failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.schedule, err)
	}

	s.scheduler = scheduler
	s.entry = entry
	scheduler.Start()
	s.logger.Info("Review reminder scheduled", zap.String("schedule", s.schedule))
	return nil
}

// Stop waits for a running reminder to finish.
func (s *ReminderServiceImpl) Stop() {
	s.mu.Lock()
	scheduler := s.scheduler
	s.scheduler = nil
	s.mu.Unlock()

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
}

func (s *ReminderServiceImpl) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler == nil {
		return nil
	}
	next := s.scheduler.Entry(s.entry).Next
	if next.IsZero() {
		// the scheduler fills Next in once its loop has started
		sched, err := cron.ParseStandard(s.schedule)
		if err != nil {
			return nil
		}
		next = sched.Next(s.now())
	}
	return &next
}

// RunOnce notifies every reviewer role whose queue is not empty and records
// the run. Notification failures fail the run but do not stop other roles
// from being reminded.
func (s *ReminderServiceImpl) RunOnce(ctx context.Context, trigger string) (*Run, error) {
	run := &Run{
		Trigger:   trigger,
		StartTime: s.now(),
		Status:    RunStatusRunning,
	}
	if err := s.repo.CreateRun(ctx, run); err != nil {
		s.logger.Warn("Failed to record reminder run", zap.Error(err))
	}

	execErr := s.remind(ctx, run)

	end := s.now()
	run.EndTime = &end
	run.Status = RunStatusSuccess
	if execErr != nil {
		run.Status = RunStatusFailed
		run.Error = execErr.Error()
	}
	if err := s.repo.UpdateRun(ctx, run); err != nil {
		s.logger.Warn("Failed to update reminder run", zap.String("run_id", run.ID.Hex()), zap.Error(err))
	}

	actor := common_models.Actor{ID: audit.SystemActorID}
	if err := s.audit.LogChange(ctx, actor, common_models.AuditActionCron, auditModule, run.ID.Hex(), map[string]common_models.Change{
		"status":   {New: run.Status},
		"notified": {New: run.Notified},
		"error":    {New: run.Error},
	}); err != nil {
		s.logger.Warn("Failed to write audit log", zap.Error(err))
	}

	s.logger.Info("Review reminder finished",
		zap.String("run_id", run.ID.Hex()),
		zap.String("trigger", trigger),
		zap.String("status", string(run.Status)),
		zap.Int("notified", len(run.Notified)),
	)
	return run, execErr
}

func (s *ReminderServiceImpl) remind(ctx context.Context, run *Run) error {
	sizes, err := s.queues.QueueSizes(ctx)
	if err != nil {
		return fmt.Errorf("failed to count review queues: %w", err)
	}
	run.Queues = sizes

	var firstErr error
	for _, role := range common_models.Roles {
		n := sizes[role]
		if n == 0 {
			continue
		}
		err := s.notifier.NotifyRole(ctx, role, notification.Draft{
			Title:   "Pengajuan SK menunggu",
			Message: fmt.Sprintf("%d pengajuan SK menunggu tindakan Anda.", n),
			Type:    notification.NotificationTypeTask,
			Link:    "/pengajuan/queue",
		})
		if err != nil {
			s.logger.Warn("Failed to send review reminder", zap.String("role", string(role)), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		run.Notified = append(run.Notified, role)
	}
	return firstErr
}

func (s *ReminderServiceImpl) ListRuns(ctx context.Context, limit int64) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListRuns(ctx, limit)
}
