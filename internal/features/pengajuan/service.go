package pengajuan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sk-pengajuan/internal/common/apperror"
	common_models "sk-pengajuan/internal/common/models"
	"sk-pengajuan/internal/features/audit"
	"sk-pengajuan/internal/features/notification"
	"sk-pengajuan/internal/features/pengurus"
	"sk-pengajuan/pkg/utils"

	"go.uber.org/zap"
)

const auditModule = "pengajuan"

// SubmitInput carries the MUSDA report and roster an owner sends in.
// FileLaporanMusda and each FileKTP are opaque storage references.
type SubmitInput struct {
	TanggalMusda     time.Time
	LokasiMusda      string
	FileLaporanMusda string
	Pengurus         []pengurus.Entry
}

// Notifier delivers the side-effect notifications of a transition.
type Notifier interface {
	NotifyUnit(ctx context.Context, unitID string, d notification.Draft) error
	NotifyRole(ctx context.Context, role common_models.Role, d notification.Draft) error
}

// AuditTrail records and replays transitions.
type AuditTrail interface {
	LogChange(ctx context.Context, actor common_models.Actor, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error
	ListHistory(ctx context.Context, module string, recordID string) ([]common_models.AuditLog, error)
}

type SubmissionService interface {
	SaveDraft(ctx context.Context, actor common_models.Actor, in SubmitInput) (*Submission, error)
	SubmitReportAndRoster(ctx context.Context, actor common_models.Actor, in SubmitInput) (*Submission, error)
	Resubmit(ctx context.Context, actor common_models.Actor, id string, in *SubmitInput) (*Submission, error)
	Review(ctx context.Context, actor common_models.Actor, id string, decision common_models.Decision, note string) (*Submission, error)
	PublishDecree(ctx context.Context, actor common_models.Actor, id string) (*Submission, error)

	Get(ctx context.Context, actor common_models.Actor, id string) (*Submission, error)
	GetActive(ctx context.Context, actor common_models.Actor) (*Submission, error)
	GetProgress(ctx context.Context, actor common_models.Actor, id string) (Progress, error)
	MyProgress(ctx context.Context, actor common_models.Actor) (Progress, error)
	List(ctx context.Context, actor common_models.Actor, filter ListFilter) ([]Submission, int64, error)
	Queue(ctx context.Context, actor common_models.Actor) ([]Submission, int64, error)
	QueueSizes(ctx context.Context) (map[common_models.Role]int64, error)
	History(ctx context.Context, actor common_models.Actor, id string) ([]common_models.AuditLog, error)
	ExportRoster(ctx context.Context, actor common_models.Actor, id string) ([]byte, string, error)
}

type SubmissionServiceImpl struct {
	Repo      SubmissionRepository
	Validator *pengurus.RosterValidator
	Notifier  Notifier
	Audit     AuditTrail
	Logger    *zap.Logger
	now       func() time.Time
}

func NewSubmissionService(
	repo SubmissionRepository,
	validator *pengurus.RosterValidator,
	notifier notification.NotificationService,
	auditService audit.AuditService,
	logger *zap.Logger,
) SubmissionService {
	return &SubmissionServiceImpl{
		Repo:      repo,
		Validator: validator,
		Notifier:  notifier,
		Audit:     auditService,
		Logger:    logger,
		now:       time.Now,
	}
}

func validateReport(in SubmitInput) error {
	var missing []string
	if in.TanggalMusda.IsZero() {
		missing = append(missing, "tanggal_musda")
	}
	if strings.TrimSpace(in.LokasiMusda) == "" {
		missing = append(missing, "lokasi_musda")
	}
	if strings.TrimSpace(in.FileLaporanMusda) == "" {
		missing = append(missing, "file_laporan_musda")
	}
	if len(missing) > 0 {
		return apperror.Validation("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func (in SubmitInput) applyTo(s *Submission) {
	s.TanggalMusda = in.TanggalMusda
	s.LokasiMusda = strings.TrimSpace(in.LokasiMusda)
	s.FileLaporanMusda = strings.TrimSpace(in.FileLaporanMusda)
	s.Pengurus = make([]pengurus.Entry, len(in.Pengurus))
	copy(s.Pengurus, in.Pengurus)
}

func requireOwner(actor common_models.Actor, what string) error {
	if actor.Role != common_models.RoleOwner {
		return apperror.Unauthorized("role %q may not %s", actor.Role, what)
	}
	if actor.UnitID == "" {
		return apperror.Unauthorized("actor %s is not bound to an organization unit", actor.ID)
	}
	return nil
}

// current returns the unit's submission in progress, or a fresh unsaved
// draft when the unit has none or its last cycle ended with an SK.
func (s *SubmissionServiceImpl) current(ctx context.Context, unitID string) (Submission, bool, error) {
	active, err := s.Repo.GetActiveByUnit(ctx, unitID)
	if err != nil {
		return Submission{}, false, err
	}
	if active == nil || active.Status.IsTerminal() {
		return NewSubmission(unitID, s.now()), true, nil
	}
	return *active, false, nil
}

func (s *SubmissionServiceImpl) SaveDraft(ctx context.Context, actor common_models.Actor, in SubmitInput) (*Submission, error) {
	if err := requireOwner(actor, "edit a draft"); err != nil {
		return nil, err
	}

	sub, isNew, err := s.current(ctx, actor.UnitID)
	if err != nil {
		return nil, err
	}
	if sub.Status != StatusDraft {
		return nil, &apperror.TransitionError{From: string(sub.Status), Action: "edit draft", Role: string(actor.Role)}
	}

	in.applyTo(&sub)
	sub.UpdatedAt = s.now()

	if isNew {
		err = s.Repo.Create(ctx, &sub)
	} else {
		err = s.Repo.UpdateIfStatus(ctx, &sub, StatusDraft)
	}
	if err != nil {
		return nil, err
	}

	action := common_models.AuditActionUpdate
	if isNew {
		action = common_models.AuditActionCreate
	}
	s.recordAudit(ctx, actor, action, &sub, "", StatusDraft)
	return &sub, nil
}

func (s *SubmissionServiceImpl) SubmitReportAndRoster(ctx context.Context, actor common_models.Actor, in SubmitInput) (*Submission, error) {
	if err := requireOwner(actor, "submit a report"); err != nil {
		return nil, err
	}

	sub, isNew, err := s.current(ctx, actor.UnitID)
	if err != nil {
		return nil, err
	}

	from := sub.Status
	next, err := Apply(sub, actor, ActionSubmit, "", s.now())
	if err != nil {
		return nil, err
	}
	if err := validateReport(in); err != nil {
		return nil, err
	}
	if err := s.Validator.ValidateRoster(in.Pengurus); err != nil {
		return nil, err
	}
	in.applyTo(&next)

	if isNew {
		err = s.Repo.Create(ctx, &next)
	} else {
		err = s.Repo.UpdateIfStatus(ctx, &next, from)
	}
	if err != nil {
		return nil, err
	}

	s.logTransition(&next, from, actor)
	s.recordAudit(ctx, actor, common_models.AuditActionSubmit, &next, string(from), next.Status)
	s.notifyQueued(ctx, &next)
	return &next, nil
}

func (s *SubmissionServiceImpl) Resubmit(ctx context.Context, actor common_models.Actor, id string, in *SubmitInput) (*Submission, error) {
	if err := requireOwner(actor, "resubmit"); err != nil {
		return nil, err
	}

	sub, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	from := sub.Status
	next, err := Apply(*sub, actor, ActionResubmit, "", s.now())
	if err != nil {
		return nil, err
	}
	if in != nil {
		if err := validateReport(*in); err != nil {
			return nil, err
		}
		if err := s.Validator.ValidateRoster(in.Pengurus); err != nil {
			return nil, err
		}
		in.applyTo(&next)
	}

	if err := s.Repo.UpdateIfStatus(ctx, &next, from); err != nil {
		return nil, err
	}

	s.logTransition(&next, from, actor)
	s.recordAudit(ctx, actor, common_models.AuditActionResubmit, &next, string(from), next.Status)
	s.notifyQueued(ctx, &next)
	return &next, nil
}

func (s *SubmissionServiceImpl) Review(ctx context.Context, actor common_models.Actor, id string, decision common_models.Decision, note string) (*Submission, error) {
	action, err := ActionFor(decision)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor.Role, action) {
		return nil, apperror.Unauthorized("role %q may not review submissions", actor.Role)
	}

	sub, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	from := sub.Status
	next, err := Apply(*sub, actor, action, note, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateIfStatus(ctx, &next, from); err != nil {
		return nil, err
	}

	s.logTransition(&next, from, actor)

	auditAction := common_models.AuditActionApproval
	if action == ActionReject {
		auditAction = common_models.AuditActionRejection
	}
	s.recordAudit(ctx, actor, auditAction, &next, string(from), next.Status)

	if action == ActionReject {
		s.notifyUnit(ctx, &next, notification.Draft{
			Title:   "Pengajuan SK " + next.Status.Label(),
			Message: *next.CatatanRevisi,
			Type:    notification.NotificationTypeError,
			Link:    submissionLink(&next),
		})
	} else {
		s.notifyUnit(ctx, &next, notification.Draft{
			Title:   "Pengajuan SK " + next.Status.Label(),
			Message: fmt.Sprintf("Pengajuan SK Anda kini berstatus %s.", next.Status.Label()),
			Type:    notification.NotificationTypeSuccess,
			Link:    submissionLink(&next),
		})
		s.notifyQueued(ctx, &next)
	}
	return &next, nil
}

func (s *SubmissionServiceImpl) PublishDecree(ctx context.Context, actor common_models.Actor, id string) (*Submission, error) {
	if !CanPerform(actor.Role, ActionPublish) {
		return nil, apperror.Unauthorized("role %q may not publish an SK", actor.Role)
	}

	sub, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	from := sub.Status
	next, err := Apply(*sub, actor, ActionPublish, "", s.now())
	if err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateIfStatus(ctx, &next, from); err != nil {
		return nil, err
	}

	s.logTransition(&next, from, actor)
	s.recordAudit(ctx, actor, common_models.AuditActionPublish, &next, string(from), next.Status)
	s.notifyUnit(ctx, &next, notification.Draft{
		Title:   "SK Terbit",
		Message: "Surat Keputusan kepengurusan Anda telah diterbitkan.",
		Type:    notification.NotificationTypeSuccess,
		Link:    submissionLink(&next),
	})
	return &next, nil
}

// load fetches a submission the actor may see. Owners only see their own unit's.
func (s *SubmissionServiceImpl) load(ctx context.Context, actor common_models.Actor, id string) (*Submission, error) {
	sub, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperror.NotFound("submission %s", id)
	}
	if actor.Role == common_models.RoleOwner && sub.UnitID != actor.UnitID {
		return nil, apperror.Unauthorized("submission %s belongs to another unit", id)
	}
	return sub, nil
}

func (s *SubmissionServiceImpl) Get(ctx context.Context, actor common_models.Actor, id string) (*Submission, error) {
	return s.load(ctx, actor, id)
}

func (s *SubmissionServiceImpl) GetActive(ctx context.Context, actor common_models.Actor) (*Submission, error) {
	if err := requireOwner(actor, "view an active submission"); err != nil {
		return nil, err
	}
	sub, err := s.Repo.GetActiveByUnit(ctx, actor.UnitID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperror.NotFound("unit %s has no submission", actor.UnitID)
	}
	return sub, nil
}

func (s *SubmissionServiceImpl) GetProgress(ctx context.Context, actor common_models.Actor, id string) (Progress, error) {
	sub, err := s.load(ctx, actor, id)
	if err != nil {
		return Progress{}, err
	}
	return Project(sub), nil
}

func (s *SubmissionServiceImpl) MyProgress(ctx context.Context, actor common_models.Actor) (Progress, error) {
	if err := requireOwner(actor, "view progress"); err != nil {
		return Progress{}, err
	}
	sub, err := s.Repo.GetActiveByUnit(ctx, actor.UnitID)
	if err != nil {
		return Progress{}, err
	}
	return Project(sub), nil
}

func (s *SubmissionServiceImpl) List(ctx context.Context, actor common_models.Actor, filter ListFilter) ([]Submission, int64, error) {
	if actor.Role == common_models.RoleOwner {
		filter.UnitID = actor.UnitID
	}
	return s.Repo.List(ctx, filter)
}

func (s *SubmissionServiceImpl) Queue(ctx context.Context, actor common_models.Actor) ([]Submission, int64, error) {
	states := ReviewQueue(actor.Role)
	if len(states) == 0 {
		return nil, 0, apperror.Unauthorized("role %q has no review queue", actor.Role)
	}
	return s.Repo.List(ctx, ListFilter{Statuses: states})
}

func (s *SubmissionServiceImpl) QueueSizes(ctx context.Context) (map[common_models.Role]int64, error) {
	reviewers := []common_models.Role{common_models.RoleOKK, common_models.RoleSekjend, common_models.RoleKetum}

	var all []Status
	for _, role := range reviewers {
		all = append(all, ReviewQueue(role)...)
	}
	counts, err := s.Repo.CountByStatus(ctx, all)
	if err != nil {
		return nil, err
	}

	sizes := make(map[common_models.Role]int64, len(reviewers))
	for _, role := range reviewers {
		for _, st := range ReviewQueue(role) {
			sizes[role] += counts[st]
		}
	}
	return sizes, nil
}

func (s *SubmissionServiceImpl) History(ctx context.Context, actor common_models.Actor, id string) ([]common_models.AuditLog, error) {
	sub, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.Audit.ListHistory(ctx, auditModule, sub.ID.Hex())
}

func (s *SubmissionServiceImpl) ExportRoster(ctx context.Context, actor common_models.Actor, id string) ([]byte, string, error) {
	sub, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	return pengurus.Export(sub.Pengurus, utils.ExportFilename(s.now(), "pengurus", sub.UnitID))
}

func (s *SubmissionServiceImpl) logTransition(sub *Submission, from Status, actor common_models.Actor) {
	s.Logger.Info("Submission transitioned",
		zap.String("submission_id", sub.ID.Hex()),
		zap.String("unit_id", sub.UnitID),
		zap.String("from", string(from)),
		zap.String("to", string(sub.Status)),
		zap.String("actor_id", actor.ID),
		zap.String("role", string(actor.Role)),
	)
}

// recordAudit and the notify helpers run after the write has succeeded, so their
// failures are logged rather than returned.
func (s *SubmissionServiceImpl) recordAudit(ctx context.Context, actor common_models.Actor, action common_models.AuditAction, sub *Submission, from string, to Status) {
	changes := map[string]common_models.Change{
		"status": {Old: from, New: string(to)},
	}
	if sub.CatatanRevisi != nil {
		changes["catatan_revisi"] = common_models.Change{New: *sub.CatatanRevisi}
	}
	if err := s.Audit.LogChange(ctx, actor, action, auditModule, sub.ID.Hex(), changes); err != nil {
		s.Logger.Warn("Failed to write audit log", zap.String("submission_id", sub.ID.Hex()), zap.Error(err))
	}
}

func (s *SubmissionServiceImpl) notifyUnit(ctx context.Context, sub *Submission, d notification.Draft) {
	if err := s.Notifier.NotifyUnit(ctx, sub.UnitID, d); err != nil {
		s.Logger.Warn("Failed to notify unit", zap.String("unit_id", sub.UnitID), zap.Error(err))
	}
}

func (s *SubmissionServiceImpl) notifyQueued(ctx context.Context, sub *Submission) {
	role, ok := NextReviewer(sub.Status)
	if !ok {
		return
	}
	d := notification.Draft{
		Title:   "Pengajuan SK menunggu tindakan",
		Message: fmt.Sprintf("Pengajuan dari unit %s berstatus %s.", sub.UnitID, sub.Status.Label()),
		Type:    notification.NotificationTypeTask,
		Link:    submissionLink(sub),
	}
	if err := s.Notifier.NotifyRole(ctx, role, d); err != nil {
		s.Logger.Warn("Failed to notify reviewers", zap.String("role", string(role)), zap.Error(err))
	}
}

func submissionLink(sub *Submission) string {
	return "/pengajuan/" + sub.ID.Hex()
}
