package administrasi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"sk-pengajuan/internal/common/apperror"
	common_models "sk-pengajuan/internal/common/models"
	"sk-pengajuan/internal/config"
	"sk-pengajuan/internal/features/approval"
	"sk-pengajuan/internal/features/audit"
	"sk-pengajuan/internal/features/notification"
	"sk-pengajuan/internal/features/organization"
	"sk-pengajuan/pkg/utils"

	"go.uber.org/zap"
)

const auditModule = "administrasi"

var recordLabels = map[RecordType]string{
	RecordBank:     "Rekening Bank",
	RecordOffice:   "Alamat Kantor",
	RecordLegality: "Legalitas Kantor",
}

func (t RecordType) Label() string {
	if l, ok := recordLabels[t]; ok {
		return l
	}
	return string(t)
}

// Notifier tells a unit about review outcomes.
type Notifier interface {
	NotifyUnit(ctx context.Context, unitID string, d notification.Draft) error
}

// Auditor records track changes.
type Auditor interface {
	LogChange(ctx context.Context, actor common_models.Actor, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error
}

// UnitDirectory resolves unit profiles for list views.
type UnitDirectory interface {
	List(ctx context.Context) ([]organization.Unit, error)
}

// TrackSummary is the review state of one document as shown in list views.
type TrackSummary struct {
	RecordID   string          `json:"record_id"`
	Status     approval.Status `json:"status"`
	Notes      *string         `json:"notes"`
	VerifiedAt *time.Time      `json:"verified_at"`
	VerifiedBy *string         `json:"verified_by"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// UnitStatus is one row of the administrasi review list. A nil track means
// the unit has not saved that document yet.
type UnitStatus struct {
	UnitID         string        `json:"unit_id"`
	NamaUnit       string        `json:"nama_unit"`
	Email          string        `json:"email"`
	TipeOrganisasi string        `json:"tipe_organisasi"`
	Provinsi       string        `json:"provinsi"`
	KabupatenKota  string        `json:"kabupaten_kota"`
	Kecamatan      string        `json:"kecamatan"`
	Bank           *TrackSummary `json:"bank"`
	Office         *TrackSummary `json:"office"`
	Legality       *TrackSummary `json:"legality"`
	Overall        OverallStatus `json:"overall_status"`
	OverallLabel   string        `json:"overall_label"`
	LastUpdated    *time.Time    `json:"last_updated"`
	IsSubmitted    bool          `json:"is_submitted"`
}

// MyStatus is the owner's own view of the three tracks.
type MyStatus struct {
	Bank     *TrackSummary `json:"bank"`
	Office   *TrackSummary `json:"office"`
	Legality *TrackSummary `json:"legality"`
	Overall  OverallStatus `json:"overall_status"`
}

type StatusFilter struct {
	Overall OverallStatus
}

type RecordService interface {
	Upsert(ctx context.Context, actor common_models.Actor, fields Fields) (*Record, error)
	Review(ctx context.Context, actor common_models.Actor, recordID string, t RecordType, decision common_models.Decision, notes string) (*Record, error)
	ResetTrack(ctx context.Context, actor common_models.Actor, unitID string, t RecordType) (*Record, error)
	Get(ctx context.Context, actor common_models.Actor, recordID string) (*Record, error)
	ListByUnit(ctx context.Context, actor common_models.Actor, unitID string) ([]Record, error)
	GetOverallStatus(ctx context.Context, unitID string) (OverallStatus, error)
	MyStatus(ctx context.Context, actor common_models.Actor) (MyStatus, error)
	ListStatuses(ctx context.Context, filter StatusFilter) ([]UnitStatus, error)
	ExportStatuses(ctx context.Context, filter StatusFilter) ([]byte, string, error)
}

type RecordServiceImpl struct {
	Repo             RecordRepository
	Units            UnitDirectory
	Notifier         Notifier
	Audit            Auditor
	Logger           *zap.Logger
	ResetTrackOnEdit bool
	now              func() time.Time
}

func NewRecordService(
	repo RecordRepository,
	units organization.UnitService,
	notifier notification.NotificationService,
	auditService audit.AuditService,
	cfg *config.Config,
	logger *zap.Logger,
) RecordService {
	return &RecordServiceImpl{
		Repo:             repo,
		Units:            units,
		Notifier:         notifier,
		Audit:            auditService,
		Logger:           logger,
		ResetTrackOnEdit: cfg.ResetTrackOnEdit,
		now:              time.Now,
	}
}

func (s *RecordServiceImpl) Upsert(ctx context.Context, actor common_models.Actor, fields Fields) (*Record, error) {
	if actor.Role != common_models.RoleOwner || actor.UnitID == "" {
		return nil, apperror.Unauthorized("only an organization owner may edit its administrative data")
	}
	if fields == nil {
		return nil, apperror.Validation("record fields are required")
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	rec, err := s.Repo.Upsert(ctx, actor.UnitID, fields, now)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("Administrative record saved",
		zap.String("record_id", rec.ID.Hex()),
		zap.String("unit_id", rec.UnitID),
		zap.String("type", string(rec.Type)),
		zap.String("track", string(rec.Approval.Status)),
	)
	s.recordAudit(ctx, actor, common_models.AuditActionUpdate, rec, map[string]common_models.Change{
		string(rec.Type): {New: fields},
	})

	if s.ResetTrackOnEdit && rec.Approval.Status == approval.StatusRejected {
		return s.reset(ctx, actor, rec)
	}
	return rec, nil
}

func (s *RecordServiceImpl) Review(ctx context.Context, actor common_models.Actor, recordID string, t RecordType, decision common_models.Decision, notes string) (*Record, error) {
	if !actor.Role.IsReviewer() {
		return nil, apperror.Unauthorized("role %q may not review administrative records", actor.Role)
	}
	if !decision.Valid() {
		return nil, apperror.Validation("decision must be %q or %q", common_models.DecisionApprove, common_models.DecisionReject)
	}

	rec, err := s.Repo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperror.NotFound("administrative record %s", recordID)
	}
	if rec.Type != t {
		return nil, apperror.Validation("record %s is a %s record, not %s", recordID, rec.Type, t)
	}

	from := rec.Approval.Status
	now := s.now()
	track, err := rec.Approval.Decide(decision, actor.ID, notes, now)
	if err != nil {
		var te *apperror.TransitionError
		if errors.As(err, &te) {
			te.Role = string(actor.Role)
		}
		return nil, err
	}

	if err := s.Repo.UpdateTrack(ctx, rec.ID, from, track, now); err != nil {
		return nil, err
	}

	updated := *rec
	updated.Approval = track
	updated.UpdatedAt = now

	s.Logger.Info("Administrative record reviewed",
		zap.String("record_id", updated.ID.Hex()),
		zap.String("unit_id", updated.UnitID),
		zap.String("type", string(updated.Type)),
		zap.String("from", string(from)),
		zap.String("to", string(track.Status)),
		zap.String("actor_id", actor.ID),
		zap.String("role", string(actor.Role)),
	)

	action := common_models.AuditActionApproval
	if track.Status == approval.StatusRejected {
		action = common_models.AuditActionRejection
	}
	s.recordAudit(ctx, actor, action, &updated, trackChanges(from, track))
	s.notifyReview(ctx, &updated)
	return &updated, nil
}

func (s *RecordServiceImpl) ResetTrack(ctx context.Context, actor common_models.Actor, unitID string, t RecordType) (*Record, error) {
	switch {
	case actor.Role.IsReviewer():
	case actor.Role == common_models.RoleOwner && actor.UnitID == unitID && unitID != "":
	default:
		return nil, apperror.Unauthorized("role %q may not reset this review", actor.Role)
	}

	rec, err := s.Repo.GetByUnitAndType(ctx, unitID, t)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperror.NotFound("%s record of unit %s", t, unitID)
	}
	return s.reset(ctx, actor, rec)
}

func (s *RecordServiceImpl) reset(ctx context.Context, actor common_models.Actor, rec *Record) (*Record, error) {
	if !rec.Approval.IsDecided() {
		return rec, nil
	}

	from := rec.Approval.Status
	track := rec.Approval.Reset()
	now := s.now()
	if err := s.Repo.UpdateTrack(ctx, rec.ID, from, track, now); err != nil {
		return nil, err
	}

	updated := *rec
	updated.Approval = track
	updated.UpdatedAt = now

	s.Logger.Info("Administrative review reset",
		zap.String("record_id", updated.ID.Hex()),
		zap.String("unit_id", updated.UnitID),
		zap.String("from", string(from)),
		zap.String("actor_id", actor.ID),
	)
	s.recordAudit(ctx, actor, common_models.AuditActionReset, &updated, trackChanges(from, track))
	return &updated, nil
}

func (s *RecordServiceImpl) Get(ctx context.Context, actor common_models.Actor, recordID string) (*Record, error) {
	rec, err := s.Repo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperror.NotFound("administrative record %s", recordID)
	}
	if actor.Role == common_models.RoleOwner && rec.UnitID != actor.UnitID {
		return nil, apperror.Unauthorized("record %s belongs to another unit", recordID)
	}
	return rec, nil
}

func (s *RecordServiceImpl) ListByUnit(ctx context.Context, actor common_models.Actor, unitID string) ([]Record, error) {
	if actor.Role == common_models.RoleOwner && unitID != actor.UnitID {
		return nil, apperror.Unauthorized("records of unit %s belong to another unit", unitID)
	}
	return s.Repo.ListByUnit(ctx, unitID)
}

func (s *RecordServiceImpl) GetOverallStatus(ctx context.Context, unitID string) (OverallStatus, error) {
	records, err := s.Repo.ListByUnit(ctx, unitID)
	if err != nil {
		return "", err
	}
	return overallOf(records), nil
}

func (s *RecordServiceImpl) MyStatus(ctx context.Context, actor common_models.Actor) (MyStatus, error) {
	if actor.Role != common_models.RoleOwner || actor.UnitID == "" {
		return MyStatus{}, apperror.Unauthorized("only an organization owner has its own approval status")
	}
	records, err := s.Repo.ListByUnit(ctx, actor.UnitID)
	if err != nil {
		return MyStatus{}, err
	}
	byType := summarize(records)
	return MyStatus{
		Bank:     byType[RecordBank],
		Office:   byType[RecordOffice],
		Legality: byType[RecordLegality],
		Overall:  overallOf(records),
	}, nil
}

func (s *RecordServiceImpl) ListStatuses(ctx context.Context, filter StatusFilter) ([]UnitStatus, error) {
	units, err := s.Units.List(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	recordsByUnit := make(map[string][]Record)
	for _, rec := range records {
		recordsByUnit[rec.UnitID] = append(recordsByUnit[rec.UnitID], rec)
	}

	rows := make([]UnitStatus, 0, len(units))
	seen := make(map[string]bool, len(units))
	for _, u := range units {
		seen[u.ID] = true
		rows = append(rows, buildRow(u, recordsByUnit[u.ID]))
	}
	// records saved before the unit filled in its profile
	for unitID, recs := range recordsByUnit {
		if !seen[unitID] {
			rows = append(rows, buildRow(organization.Unit{ID: unitID}, recs))
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Provinsi != rows[j].Provinsi {
			return rows[i].Provinsi < rows[j].Provinsi
		}
		return rows[i].NamaUnit < rows[j].NamaUnit
	})

	if filter.Overall == "" {
		return rows, nil
	}
	filtered := rows[:0]
	for _, row := range rows {
		if row.Overall == filter.Overall {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}

var exportColumns = []string{
	"Unit", "Email", "Provinsi", "Kabupaten/Kota", "Kecamatan",
	"Rekening Bank", "Catatan Rekening", "Alamat Kantor", "Catatan Alamat",
	"Legalitas Kantor", "Catatan Legalitas", "Status Keseluruhan", "Terakhir Diperbarui",
}

func (s *RecordServiceImpl) ExportStatuses(ctx context.Context, filter StatusFilter) ([]byte, string, error) {
	rows, err := s.ListStatuses(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	data := make([][]any, 0, len(rows))
	for _, row := range rows {
		data = append(data, []any{
			row.NamaUnit, row.Email, row.Provinsi, row.KabupatenKota, row.Kecamatan,
			trackLabel(row.Bank), trackNotes(row.Bank),
			trackLabel(row.Office), trackNotes(row.Office),
			trackLabel(row.Legality), trackNotes(row.Legality),
			row.OverallLabel, row.LastUpdated,
		})
	}
	return utils.WriteSheet("Administrasi", exportColumns, data, utils.ExportFilename(s.now(), "administrasi", string(filter.Overall)))
}

func buildRow(u organization.Unit, records []Record) UnitStatus {
	byType := summarize(records)
	row := UnitStatus{
		UnitID:         u.ID,
		NamaUnit:       u.DisplayName(),
		Email:          u.Email,
		TipeOrganisasi: string(u.Type),
		Provinsi:       u.Provinsi,
		KabupatenKota:  u.KabupatenKota,
		Kecamatan:      u.Kecamatan,
		Bank:           byType[RecordBank],
		Office:         byType[RecordOffice],
		Legality:       byType[RecordLegality],
		Overall:        overallOf(records),
		IsSubmitted:    len(byType) == len(RecordTypes),
	}
	if u.Type == "" {
		row.NamaUnit = u.ID
	}
	row.OverallLabel = row.Overall.Label()

	for _, summary := range byType {
		if row.LastUpdated == nil || summary.UpdatedAt.After(*row.LastUpdated) {
			at := summary.UpdatedAt
			row.LastUpdated = &at
		}
	}
	return row
}

func summarize(records []Record) map[RecordType]*TrackSummary {
	byType := make(map[RecordType]*TrackSummary, len(records))
	for _, rec := range records {
		byType[rec.Type] = &TrackSummary{
			RecordID:   rec.ID.Hex(),
			Status:     rec.Approval.Status,
			Notes:      rec.Approval.Notes,
			VerifiedAt: rec.Approval.VerifiedAt,
			VerifiedBy: rec.Approval.VerifiedBy,
			UpdatedAt:  rec.UpdatedAt,
		}
	}
	return byType
}

func overallOf(records []Record) OverallStatus {
	tracks := make(map[RecordType]approval.Status, len(records))
	for _, rec := range records {
		tracks[rec.Type] = rec.Approval.Status
	}
	return ComputeOverallStatus(tracks)
}

func trackLabel(t *TrackSummary) string {
	if t == nil {
		return "Belum diisi"
	}
	return t.Status.Label()
}

func trackNotes(t *TrackSummary) string {
	if t == nil || t.Notes == nil {
		return ""
	}
	return *t.Notes
}

func trackChanges(from approval.Status, to approval.Track) map[string]common_models.Change {
	changes := map[string]common_models.Change{
		"okk_status": {Old: string(from), New: string(to.Status)},
	}
	if to.Notes != nil {
		changes["okk_notes"] = common_models.Change{New: *to.Notes}
	}
	return changes
}

func (s *RecordServiceImpl) recordAudit(ctx context.Context, actor common_models.Actor, action common_models.AuditAction, rec *Record, changes map[string]common_models.Change) {
	if err := s.Audit.LogChange(ctx, actor, action, auditModule, rec.ID.Hex(), changes); err != nil {
		s.Logger.Warn("Failed to write audit log", zap.String("record_id", rec.ID.Hex()), zap.Error(err))
	}
}

func (s *RecordServiceImpl) notifyReview(ctx context.Context, rec *Record) {
	d := notification.Draft{
		Title: fmt.Sprintf("%s %s", rec.Type.Label(), rec.Approval.Status.Label()),
		Link:  "/administrasi",
	}
	if rec.Approval.Status == approval.StatusRejected {
		d.Type = notification.NotificationTypeError
		d.Message = *rec.Approval.Notes
	} else {
		d.Type = notification.NotificationTypeSuccess
		d.Message = fmt.Sprintf("Data %s telah diverifikasi.", rec.Type.Label())
	}
	if err := s.Notifier.NotifyUnit(ctx, rec.UnitID, d); err != nil {
		s.Logger.Warn("Failed to notify unit", zap.String("unit_id", rec.UnitID), zap.Error(err))
	}
}
