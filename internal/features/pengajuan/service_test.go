package pengajuan

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"sk-pengajuan/internal/common/apperror"
	common_models "sk-pengajuan/internal/common/models"
	"sk-pengajuan/internal/features/notification"
	"sk-pengajuan/internal/features/pengurus"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type MockSubmissionRepo struct {
	items        map[primitive.ObjectID]Submission
	order        []primitive.ObjectID
	writes       int
	beforeUpdate func(id primitive.ObjectID)
	beforeCreate func(unitID string)
}

func newMockSubmissionRepo() *MockSubmissionRepo {
	return &MockSubmissionRepo{items: map[primitive.ObjectID]Submission{}}
}

// Create enforces the one-open-cycle-per-unit index of the real collection.
func (m *MockSubmissionRepo) Create(ctx context.Context, s *Submission) error {
	if m.beforeCreate != nil {
		m.beforeCreate(s.UnitID)
	}
	for _, existing := range m.items {
		if existing.UnitID == s.UnitID && !existing.Status.IsTerminal() {
			return apperror.Conflict("unit %s already has a submission in progress", s.UnitID)
		}
	}
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	m.items[s.ID] = *s
	m.order = append(m.order, s.ID)
	m.writes++
	return nil
}

func (m *MockSubmissionRepo) GetByID(ctx context.Context, id string) (*Submission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	s, ok := m.items[oid]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *MockSubmissionRepo) GetActiveByUnit(ctx context.Context, unitID string) (*Submission, error) {
	for i := len(m.order) - 1; i >= 0; i-- {
		s := m.items[m.order[i]]
		if s.UnitID == unitID {
			return &s, nil
		}
	}
	return nil, nil
}

func (m *MockSubmissionRepo) UpdateIfStatus(ctx context.Context, s *Submission, expected Status) error {
	if m.beforeUpdate != nil {
		m.beforeUpdate(s.ID)
	}
	stored, ok := m.items[s.ID]
	if !ok || stored.Status != expected {
		return apperror.Conflict("submission %s is no longer %s", s.ID.Hex(), expected)
	}
	m.items[s.ID] = *s
	m.writes++
	return nil
}

func (m *MockSubmissionRepo) List(ctx context.Context, filter ListFilter) ([]Submission, int64, error) {
	var out []Submission
	for _, id := range m.order {
		s := m.items[id]
		if filter.UnitID != "" && s.UnitID != filter.UnitID {
			continue
		}
		if len(filter.Statuses) > 0 && !contains(filter.Statuses, s.Status) {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (m *MockSubmissionRepo) CountByStatus(ctx context.Context, statuses []Status) (map[Status]int64, error) {
	counts := map[Status]int64{}
	for _, s := range m.items {
		if contains(statuses, s.Status) {
			counts[s.Status]++
		}
	}
	return counts, nil
}

func (m *MockSubmissionRepo) EnsureIndexes(ctx context.Context) error { return nil }

type sentNotification struct {
	unitID string
	role   common_models.Role
	draft  notification.Draft
}

type MockNotifier struct {
	sent []sentNotification
}

func (m *MockNotifier) NotifyUnit(ctx context.Context, unitID string, d notification.Draft) error {
	m.sent = append(m.sent, sentNotification{unitID: unitID, draft: d})
	return nil
}

func (m *MockNotifier) NotifyRole(ctx context.Context, role common_models.Role, d notification.Draft) error {
	m.sent = append(m.sent, sentNotification{role: role, draft: d})
	return nil
}

func (m *MockNotifier) lastRole() common_models.Role {
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].role != "" {
			return m.sent[i].role
		}
	}
	return ""
}

type MockAuditTrail struct {
	logs []common_models.AuditLog
}

func (m *MockAuditTrail) LogChange(ctx context.Context, actor common_models.Actor, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	m.logs = append(m.logs, common_models.AuditLog{Action: action, Module: module, RecordID: recordID, ActorID: actor.ID, ActorRole: actor.Role, Changes: changes})
	return nil
}

func (m *MockAuditTrail) ListHistory(ctx context.Context, module string, recordID string) ([]common_models.AuditLog, error) {
	var out []common_models.AuditLog
	for _, l := range m.logs {
		if l.Module == module && l.RecordID == recordID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fixture struct {
	svc      *SubmissionServiceImpl
	repo     *MockSubmissionRepo
	notifier *MockNotifier
	audit    *MockAuditTrail
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newMockSubmissionRepo(),
		notifier: &MockNotifier{},
		audit:    &MockAuditTrail{},
	}
	clock := fixedNow
	f.svc = &SubmissionServiceImpl{
		Repo:      f.repo,
		Validator: pengurus.NewRosterValidator(30),
		Notifier:  f.notifier,
		Audit:     f.audit,
		Logger:    zap.NewNop(),
		now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
	}
	return f
}

func validRoster() []pengurus.Entry {
	return []pengurus.Entry{
		{JenisStruktur: "Pengurus Harian", Jabatan: "Ketua", NamaLengkap: "Siti Aminah", JenisKelamin: pengurus.GenderPerempuan, FileKTP: "ktp/1.jpg", Urutan: 1},
		{JenisStruktur: "Pengurus Harian", Jabatan: "Sekretaris", NamaLengkap: "Budi", JenisKelamin: pengurus.GenderLaki, FileKTP: "ktp/2.jpg", Urutan: 2},
		{JenisStruktur: "Pengurus Harian", Jabatan: "Bendahara", NamaLengkap: "Andi", JenisKelamin: pengurus.GenderLaki, FileKTP: "ktp/3.jpg", Urutan: 3},
		{JenisStruktur: pengurus.StrukturBiro, BidangStruktur: "Biro Hukum", Jabatan: "Kepala Biro", NamaLengkap: "Dedi", JenisKelamin: pengurus.GenderLaki, FileKTP: "ktp/4.jpg", Urutan: 4},
	}
}

func validInput() SubmitInput {
	return SubmitInput{
		TanggalMusda:     time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
		LokasiMusda:      "Bandung",
		FileLaporanMusda: "laporan/musda.pdf",
		Pengurus:         validRoster(),
	}
}

func TestSubmitReportAndRoster(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	sub, err := f.svc.SubmitReportAndRoster(ctx, owner, validInput())
	if err != nil {
		t.Fatalf("SubmitReportAndRoster() error = %v", err)
	}
	if sub.Status != StatusDiupload || sub.UnitID != owner.UnitID || len(sub.Pengurus) != 4 {
		t.Errorf("submission = %+v", sub)
	}
	if f.notifier.lastRole() != common_models.RoleOKK {
		t.Error("OKK should be notified of the new submission")
	}
	if len(f.audit.logs) != 1 || f.audit.logs[0].Action != common_models.AuditActionSubmit {
		t.Errorf("audit = %+v", f.audit.logs)
	}

	_, err = f.svc.SubmitReportAndRoster(ctx, owner, validInput())
	if !errors.Is(err, apperror.ErrInvalidTransition) {
		t.Errorf("second submit error = %v, want ErrInvalidTransition", err)
	}
}

func TestSubmitRejectsBeforeWriting(t *testing.T) {
	tests := []struct {
		name   string
		actor  common_models.Actor
		input  func() SubmitInput
		target error
	}{
		{"reviewer", okk, validInput, apperror.ErrUnauthorized},
		{"owner without unit", common_models.Actor{ID: "x", Role: common_models.RoleOwner}, validInput, apperror.ErrUnauthorized},
		{"missing report", owner, func() SubmitInput { in := validInput(); in.FileLaporanMusda = " "; return in }, apperror.ErrValidation},
		{"empty roster", owner, func() SubmitInput { in := validInput(); in.Pengurus = nil; return in }, apperror.ErrValidation},
		{"incomplete entry", owner, func() SubmitInput { in := validInput(); in.Pengurus[1].FileKTP = ""; return in }, apperror.ErrValidation},
		{"quota", owner, func() SubmitInput { in := validInput(); in.Pengurus[0].JenisKelamin = pengurus.GenderLaki; return in }, apperror.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.SubmitReportAndRoster(context.Background(), tt.actor, tt.input())
			if !errors.Is(err, tt.target) {
				t.Fatalf("error = %v, want %v", err, tt.target)
			}
			if f.repo.writes != 0 || len(f.notifier.sent) != 0 || len(f.audit.logs) != 0 {
				t.Error("a rejected submission must not write, notify or audit")
			}
		})
	}
}

func TestSaveDraftThenSubmit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	draft, err := f.svc.SaveDraft(ctx, owner, SubmitInput{LokasiMusda: "Bandung"})
	if err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	if draft.Status != StatusDraft {
		t.Fatalf("Status = %s, want draft", draft.Status)
	}

	if _, err := f.svc.SaveDraft(ctx, owner, SubmitInput{LokasiMusda: "Cimahi"}); err != nil {
		t.Fatalf("second SaveDraft() error = %v", err)
	}

	sub, err := f.svc.SubmitReportAndRoster(ctx, owner, validInput())
	if err != nil {
		t.Fatalf("SubmitReportAndRoster() error = %v", err)
	}
	if sub.ID != draft.ID || len(f.repo.order) != 1 {
		t.Error("submitting should advance the saved draft instead of creating another")
	}

	if _, err := f.svc.SaveDraft(ctx, owner, SubmitInput{}); !errors.Is(err, apperror.ErrInvalidTransition) {
		t.Errorf("SaveDraft after submit error = %v, want ErrInvalidTransition", err)
	}
}

func TestFullPipeline(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	sub, _ := f.svc.SubmitReportAndRoster(ctx, owner, validInput())
	id := sub.ID.Hex()

	steps := []struct {
		actor common_models.Actor
		want  Status
		next  common_models.Role
	}{
		{okk, StatusDiverifikasiOKK, common_models.RoleSekjend},
		{sekjend, StatusDisetujuiSekjend, common_models.RoleKetum},
		{ketum, StatusDisetujuiKetum, common_models.RoleKetum},
	}
	for _, step := range steps {
		got, err := f.svc.Review(ctx, step.actor, id, common_models.DecisionApprove, "")
		if err != nil {
			t.Fatalf("%s review error = %v", step.actor.Role, err)
		}
		if got.Status != step.want {
			t.Fatalf("%s review = %s, want %s", step.actor.Role, got.Status, step.want)
		}
		if f.notifier.lastRole() != step.next {
			t.Errorf("after %s, notified %s; want %s", step.actor.Role, f.notifier.lastRole(), step.next)
		}
	}

	if _, err := f.svc.PublishDecree(ctx, sekjend, id); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("sekjend publish error = %v, want ErrUnauthorized", err)
	}

	done, err := f.svc.PublishDecree(ctx, ketum, id)
	if err != nil || done.Status != StatusSKTerbit || done.SKTerbitAt == nil {
		t.Fatalf("PublishDecree() = %+v, %v", done, err)
	}

	p, err := f.svc.GetProgress(ctx, owner, id)
	if err != nil || p.Percentage != 100 {
		t.Errorf("GetProgress() = %+v, %v", p, err)
	}

	history, _ := f.svc.History(ctx, ketum, id)
	if len(history) != 5 {
		t.Errorf("history has %d entries, want 5", len(history))
	}

	next, err := f.svc.SubmitReportAndRoster(ctx, owner, validInput())
	if err != nil {
		t.Fatalf("new cycle after SK error = %v", err)
	}
	if next.ID == done.ID {
		t.Error("a new cycle must create a new submission")
	}
}

func TestReviewRejectAndResubmit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sub, _ := f.svc.SubmitReportAndRoster(ctx, owner, validInput())
	id := sub.ID.Hex()

	if _, err := f.svc.Review(ctx, okk, id, common_models.DecisionReject, "  "); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("blank reject error = %v, want ErrValidation", err)
	}

	rejected, err := f.svc.Review(ctx, okk, id, common_models.DecisionReject, "KTP bendahara tidak terbaca")
	if err != nil || rejected.Status != StatusDitolakOKK {
		t.Fatalf("Review(reject) = %+v, %v", rejected, err)
	}
	last := f.notifier.sent[len(f.notifier.sent)-1]
	if last.unitID != owner.UnitID || last.draft.Message != "KTP bendahara tidak terbaca" {
		t.Errorf("unit should be told the revision note, got %+v", last)
	}

	if _, err := f.svc.SubmitReportAndRoster(ctx, owner, validInput()); !errors.Is(err, apperror.ErrInvalidTransition) {
		t.Errorf("submit while rejected error = %v, want ErrInvalidTransition", err)
	}

	other := common_models.Actor{ID: "owner-2", Role: common_models.RoleOwner, UnitID: "unit-2"}
	if _, err := f.svc.Resubmit(ctx, other, id, nil); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("foreign resubmit error = %v, want ErrUnauthorized", err)
	}

	fixed := validInput()
	fixed.Pengurus[2].FileKTP = "ktp/3-baru.jpg"
	back, err := f.svc.Resubmit(ctx, owner, id, &fixed)
	if err != nil {
		t.Fatalf("Resubmit() error = %v", err)
	}
	if back.Status != StatusDiupload || back.CatatanRevisi != nil || back.Pengurus[2].FileKTP != "ktp/3-baru.jpg" {
		t.Errorf("Resubmit() = %+v", back)
	}

	if _, err := f.svc.Resubmit(ctx, owner, id, nil); !errors.Is(err, apperror.ErrInvalidTransition) {
		t.Errorf("resubmit while diupload error = %v, want ErrInvalidTransition", err)
	}
}

func TestReviewErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sub, _ := f.svc.SubmitReportAndRoster(ctx, owner, validInput())
	id := sub.ID.Hex()

	if _, err := f.svc.Review(ctx, owner, id, common_models.DecisionApprove, ""); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("owner review error = %v, want ErrUnauthorized", err)
	}
	if _, err := f.svc.Review(ctx, sekjend, id, common_models.DecisionApprove, ""); !errors.Is(err, apperror.ErrInvalidTransition) {
		t.Errorf("sekjend review before okk error = %v, want ErrInvalidTransition", err)
	}
	if _, err := f.svc.Review(ctx, okk, id, "maybe", ""); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("unknown decision error = %v, want ErrValidation", err)
	}
	if _, err := f.svc.Review(ctx, okk, primitive.NewObjectID().Hex(), common_models.DecisionApprove, ""); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("missing submission error = %v, want ErrNotFound", err)
	}
}

func TestConcurrentReviewConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sub, _ := f.svc.SubmitReportAndRoster(ctx, owner, validInput())

	// another OKK reviewer approves between our read and our write
	f.repo.beforeUpdate = func(id primitive.ObjectID) {
		f.repo.beforeUpdate = nil
		s := f.repo.items[id]
		s.Status = StatusDiverifikasiOKK
		f.repo.items[id] = s
	}

	_, err := f.svc.Review(ctx, okk, sub.ID.Hex(), common_models.DecisionReject, "salah")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("racing review error = %v, want ErrConflict", err)
	}
	if f.repo.items[sub.ID].Status != StatusDiverifikasiOKK || f.repo.items[sub.ID].CatatanRevisi != nil {
		t.Error("the losing review must not overwrite the winner")
	}

	_, err = f.svc.Review(ctx, okk, sub.ID.Hex(), common_models.DecisionReject, "salah")
	if !errors.Is(err, apperror.ErrInvalidTransition) {
		t.Errorf("retry after conflict error = %v, want ErrInvalidTransition", err)
	}
}

func TestConcurrentFirstSubmissionConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// the same owner submits from another session after we read "no submission"
	f.repo.beforeCreate = func(unitID string) {
		f.repo.beforeCreate = nil
		if _, err := f.svc.SubmitReportAndRoster(ctx, owner, validInput()); err != nil {
			t.Fatalf("winning submit error = %v", err)
		}
	}

	_, err := f.svc.SubmitReportAndRoster(ctx, owner, validInput())
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("racing first submit error = %v, want ErrConflict", err)
	}

	stored := 0
	for _, s := range f.repo.items {
		if s.UnitID == owner.UnitID {
			stored++
		}
	}
	if stored != 1 {
		t.Errorf("submissions stored for unit = %d, want 1", stored)
	}

	sizes, err := f.svc.QueueSizes(ctx)
	if err != nil {
		t.Fatalf("QueueSizes() error = %v", err)
	}
	if sizes[common_models.RoleOKK] != 1 {
		t.Errorf("okk queue = %d, want 1", sizes[common_models.RoleOKK])
	}
}

func TestOpenStatusesExcludeTerminal(t *testing.T) {
	open := OpenStatuses()
	if len(open) != len(Statuses)-1 {
		t.Fatalf("OpenStatuses() = %v", open)
	}
	for _, st := range open {
		if st.IsTerminal() {
			t.Errorf("OpenStatuses() contains terminal %s", st)
		}
	}
}

func TestQueueAndSizes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i, unit := range []string{"a", "b", "c"} {
		actor := common_models.Actor{ID: "owner-" + unit, Role: common_models.RoleOwner, UnitID: unit}
		sub, err := f.svc.SubmitReportAndRoster(ctx, actor, validInput())
		if err != nil {
			t.Fatalf("submit %s error = %v", unit, err)
		}
		if i > 0 {
			_, _ = f.svc.Review(ctx, okk, sub.ID.Hex(), common_models.DecisionApprove, "")
		}
		if i > 1 {
			_, _ = f.svc.Review(ctx, sekjend, sub.ID.Hex(), common_models.DecisionApprove, "")
		}
	}

	sizes, err := f.svc.QueueSizes(ctx)
	if err != nil {
		t.Fatalf("QueueSizes() error = %v", err)
	}
	if sizes[common_models.RoleOKK] != 1 || sizes[common_models.RoleSekjend] != 1 || sizes[common_models.RoleKetum] != 1 {
		t.Errorf("QueueSizes() = %v, want 1 each", sizes)
	}

	queue, total, err := f.svc.Queue(ctx, sekjend)
	if err != nil || total != 1 || queue[0].UnitID != "b" {
		t.Errorf("Queue(sekjend) = %+v, %d, %v", queue, total, err)
	}
	if _, _, err := f.svc.Queue(ctx, owner); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Queue(owner) error = %v, want ErrUnauthorized", err)
	}

	mine, _, _ := f.svc.List(ctx, common_models.Actor{ID: "owner-c", Role: common_models.RoleOwner, UnitID: "c"}, ListFilter{})
	if len(mine) != 1 || mine[0].UnitID != "c" {
		t.Errorf("owner List() should be scoped to its unit, got %d", len(mine))
	}
}

func TestMyProgressWithoutSubmission(t *testing.T) {
	f := newFixture()

	p, err := f.svc.MyProgress(context.Background(), owner)
	if err != nil {
		t.Fatalf("MyProgress() error = %v", err)
	}
	if p.Percentage != 0 {
		t.Errorf("Percentage = %d, want 0", p.Percentage)
	}
	for _, step := range p.Steps {
		if step.Status != StepPending {
			t.Errorf("step %s = %s, want pending", step.Step, step.Status)
		}
	}

	if _, err := f.svc.GetActive(context.Background(), owner); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetActive() error = %v, want ErrNotFound", err)
	}
}

func TestExportRoster(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sub, _ := f.svc.SubmitReportAndRoster(ctx, owner, validInput())

	data, filename, err := f.svc.ExportRoster(ctx, okk, sub.ID.Hex())
	if err != nil {
		t.Fatalf("ExportRoster() error = %v", err)
	}
	if filename == "" {
		t.Error("filename should not be empty")
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer wb.Close()
	rows, _ := wb.GetRows("Pengurus")
	if len(rows) != 5 {
		t.Errorf("rows = %d, want header + 4", len(rows))
	}
}
