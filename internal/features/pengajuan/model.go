package pengajuan

import (
	"time"

	"sk-pengajuan/internal/features/pengurus"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the position of a submission in the SK pipeline.
type Status string

const (
	StatusDraft            Status = "draft"
	StatusDiupload         Status = "diupload"
	StatusDiverifikasiOKK  Status = "diverifikasi_okk"
	StatusDitolakOKK       Status = "ditolak_okk"
	StatusDisetujuiSekjend Status = "disetujui_sekjend"
	StatusDitolakSekjend   Status = "ditolak_sekjend"
	StatusDisetujuiKetum   Status = "disetujui_ketum"
	StatusDitolakKetum     Status = "ditolak_ketum"
	StatusSKTerbit         Status = "sk_terbit"
)

// Statuses lists every status in pipeline order.
var Statuses = []Status{
	StatusDraft,
	StatusDiupload,
	StatusDiverifikasiOKK,
	StatusDitolakOKK,
	StatusDisetujuiSekjend,
	StatusDitolakSekjend,
	StatusDisetujuiKetum,
	StatusDitolakKetum,
	StatusSKTerbit,
}

var statusLabels = map[Status]string{
	StatusDraft:            "Draft",
	StatusDiupload:         "Diupload",
	StatusDiverifikasiOKK:  "Diverifikasi OKK",
	StatusDitolakOKK:       "Ditolak OKK",
	StatusDisetujuiSekjend: "Disetujui Sekjend",
	StatusDitolakSekjend:   "Ditolak Sekjend",
	StatusDisetujuiKetum:   "Disetujui Ketum",
	StatusDitolakKetum:     "Ditolak Ketum",
	StatusSKTerbit:         "SK Terbit",
}

func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	return st, st.Valid()
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s Status) IsRejected() bool {
	return s == StatusDitolakOKK || s == StatusDitolakSekjend || s == StatusDitolakKetum
}

func (s Status) IsTerminal() bool {
	return s == StatusSKTerbit
}

// OpenStatuses lists every status of a cycle that has not ended with an SK.
func OpenStatuses() []Status {
	open := make([]Status, 0, len(Statuses))
	for _, st := range Statuses {
		if !st.IsTerminal() {
			open = append(open, st)
		}
	}
	return open
}

// Submission is one SK application cycle of an organization unit. The roster
// is embedded so that a status change and a roster replacement are one write.
type Submission struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UnitID           string             `bson:"unit_id" json:"unit_id"`
	TanggalMusda     time.Time          `bson:"tanggal_musda" json:"tanggal_musda"`
	LokasiMusda      string             `bson:"lokasi_musda" json:"lokasi_musda"`
	FileLaporanMusda string             `bson:"file_laporan_musda,omitempty" json:"file_laporan_musda,omitempty"`
	Status           Status             `bson:"status" json:"status"`
	CatatanRevisi    *string            `bson:"catatan_revisi,omitempty" json:"catatan_revisi"`
	Pengurus         []pengurus.Entry   `bson:"pengurus" json:"pengurus"`

	SubmittedAt       *time.Time `bson:"submitted_at,omitempty" json:"submitted_at"`
	SubmittedBy       *string    `bson:"submitted_by,omitempty" json:"submitted_by"`
	VerifiedOKKAt     *time.Time `bson:"verified_okk_at,omitempty" json:"verified_okk_at"`
	VerifiedOKKBy     *string    `bson:"verified_okk_by,omitempty" json:"verified_okk_by"`
	ApprovedSekjendAt *time.Time `bson:"approved_sekjend_at,omitempty" json:"approved_sekjend_at"`
	ApprovedSekjendBy *string    `bson:"approved_sekjend_by,omitempty" json:"approved_sekjend_by"`
	ApprovedKetumAt   *time.Time `bson:"approved_ketum_at,omitempty" json:"approved_ketum_at"`
	ApprovedKetumBy   *string    `bson:"approved_ketum_by,omitempty" json:"approved_ketum_by"`
	RejectedAt        *time.Time `bson:"rejected_at,omitempty" json:"rejected_at"`
	RejectedBy        *string    `bson:"rejected_by,omitempty" json:"rejected_by"`
	SKTerbitAt        *time.Time `bson:"sk_terbit_at,omitempty" json:"sk_terbit_at"`
	SKTerbitBy        *string    `bson:"sk_terbit_by,omitempty" json:"sk_terbit_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NewSubmission returns an unsaved draft for the unit.
func NewSubmission(unitID string, at time.Time) Submission {
	return Submission{
		UnitID:    unitID,
		Status:    StatusDraft,
		Pengurus:  []pengurus.Entry{},
		CreatedAt: at,
		UpdatedAt: at,
	}
}
