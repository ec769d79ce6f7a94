package administrasi

import (
	"sort"
	"strings"
	"time"

	"sk-pengajuan/internal/common/apperror"
	"sk-pengajuan/internal/features/approval"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecordType names one of the three administrative documents of a unit.
type RecordType string

const (
	RecordBank     RecordType = "bank"
	RecordOffice   RecordType = "office"
	RecordLegality RecordType = "legality"
)

var RecordTypes = []RecordType{RecordBank, RecordOffice, RecordLegality}

func ParseRecordType(s string) (RecordType, bool) {
	for _, t := range RecordTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Fields is the domain payload of a record. It is implemented only by
// BankAccount, OfficeAddress and OfficeLegality.
type Fields interface {
	RecordType() RecordType
	Validate() error
	sealed()
}

type BankAccount struct {
	NamaPemilikRekening string `bson:"nama_pemilik_rekening" json:"nama_pemilik_rekening" validate:"required"`
	NamaBank            string `bson:"nama_bank" json:"nama_bank" validate:"required"`
	NomorRekening       string `bson:"nomor_rekening" json:"nomor_rekening" validate:"required,numeric"`
	FileBuktiRekening   string `bson:"file_bukti_rekening" json:"file_bukti_rekening" validate:"required"`
}

func (BankAccount) RecordType() RecordType { return RecordBank }
func (BankAccount) sealed()                {}

func (b BankAccount) Validate() error {
	return requireFields(map[string]string{
		"nama_pemilik_rekening": b.NamaPemilikRekening,
		"nama_bank":             b.NamaBank,
		"nomor_rekening":        b.NomorRekening,
		"file_bukti_rekening":   b.FileBuktiRekening,
	})
}

type OfficeAddress struct {
	Provinsi            string `bson:"provinsi" json:"provinsi" validate:"required"`
	KabupatenKota       string `bson:"kabupaten_kota" json:"kabupaten_kota" validate:"required"`
	Kecamatan           string `bson:"kecamatan" json:"kecamatan" validate:"required"`
	AlamatLengkap       string `bson:"alamat_lengkap" json:"alamat_lengkap" validate:"required"`
	FileFotoKantorDepan string `bson:"file_foto_kantor_depan" json:"file_foto_kantor_depan" validate:"required"`
	FileFotoPapanNama   string `bson:"file_foto_papan_nama" json:"file_foto_papan_nama" validate:"required"`
}

func (OfficeAddress) RecordType() RecordType { return RecordOffice }
func (OfficeAddress) sealed()                {}

func (o OfficeAddress) Validate() error {
	return requireFields(map[string]string{
		"provinsi":               o.Provinsi,
		"kabupaten_kota":         o.KabupatenKota,
		"kecamatan":              o.Kecamatan,
		"alamat_lengkap":         o.AlamatLengkap,
		"file_foto_kantor_depan": o.FileFotoKantorDepan,
		"file_foto_papan_nama":   o.FileFotoPapanNama,
	})
}

// LegalityKind is the kind of document proving the unit may use its office.
type LegalityKind string

const (
	LegalitySewa        LegalityKind = "sewa"
	LegalityPernyataan  LegalityKind = "pernyataan"
	LegalityKepemilikan LegalityKind = "kepemilikan"
)

var legalityLabels = map[LegalityKind]string{
	LegalitySewa:        "Surat Sewa",
	LegalityPernyataan:  "Surat Pernyataan",
	LegalityKepemilikan: "Bukti Kepemilikan",
}

func (k LegalityKind) Valid() bool {
	_, ok := legalityLabels[k]
	return ok
}

func (k LegalityKind) Label() string {
	if l, ok := legalityLabels[k]; ok {
		return l
	}
	return string(k)
}

type OfficeLegality struct {
	JenisDokumen         LegalityKind `bson:"jenis_dokumen" json:"jenis_dokumen" validate:"required,oneof=sewa pernyataan kepemilikan"`
	FileDokumenLegalitas string       `bson:"file_dokumen_legalitas" json:"file_dokumen_legalitas" validate:"required"`
	Keterangan           string       `bson:"keterangan,omitempty" json:"keterangan,omitempty"`
}

func (OfficeLegality) RecordType() RecordType { return RecordLegality }
func (OfficeLegality) sealed()                {}

func (l OfficeLegality) Validate() error {
	if err := requireFields(map[string]string{"file_dokumen_legalitas": l.FileDokumenLegalitas}); err != nil {
		return err
	}
	if !l.JenisDokumen.Valid() {
		return apperror.Validation("jenis_dokumen must be one of sewa, pernyataan, kepemilikan")
	}
	return nil
}

// Record is one administrative document of a unit with its review track.
// Exactly one of Bank, Office and Legality is set, matching Type.
type Record struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UnitID    string             `bson:"unit_id" json:"unit_id"`
	Type      RecordType         `bson:"type" json:"type"`
	Bank      *BankAccount       `bson:"bank,omitempty" json:"bank,omitempty"`
	Office    *OfficeAddress     `bson:"office,omitempty" json:"office,omitempty"`
	Legality  *OfficeLegality    `bson:"legality,omitempty" json:"legality,omitempty"`
	Approval  approval.Track     `bson:"approval" json:"approval"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Fields returns the populated payload, or nil for a malformed record.
func (r Record) Fields() Fields {
	switch {
	case r.Type == RecordBank && r.Bank != nil:
		return *r.Bank
	case r.Type == RecordOffice && r.Office != nil:
		return *r.Office
	case r.Type == RecordLegality && r.Legality != nil:
		return *r.Legality
	default:
		return nil
	}
}

// OverallStatus aggregates the three tracks of a unit.
type OverallStatus string

const (
	OverallIncomplete   OverallStatus = "incomplete"
	OverallHasRejection OverallStatus = "has_rejection"
	OverallPending      OverallStatus = "pending"
	OverallAllApproved  OverallStatus = "all_approved"
)

var overallLabels = map[OverallStatus]string{
	OverallIncomplete:   "Belum Lengkap",
	OverallHasRejection: "Ada Penolakan",
	OverallPending:      "Menunggu Verifikasi",
	OverallAllApproved:  "Semua Disetujui",
}

func ParseOverallStatus(s string) (OverallStatus, bool) {
	o := OverallStatus(s)
	_, ok := overallLabels[o]
	return o, ok
}

func (o OverallStatus) Label() string {
	if l, ok := overallLabels[o]; ok {
		return l
	}
	return string(o)
}

// ComputeOverallStatus derives the aggregate from the tracks of the records that exist.
// Rejection is checked first so it outranks approval of the other documents.
func ComputeOverallStatus(tracks map[RecordType]approval.Status) OverallStatus {
	if len(tracks) == 0 {
		return OverallIncomplete
	}
	for _, st := range tracks {
		if st == approval.StatusRejected {
			return OverallHasRejection
		}
	}
	for _, t := range RecordTypes {
		if st, ok := tracks[t]; !ok || st != approval.StatusApproved {
			return OverallPending
		}
	}
	return OverallAllApproved
}

func requireFields(fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return apperror.Validation("missing %s", strings.Join(missing, ", "))
}
