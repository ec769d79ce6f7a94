package pengurus

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StrukturBiro is the sub-divided structural category. Its entries need a
// bidang and are left out of the gender quota.
const StrukturBiro = "Biro-Biro"

type Gender string

const (
	GenderLaki      Gender = "Laki-laki"
	GenderPerempuan Gender = "Perempuan"
)

func (g Gender) Valid() bool {
	return g == GenderLaki || g == GenderPerempuan
}

// Entry is one line of a submission's leadership roster.
// FileKTP is an opaque reference to the uploaded ID document.
type Entry struct {
	JenisStruktur  string `bson:"jenis_struktur" json:"jenis_struktur"`
	BidangStruktur string `bson:"bidang_struktur,omitempty" json:"bidang_struktur,omitempty"`
	Jabatan        string `bson:"jabatan" json:"jabatan"`
	NamaLengkap    string `bson:"nama_lengkap" json:"nama_lengkap"`
	JenisKelamin   Gender `bson:"jenis_kelamin" json:"jenis_kelamin"`
	FileKTP        string `bson:"file_ktp" json:"file_ktp"`
	Urutan         int    `bson:"urutan" json:"urutan"`
}

// Stats summarises the gender make-up of the non-Biro part of a roster.
type Stats struct {
	Total      int     `json:"total"`
	Perempuan  int     `json:"perempuan"`
	Percentage float64 `json:"percentage"`
}

// CustomJabatan is a unit-defined title offered alongside the built-in ones.
type CustomJabatan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UnitID        string             `bson:"unit_id" json:"unit_id"`
	JenisStruktur string             `bson:"jenis_struktur" json:"jenis_struktur"`
	NamaJabatan   string             `bson:"nama_jabatan" json:"nama_jabatan"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
