package organization

import (
	"strings"
	"time"

	"sk-pengajuan/internal/common/apperror"
)

// UnitType is the tier of an organization unit.
type UnitType string

const (
	UnitTypeDPD UnitType = "dpd"
	UnitTypeDPC UnitType = "dpc"
	UnitTypePAC UnitType = "pac"
)

func (t UnitType) Valid() bool {
	return t == UnitTypeDPD || t == UnitTypeDPC || t == UnitTypePAC
}

// Unit is the profile of a DPD, DPC or PAC. The ID is the unit id carried in the owner's token.
type Unit struct {
	ID            string    `bson:"_id" json:"id"`
	Type          UnitType  `bson:"tipe_organisasi" json:"tipe_organisasi"`
	Email         string    `bson:"email,omitempty" json:"email,omitempty"`
	Provinsi      string    `bson:"provinsi" json:"provinsi"`
	KabupatenKota string    `bson:"kabupaten_kota,omitempty" json:"kabupaten_kota,omitempty"`
	Kecamatan     string    `bson:"kecamatan,omitempty" json:"kecamatan,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// Validate checks that the region fields required by the unit type are present:
// DPD needs a province, DPC adds the regency and PAC adds the district.
func (u Unit) Validate() error {
	if !u.Type.Valid() {
		return apperror.Validation("unknown organization type %q", u.Type)
	}
	if strings.TrimSpace(u.Provinsi) == "" {
		return apperror.Validation("provinsi is required")
	}
	if u.Type == UnitTypeDPD {
		return nil
	}
	if strings.TrimSpace(u.KabupatenKota) == "" {
		return apperror.Validation("kabupaten_kota is required for %s", strings.ToUpper(string(u.Type)))
	}
	if u.Type == UnitTypePAC && strings.TrimSpace(u.Kecamatan) == "" {
		return apperror.Validation("kecamatan is required for PAC")
	}
	return nil
}

// DisplayName renders the unit the way it is printed on documents.
func (u Unit) DisplayName() string {
	switch u.Type {
	case UnitTypeDPC:
		return "DPC " + u.KabupatenKota
	case UnitTypePAC:
		return "PAC Kec. " + u.Kecamatan
	default:
		return "DPD " + u.Provinsi
	}
}
