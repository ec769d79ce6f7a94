package pengurus

import (
	"fmt"
	"strings"

	"sk-pengajuan/internal/common/apperror"
)

// DefaultQuotaPercent is the minimum share of women among non-Biro pengurus.
const DefaultQuotaPercent = 30

// RosterValidator checks roster entries and the gender quota.
type RosterValidator struct {
	QuotaPercent float64
}

func NewRosterValidator(quotaPercent float64) *RosterValidator {
	if quotaPercent <= 0 {
		quotaPercent = DefaultQuotaPercent
	}
	return &RosterValidator{QuotaPercent: quotaPercent}
}

// ValidateEntry requires every identifying field, plus the bidang for Biro-Biro entries.
func ValidateEntry(e Entry) error {
	var missing []string
	if blank(e.JenisStruktur) {
		missing = append(missing, "jenis_struktur")
	}
	if blank(e.Jabatan) {
		missing = append(missing, "jabatan")
	}
	if blank(e.NamaLengkap) {
		missing = append(missing, "nama_lengkap")
	}
	if blank(string(e.JenisKelamin)) {
		missing = append(missing, "jenis_kelamin")
	}
	if blank(e.FileKTP) {
		missing = append(missing, "file_ktp")
	}
	if len(missing) > 0 {
		return apperror.Validation("missing %s", strings.Join(missing, ", "))
	}
	if !e.JenisKelamin.Valid() {
		return apperror.Validation("jenis_kelamin must be %q or %q", GenderLaki, GenderPerempuan)
	}
	if e.JenisStruktur == StrukturBiro && blank(e.BidangStruktur) {
		return apperror.Validation("bidang_struktur is required for %s", StrukturBiro)
	}
	return nil
}

// ComputeStats counts women among non-Biro entries. Percentage is 0 for an empty remainder.
func ComputeStats(list []Entry) Stats {
	var s Stats
	for _, e := range list {
		if e.JenisStruktur == StrukturBiro {
			continue
		}
		s.Total++
		if e.JenisKelamin == GenderPerempuan {
			s.Perempuan++
		}
	}
	if s.Total > 0 {
		s.Percentage = float64(s.Perempuan) / float64(s.Total) * 100
	}
	return s
}

// ValidateGenderRepresentation reports whether the non-Biro remainder meets the quota.
// An empty remainder never satisfies it.
func (v *RosterValidator) ValidateGenderRepresentation(list []Entry) bool {
	s := ComputeStats(list)
	if s.Total == 0 {
		return false
	}
	return float64(s.Perempuan*100) >= v.QuotaPercent*float64(s.Total)
}

// ValidateRoster runs every check a roster must pass before it can be submitted.
func (v *RosterValidator) ValidateRoster(list []Entry) error {
	if len(list) == 0 {
		return apperror.Validation("roster must contain at least one pengurus")
	}
	for i, e := range list {
		if err := ValidateEntry(e); err != nil {
			return fmt.Errorf("pengurus #%d: %w", i+1, err)
		}
	}
	if !v.ValidateGenderRepresentation(list) {
		s := ComputeStats(list)
		return apperror.Validation("female representation outside %s is %.1f%%, at least %.0f%% is required",
			StrukturBiro, s.Percentage, v.QuotaPercent)
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
