package pengurus

import (
	"errors"
	"strings"
	"testing"

	"sk-pengajuan/internal/common/apperror"
)

func entry(struktur string, gender Gender) Entry {
	e := Entry{
		JenisStruktur: struktur,
		Jabatan:       "Anggota",
		NamaLengkap:   "Nama",
		JenisKelamin:  gender,
		FileKTP:       "ktp/1.jpg",
	}
	if struktur == StrukturBiro {
		e.BidangStruktur = "Biro Hukum"
	}
	return e
}

func TestValidateEntry(t *testing.T) {
	t.Parallel()

	valid := entry("Pengurus Harian", GenderLaki)

	tests := []struct {
		name    string
		mutate  func(*Entry)
		wantErr string
	}{
		{"valid", func(e *Entry) {}, ""},
		{"missing jabatan", func(e *Entry) { e.Jabatan = " " }, "jabatan"},
		{"missing several", func(e *Entry) { e.NamaLengkap = ""; e.FileKTP = "" }, "nama_lengkap, file_ktp"},
		{"unknown gender", func(e *Entry) { e.JenisKelamin = "L" }, "jenis_kelamin"},
		{"biro without bidang", func(e *Entry) { e.JenisStruktur = StrukturBiro }, "bidang_struktur"},
		{"biro with bidang", func(e *Entry) { e.JenisStruktur = StrukturBiro; e.BidangStruktur = "Biro Hukum" }, ""},
		{"bidang ignored outside biro", func(e *Entry) { e.BidangStruktur = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := ValidateEntry(e)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateEntry() error = %v", err)
				}
				return
			}
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("ValidateEntry() error = %v, want ErrValidation", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateGenderRepresentation(t *testing.T) {
	t.Parallel()

	v := NewRosterValidator(0)
	F, M := GenderPerempuan, GenderLaki
	harian := "Pengurus Harian"

	tests := []struct {
		name string
		list []Entry
		want bool
	}{
		{"one in three", []Entry{entry(harian, F), entry(harian, M), entry(harian, M)}, true},
		{"one in four", []Entry{entry(harian, M), entry(harian, M), entry(harian, M), entry(harian, F)}, false},
		{"exactly thirty percent", append(repeat(entry(harian, F), 3), repeat(entry(harian, M), 7)...), true},
		{"only biro", []Entry{entry(StrukturBiro, M), entry(StrukturBiro, F)}, false},
		{"empty", nil, false},
		{"biro women do not count", []Entry{entry(harian, M), entry(harian, M), entry(StrukturBiro, F), entry(StrukturBiro, F)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.ValidateGenderRepresentation(tt.list); got != tt.want {
				t.Errorf("ValidateGenderRepresentation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeStats(t *testing.T) {
	t.Parallel()

	got := ComputeStats([]Entry{
		entry("Pengurus Harian", GenderPerempuan),
		entry("Pengurus Harian", GenderLaki),
		entry(StrukturBiro, GenderPerempuan),
		entry("Wakil", GenderLaki),
	})
	if got.Total != 3 || got.Perempuan != 1 {
		t.Errorf("ComputeStats() = %+v, want total 3 perempuan 1", got)
	}
	if got.Percentage < 33.3 || got.Percentage > 33.4 {
		t.Errorf("Percentage = %v, want ~33.3", got.Percentage)
	}

	if empty := ComputeStats([]Entry{entry(StrukturBiro, GenderPerempuan)}); empty.Total != 0 || empty.Percentage != 0 {
		t.Errorf("ComputeStats(only biro) = %+v, want zero stats", empty)
	}
}

func TestValidateRoster(t *testing.T) {
	t.Parallel()

	v := NewRosterValidator(30)

	if err := v.ValidateRoster(nil); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("empty roster error = %v, want ErrValidation", err)
	}

	bad := []Entry{entry("Ketua", GenderPerempuan), {JenisStruktur: "Ketua"}}
	err := v.ValidateRoster(bad)
	if !errors.Is(err, apperror.ErrValidation) || !strings.Contains(err.Error(), "pengurus #2") {
		t.Errorf("invalid entry error = %v, want ErrValidation naming entry #2", err)
	}

	quota := []Entry{entry("Ketua", GenderLaki), entry("Sekretaris", GenderLaki)}
	if err := v.ValidateRoster(quota); !errors.Is(err, apperror.ErrValidation) || !strings.Contains(err.Error(), "30%") {
		t.Errorf("quota error = %v", err)
	}

	if err := v.ValidateRoster([]Entry{entry("Ketua", GenderPerempuan), entry("Sekretaris", GenderLaki)}); err != nil {
		t.Errorf("valid roster error = %v", err)
	}
}

func TestRosterValidatorQuotaIsConfigurable(t *testing.T) {
	t.Parallel()

	list := []Entry{entry("Ketua", GenderPerempuan), entry("Wakil", GenderLaki), entry("Sekretaris", GenderLaki)}
	if NewRosterValidator(50).ValidateGenderRepresentation(list) {
		t.Error("one in three should fail a 50% quota")
	}
	if !NewRosterValidator(25).ValidateGenderRepresentation(list) {
		t.Error("one in three should pass a 25% quota")
	}
}

func repeat(e Entry, n int) []Entry {
	out := make([]Entry, n)
	for i := range out {
		out[i] = e
	}
	return out
}
