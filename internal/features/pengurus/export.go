package pengurus

import (
	"sort"

	"sk-pengajuan/pkg/utils"
)

var exportColumns = []string{"No", "Jenis Struktur", "Bidang", "Jabatan", "Nama Lengkap", "Jenis Kelamin", "File KTP"}

// Sorted returns a copy of the roster ordered by urutan.
func Sorted(list []Entry) []Entry {
	out := make([]Entry, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Urutan < out[j].Urutan })
	return out
}

// Export renders the roster as an XLSX workbook ordered by urutan.
func Export(list []Entry, filename string) ([]byte, string, error) {
	rows := make([][]any, 0, len(list))
	for _, e := range Sorted(list) {
		rows = append(rows, []any{
			e.Urutan,
			e.JenisStruktur,
			e.BidangStruktur,
			e.Jabatan,
			e.NamaLengkap,
			string(e.JenisKelamin),
			e.FileKTP,
		})
	}
	return utils.WriteSheet("Pengurus", exportColumns, rows, filename)
}
