package pengajuan

// Step is a named stage of the pipeline as shown on the progress timeline.
type Step string

const (
	StepUpload  Step = "upload"
	StepOKK     Step = "okk"
	StepSekjend Step = "sekjend"
	StepKetum   Step = "ketum"
	StepTerbit  Step = "terbit"
)

var Steps = []Step{StepUpload, StepOKK, StepSekjend, StepKetum, StepTerbit}

var stepLabels = map[Step]string{
	StepUpload:  "Upload Dokumen",
	StepOKK:     "Verifikasi OKK",
	StepSekjend: "Persetujuan Sekjend",
	StepKetum:   "Persetujuan Ketum",
	StepTerbit:  "SK Terbit",
}

type StepStatus string

const (
	StepCompleted StepStatus = "completed"
	StepCurrent   StepStatus = "current"
	StepPending   StepStatus = "pending"
	StepRejected  StepStatus = "rejected"
)

var progressValues = map[Status]int{
	StatusDraft:            10,
	StatusDiupload:         25,
	StatusDiverifikasiOKK:  50,
	StatusDitolakOKK:       25,
	StatusDisetujuiSekjend: 75,
	StatusDitolakSekjend:   50,
	StatusDisetujuiKetum:   90,
	StatusDitolakKetum:     75,
	StatusSKTerbit:         100,
}

// ProgressValue is the completion percentage shown for a status. Unknown statuses give 0.
func ProgressValue(s Status) int {
	return progressValues[s]
}

// Each step lists the statuses that leave it pending, mark it current and mark it rejected.
// Every other status counts as completed.
var stepMembership = map[Step]struct {
	pending  []Status
	current  []Status
	rejected []Status
}{
	StepUpload: {
		pending: []Status{StatusDraft},
		current: []Status{StatusDiupload},
	},
	StepOKK: {
		pending:  []Status{StatusDraft, StatusDiupload},
		current:  []Status{StatusDiverifikasiOKK},
		rejected: []Status{StatusDitolakOKK},
	},
	StepSekjend: {
		pending:  []Status{StatusDraft, StatusDiupload, StatusDiverifikasiOKK, StatusDitolakOKK},
		current:  []Status{StatusDisetujuiSekjend},
		rejected: []Status{StatusDitolakSekjend},
	},
	StepKetum: {
		pending:  []Status{StatusDraft, StatusDiupload, StatusDiverifikasiOKK, StatusDitolakOKK, StatusDisetujuiSekjend, StatusDitolakSekjend},
		current:  []Status{StatusDisetujuiKetum},
		rejected: []Status{StatusDitolakKetum},
	},
	StepTerbit: {
		pending: []Status{StatusDraft, StatusDiupload, StatusDiverifikasiOKK, StatusDitolakOKK, StatusDisetujuiSekjend, StatusDitolakSekjend, StatusDisetujuiKetum, StatusDitolakKetum},
	},
}

// StepStatusOf derives a step's state from the submission status alone.
// A nil submission leaves every step pending.
func StepStatusOf(step Step, s *Submission) StepStatus {
	if s == nil {
		return StepPending
	}
	m, ok := stepMembership[step]
	if !ok {
		return StepPending
	}
	switch {
	case contains(m.pending, s.Status):
		return StepPending
	case contains(m.rejected, s.Status):
		return StepRejected
	case contains(m.current, s.Status):
		return StepCurrent
	default:
		return StepCompleted
	}
}

type StepProgress struct {
	Step   Step       `json:"step"`
	Label  string     `json:"label"`
	Status StepStatus `json:"status"`
}

type Progress struct {
	Status      Status         `json:"status,omitempty"`
	StatusLabel string         `json:"status_label,omitempty"`
	Percentage  int            `json:"percentage"`
	Steps       []StepProgress `json:"steps"`
}

// Project builds the full progress view of a submission.
func Project(s *Submission) Progress {
	p := Progress{Steps: make([]StepProgress, 0, len(Steps))}
	if s != nil {
		p.Status = s.Status
		p.StatusLabel = s.Status.Label()
		p.Percentage = ProgressValue(s.Status)
	}
	for _, step := range Steps {
		p.Steps = append(p.Steps, StepProgress{
			Step:   step,
			Label:  stepLabels[step],
			Status: StepStatusOf(step, s),
		})
	}
	return p
}

func contains(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
