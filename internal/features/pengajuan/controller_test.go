package pengajuan

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sk-pengajuan/internal/common/apperror"
	"sk-pengajuan/internal/config"

	"github.com/gofiber/fiber/v2"
)

func newTestRouter(f *fixture) *fiber.App {
	app := fiber.New()
	NewSubmissionApi(NewSubmissionController(f.svc), &config.Config{SkipAuth: true}).Setup(app)
	return app
}

func TestTransitionRoutesCheckRoleBeforeBody(t *testing.T) {
	f := newFixture()
	app := newTestRouter(f)

	tests := []struct {
		name   string
		method string
		path   string
		role   string
		body   string
		want   int
	}{
		{"okk submits incomplete body", "POST", "/api/pengajuan/submit", "okk", `{}`, fiber.StatusForbidden},
		{"okk saves draft", "PUT", "/api/pengajuan/draft", "okk", `{"tanggal_musda":"x"}`, fiber.StatusForbidden},
		{"owner reviews", "POST", "/api/pengajuan/000000000000000000000000/review", "dpd-owner", `{}`, fiber.StatusForbidden},
		{"sekjend publishes", "POST", "/api/pengajuan/000000000000000000000000/publish", "sekjend", ``, fiber.StatusForbidden},
		{"ketum resubmits", "POST", "/api/pengajuan/000000000000000000000000/resubmit", "ketum", `{}`, fiber.StatusForbidden},
		{"owner submits incomplete body", "POST", "/api/pengajuan/submit", "dpd-owner", `{}`, fiber.StatusBadRequest},
		{"okk reviews without decision", "POST", "/api/pengajuan/000000000000000000000000/review", "okk", `{}`, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Dev-Role", tt.role)

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}

	if f.repo.writes != 0 {
		t.Errorf("rejected requests wrote %d times", f.repo.writes)
	}
}

func TestToInputParsesDate(t *testing.T) {
	in, err := toInput("2025-05-20", "Bandung", "laporan.pdf", nil)
	if err != nil {
		t.Fatalf("toInput() error = %v", err)
	}
	if !in.TanggalMusda.Equal(time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("TanggalMusda = %v", in.TanggalMusda)
	}

	if _, err := toInput("20-05-2025", "Bandung", "laporan.pdf", nil); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("toInput(bad date) error = %v, want ErrValidation", err)
	}

	empty, err := toInput("", "", "", nil)
	if err != nil || !empty.TanggalMusda.IsZero() {
		t.Errorf("toInput(\"\") = %v, %v; drafts may omit the date", empty.TanggalMusda, err)
	}
}
