package pengurus

import (
	"context"
	"errors"
	"testing"
	"time"

	"sk-pengajuan/internal/common/apperror"
	common_models "sk-pengajuan/internal/common/models"

	"go.uber.org/zap"
)

type MockCustomJabatanRepo struct {
	items []CustomJabatan
}

func (m *MockCustomJabatanRepo) Create(ctx context.Context, cj *CustomJabatan) error {
	m.items = append(m.items, *cj)
	return nil
}

func (m *MockCustomJabatanRepo) ListByUnit(ctx context.Context, unitID string) ([]CustomJabatan, error) {
	var out []CustomJabatan
	for _, cj := range m.items {
		if cj.UnitID == unitID {
			out = append(out, cj)
		}
	}
	return out, nil
}

func (m *MockCustomJabatanRepo) EnsureIndexes(ctx context.Context) error { return nil }

func TestAddCustomJabatan(t *testing.T) {
	repo := &MockCustomJabatanRepo{}
	svc := &CustomJabatanServiceImpl{Repo: repo, Logger: zap.NewNop(), now: time.Now}
	ctx := context.Background()
	owner := common_models.Actor{ID: "u1", Role: common_models.RoleOwner, UnitID: "unit-1"}
	other := common_models.Actor{ID: "u2", Role: common_models.RoleOwner, UnitID: "unit-2"}

	if _, err := svc.Add(ctx, owner, CustomJabatanInput{JenisStruktur: "Pengurus Harian", NamaJabatan: "Wakil Bendahara"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	_, err := svc.Add(ctx, owner, CustomJabatanInput{JenisStruktur: "Pengurus Harian", NamaJabatan: " Wakil Bendahara "})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate Add() error = %v, want ErrConflict", err)
	}

	if _, err := svc.Add(ctx, owner, CustomJabatanInput{JenisStruktur: StrukturBiro, NamaJabatan: "Wakil Bendahara"}); err != nil {
		t.Errorf("same title in another category error = %v", err)
	}
	if _, err := svc.Add(ctx, other, CustomJabatanInput{JenisStruktur: "Pengurus Harian", NamaJabatan: "Wakil Bendahara"}); err != nil {
		t.Errorf("same title in another unit error = %v", err)
	}

	list, _ := svc.List(ctx, owner)
	if len(list) != 2 {
		t.Errorf("List() = %d items, want 2", len(list))
	}

	reviewer := common_models.Actor{ID: "okk", Role: common_models.RoleOKK}
	if _, err := svc.Add(ctx, reviewer, CustomJabatanInput{JenisStruktur: "a", NamaJabatan: "b"}); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("reviewer Add() error = %v, want ErrUnauthorized", err)
	}
}
