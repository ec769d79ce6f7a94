package pengurus

import (
	"context"
	"strings"
	"time"

	"sk-pengajuan/internal/common/apperror"
	common_models "sk-pengajuan/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type CustomJabatanInput struct {
	JenisStruktur string `json:"jenis_struktur" validate:"required"`
	NamaJabatan   string `json:"nama_jabatan" validate:"required"`
}

type CustomJabatanService interface {
	Add(ctx context.Context, actor common_models.Actor, input CustomJabatanInput) (*CustomJabatan, error)
	List(ctx context.Context, actor common_models.Actor) ([]CustomJabatan, error)
}

type CustomJabatanServiceImpl struct {
	Repo   CustomJabatanRepository
	Logger *zap.Logger
	now    func() time.Time
}

func NewCustomJabatanService(repo CustomJabatanRepository, logger *zap.Logger) CustomJabatanService {
	return &CustomJabatanServiceImpl{Repo: repo, Logger: logger, now: time.Now}
}

func (s *CustomJabatanServiceImpl) Add(ctx context.Context, actor common_models.Actor, input CustomJabatanInput) (*CustomJabatan, error) {
	if actor.Role != common_models.RoleOwner || actor.UnitID == "" {
		return nil, apperror.Unauthorized("only an organization owner may add custom jabatan")
	}

	jenis := strings.TrimSpace(input.JenisStruktur)
	nama := strings.TrimSpace(input.NamaJabatan)
	if jenis == "" || nama == "" {
		return nil, apperror.Validation("jenis_struktur and nama_jabatan are required")
	}

	existing, err := s.Repo.ListByUnit(ctx, actor.UnitID)
	if err != nil {
		return nil, err
	}
	for _, cj := range existing {
		if cj.JenisStruktur == jenis && cj.NamaJabatan == nama {
			return nil, apperror.Conflict("jabatan %q already exists in %s", nama, jenis)
		}
	}

	cj := &CustomJabatan{
		ID:            primitive.NewObjectID(),
		UnitID:        actor.UnitID,
		JenisStruktur: jenis,
		NamaJabatan:   nama,
		CreatedAt:     s.now(),
	}
	if err := s.Repo.Create(ctx, cj); err != nil {
		return nil, err
	}

	s.Logger.Info("Custom jabatan added",
		zap.String("unit_id", actor.UnitID),
		zap.String("jenis_struktur", jenis),
		zap.String("nama_jabatan", nama),
	)
	return cj, nil
}

func (s *CustomJabatanServiceImpl) List(ctx context.Context, actor common_models.Actor) ([]CustomJabatan, error) {
	if actor.Role != common_models.RoleOwner || actor.UnitID == "" {
		return nil, apperror.Unauthorized("custom jabatan belong to an organization unit")
	}
	return s.Repo.ListByUnit(ctx, actor.UnitID)
}
