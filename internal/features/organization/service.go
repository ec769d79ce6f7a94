package organization

import (
	"context"
	"time"

	"sk-pengajuan/internal/common/apperror"
	common_models "sk-pengajuan/internal/common/models"

	"go.uber.org/zap"
)

type UnitInput struct {
	Type          UnitType `json:"tipe_organisasi" validate:"required,oneof=dpd dpc pac"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Provinsi      string   `json:"provinsi" validate:"required"`
	KabupatenKota string   `json:"kabupaten_kota"`
	Kecamatan     string   `json:"kecamatan"`
}

type UnitService interface {
	GetMine(ctx context.Context, actor common_models.Actor) (*Unit, error)
	SaveMine(ctx context.Context, actor common_models.Actor, input UnitInput) (*Unit, error)
	Get(ctx context.Context, id string) (*Unit, error)
	// Lookup returns the known units keyed by id; unknown ids are omitted.
	Lookup(ctx context.Context, ids []string) (map[string]Unit, error)
	List(ctx context.Context) ([]Unit, error)
}

type UnitServiceImpl struct {
	Repo   UnitRepository
	Logger *zap.Logger
	now    func() time.Time
}

func NewUnitService(repo UnitRepository, logger *zap.Logger) UnitService {
	return &UnitServiceImpl{Repo: repo, Logger: logger, now: time.Now}
}

func (s *UnitServiceImpl) GetMine(ctx context.Context, actor common_models.Actor) (*Unit, error) {
	if actor.Role != common_models.RoleOwner || actor.UnitID == "" {
		return nil, apperror.Unauthorized("only an organization owner has a unit profile")
	}
	return s.Get(ctx, actor.UnitID)
}

func (s *UnitServiceImpl) SaveMine(ctx context.Context, actor common_models.Actor, input UnitInput) (*Unit, error) {
	if actor.Role != common_models.RoleOwner || actor.UnitID == "" {
		return nil, apperror.Unauthorized("only an organization owner may edit its unit profile")
	}

	now := s.now()
	unit := &Unit{
		ID:            actor.UnitID,
		Type:          input.Type,
		Email:         input.Email,
		Provinsi:      input.Provinsi,
		KabupatenKota: input.KabupatenKota,
		Kecamatan:     input.Kecamatan,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := unit.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Upsert(ctx, unit); err != nil {
		return nil, err
	}
	s.Logger.Info("Unit profile saved",
		zap.String("unit_id", unit.ID),
		zap.String("actor_id", actor.ID),
		zap.String("type", string(unit.Type)),
	)
	return s.Get(ctx, unit.ID)
}

func (s *UnitServiceImpl) Get(ctx context.Context, id string) (*Unit, error) {
	unit, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, apperror.NotFound("unit %s", id)
	}
	return unit, nil
}

func (s *UnitServiceImpl) Lookup(ctx context.Context, ids []string) (map[string]Unit, error) {
	units, err := s.Repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Unit, len(units))
	for _, u := range units {
		byID[u.ID] = u
	}
	return byID, nil
}

func (s *UnitServiceImpl) List(ctx context.Context) ([]Unit, error) {
	return s.Repo.List(ctx)
}
