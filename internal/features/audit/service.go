package audit

import (
	"context"
	"time"

	common_models "sk-pengajuan/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SystemActorID is recorded for changes made by scheduled jobs.
const SystemActorID = "system"

type AuditService interface {
	LogChange(ctx context.Context, actor common_models.Actor, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error
	ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error)
	// ListHistory returns every change recorded for one record, oldest first.
	ListHistory(ctx context.Context, module string, recordID string) ([]common_models.AuditLog, error)
}

type AuditServiceImpl struct {
	Repo AuditRepository
	now  func() time.Time
}

func NewAuditService(repo AuditRepository) AuditService {
	return &AuditServiceImpl{
		Repo: repo,
		now:  time.Now,
	}
}

func (s *AuditServiceImpl) LogChange(ctx context.Context, actor common_models.Actor, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	actorID := actor.ID
	if actorID == "" {
		actorID = SystemActorID
	}

	log := common_models.AuditLog{
		ID:        primitive.NewObjectID(),
		Action:    action,
		Module:    module,
		RecordID:  recordID,
		ActorID:   actorID,
		ActorRole: actor.Role,
		Changes:   changes,
		Timestamp: s.now(),
	}

	return s.Repo.Create(ctx, log)
}

func (s *AuditServiceImpl) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.Repo.List(ctx, filters, limit, offset, true)
}

func (s *AuditServiceImpl) ListHistory(ctx context.Context, module string, recordID string) ([]common_models.AuditLog, error) {
	filters := map[string]interface{}{
		"module":    module,
		"record_id": recordID,
	}
	return s.Repo.List(ctx, filters, 0, 0, false)
}
