package reminder

import (
	"time"

	common_models "sk-pengajuan/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// Run is a single execution of the backlog reminder.
type Run struct {
	ID        primitive.ObjectID           `json:"id" bson:"_id,omitempty"`
	Trigger   string                       `json:"trigger" bson:"trigger"` // "schedule" or the actor id of a manual run
	StartTime time.Time                    `json:"start_time" bson:"start_time"`
	EndTime   *time.Time                   `json:"end_time,omitempty" bson:"end_time,omitempty"`
	Status    RunStatus                    `json:"status" bson:"status"`
	Queues    map[common_models.Role]int64 `json:"queues,omitempty" bson:"queues,omitempty"`
	Notified  []common_models.Role         `json:"notified,omitempty" bson:"notified,omitempty"`
	Error     string                       `json:"error,omitempty" bson:"error,omitempty"`
}
