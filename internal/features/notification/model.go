package notification

import (
	"time"

	common_models "sk-pengajuan/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
	NotificationTypeTask    NotificationType = "task"
)

// Notification is addressed either to one organization unit or to every holder of a reviewer role.
// ReadBy lists the actors who have read it, so a role-wide notice is tracked per reviewer.
type Notification struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecipientUnitID string             `bson:"recipient_unit_id,omitempty" json:"recipient_unit_id,omitempty"`
	RecipientRole   common_models.Role `bson:"recipient_role,omitempty" json:"recipient_role,omitempty"`
	Title           string             `bson:"title" json:"title"`
	Message         string             `bson:"message" json:"message"`
	Type            NotificationType   `bson:"type" json:"type"`
	Link            string             `bson:"link,omitempty" json:"link,omitempty"`
	ReadBy          []string           `bson:"read_by" json:"-"`
	IsRead          bool               `bson:"-" json:"is_read"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

// Draft is the content of a notification before it is addressed.
type Draft struct {
	Title   string
	Message string
	Type    NotificationType
	Link    string
}

// Audience selects the notifications visible to one actor.
type Audience struct {
	UnitID string
	Role   common_models.Role
}

// AudienceOf maps an owner to its unit and a reviewer to its role.
func AudienceOf(actor common_models.Actor) Audience {
	if actor.Role == common_models.RoleOwner {
		return Audience{UnitID: actor.UnitID}
	}
	return Audience{Role: actor.Role}
}

func (a Audience) Matches(n Notification) bool {
	if a.UnitID != "" {
		return n.RecipientUnitID == a.UnitID
	}
	return a.Role != "" && n.RecipientRole == a.Role
}

func (n *Notification) markReadFor(actorID string) {
	for _, id := range n.ReadBy {
		if id == actorID {
			n.IsRead = true
			return
		}
	}
	n.IsRead = false
}
