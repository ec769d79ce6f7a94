package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const (
	ActorKey ContextKey = "actor"
)

// Role is the role claim an actor uses when invoking an operation.
type Role string

const (
	RoleOwner   Role = "dpd-owner"
	RoleOKK     Role = "okk"
	RoleSekjend Role = "sekjend"
	RoleKetum   Role = "ketum"
)

var Roles = []Role{RoleOwner, RoleOKK, RoleSekjend, RoleKetum}

// ParseRole returns false for any value outside the closed role set.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// IsReviewer reports whether the role belongs to the central review chain.
func (r Role) IsReviewer() bool {
	return r == RoleOKK || r == RoleSekjend || r == RoleKetum
}

// Actor is the resolved identity behind a request. UnitID is only set for owners.
type Actor struct {
	ID     string `json:"id"`
	Role   Role   `json:"role"`
	UnitID string `json:"unit_id,omitempty"`
}

// Decision is a reviewer's verdict on a submission or an administrative record.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func (d Decision) Valid() bool {
	return d == DecisionApprove || d == DecisionReject
}

type AuditAction string

const (
	AuditActionCreate    AuditAction = "CREATE"
	AuditActionUpdate    AuditAction = "UPDATE"
	AuditActionSubmit    AuditAction = "SUBMIT"
	AuditActionResubmit  AuditAction = "RESUBMIT"
	AuditActionApproval  AuditAction = "APPROVAL"
	AuditActionRejection AuditAction = "REJECTION"
	AuditActionPublish   AuditAction = "PUBLISH"
	AuditActionReset     AuditAction = "RESET"
	AuditActionCron      AuditAction = "CRON"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Module    string             `bson:"module" json:"module"`                       // pengajuan, administrasi, ...
	RecordID  string             `bson:"record_id" json:"record_id"`                 // The ID of the record being modified
	ActorID   string             `bson:"actor_id" json:"actor_id"`                   // User ID who performed the action
	ActorRole Role               `bson:"actor_role,omitempty" json:"actor_role,omitempty"`
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"` // field -> {old, new}
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

type Log struct {
	Message      string    `bson:"message" json:"message"`
	IpAddress    string    `bson:"ip_address" json:"ip_address"`
	ActorID      string    `bson:"actor_id,omitempty" json:"actor_id,omitempty"`
	Caller       string    `bson:"caller,omitempty" json:"caller,omitempty"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	AppId        string    `bson:"app_id" json:"app_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
