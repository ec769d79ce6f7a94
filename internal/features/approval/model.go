package approval

import (
	"time"
)

// Status is the tri-state outcome of a single review track.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var statusLabels = map[Status]string{
	StatusPending:  "Pending",
	StatusApproved: "Approved",
	StatusRejected: "Rejected",
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Track is the approval state embedded in every administrative record.
// VerifiedAt and VerifiedBy are only set once the track leaves pending.
type Track struct {
	Status     Status     `bson:"okk_status" json:"okk_status"`
	Verified   *bool      `bson:"okk_verified,omitempty" json:"okk_verified"`
	Notes      *string    `bson:"okk_notes,omitempty" json:"okk_notes"`
	VerifiedAt *time.Time `bson:"okk_verified_at,omitempty" json:"okk_verified_at"`
	VerifiedBy *string    `bson:"okk_verified_by,omitempty" json:"okk_verified_by"`
}

// NewTrack returns a track in its initial pending state.
func NewTrack() Track {
	return Track{Status: StatusPending}
}
