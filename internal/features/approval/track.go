package approval

import (
	"strings"
	"time"

	"sk-pengajuan/internal/common/apperror"
	common_models "sk-pengajuan/internal/common/models"
)

// Approve moves a pending track to approved. Empty notes are stored as nil.
func (t Track) Approve(actorID string, notes string, at time.Time) (Track, error) {
	if t.Status != StatusPending {
		return t, &apperror.TransitionError{From: string(t.Status), Action: "approve"}
	}
	return decided(StatusApproved, actorID, optionalNote(notes), at), nil
}

// Reject moves a pending track to rejected. Notes are required.
func (t Track) Reject(actorID string, notes string, at time.Time) (Track, error) {
	if t.Status != StatusPending {
		return t, &apperror.TransitionError{From: string(t.Status), Action: "reject"}
	}
	note := optionalNote(notes)
	if note == nil {
		return t, apperror.Validation("notes are required when rejecting")
	}
	return decided(StatusRejected, actorID, note, at), nil
}

// Decide dispatches to Approve or Reject.
func (t Track) Decide(decision common_models.Decision, actorID string, notes string, at time.Time) (Track, error) {
	switch decision {
	case common_models.DecisionApprove:
		return t.Approve(actorID, notes, at)
	case common_models.DecisionReject:
		return t.Reject(actorID, notes, at)
	default:
		return t, apperror.Validation("unknown decision %q", decision)
	}
}

// Reset returns the track to pending and clears the verification fields.
func (t Track) Reset() Track {
	return NewTrack()
}

// IsDecided reports whether the track has left pending.
func (t Track) IsDecided() bool {
	return t.Status == StatusApproved || t.Status == StatusRejected
}

func decided(status Status, actorID string, notes *string, at time.Time) Track {
	verified := status == StatusApproved
	by := actorID
	stamp := at
	return Track{
		Status:     status,
		Verified:   &verified,
		Notes:      notes,
		VerifiedAt: &stamp,
		VerifiedBy: &by,
	}
}

func optionalNote(notes string) *string {
	trimmed := strings.TrimSpace(notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
