package pengajuan

import (
	"strings"
	"time"

	"sk-pengajuan/internal/common/apperror"
	common_models "sk-pengajuan/internal/common/models"
)

// Action is a transition trigger on a submission.
type Action string

const (
	ActionSubmit   Action = "submit"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionPublish  Action = "publish"
	ActionResubmit Action = "resubmit"
)

type transitionKey struct {
	from   Status
	action Action
}

type transition struct {
	role common_models.Role
	to   Status
}

// transitions is the complete set of legal moves. Anything absent is an invalid transition.
var transitions = map[transitionKey]transition{
	{StatusDraft, ActionSubmit}: {common_models.RoleOwner, StatusDiupload},

	{StatusDiupload, ActionApprove}: {common_models.RoleOKK, StatusDiverifikasiOKK},
	{StatusDiupload, ActionReject}:  {common_models.RoleOKK, StatusDitolakOKK},

	{StatusDiverifikasiOKK, ActionApprove}: {common_models.RoleSekjend, StatusDisetujuiSekjend},
	{StatusDiverifikasiOKK, ActionReject}:  {common_models.RoleSekjend, StatusDitolakSekjend},

	{StatusDisetujuiSekjend, ActionApprove}: {common_models.RoleKetum, StatusDisetujuiKetum},
	{StatusDisetujuiSekjend, ActionReject}:  {common_models.RoleKetum, StatusDitolakKetum},

	{StatusDisetujuiKetum, ActionPublish}: {common_models.RoleKetum, StatusSKTerbit},

	{StatusDitolakOKK, ActionResubmit}:     {common_models.RoleOwner, StatusDiupload},
	{StatusDitolakSekjend, ActionResubmit}: {common_models.RoleOwner, StatusDiupload},
	{StatusDitolakKetum, ActionResubmit}:   {common_models.RoleOwner, StatusDiupload},
}

// Apply validates and performs one transition, returning the updated copy.
// On error the returned submission is the input, unchanged.
//
// A role that never performs the action gets ErrUnauthorized; a role that may,
// but not from the current status, gets a *TransitionError. Rejections without
// a note fail with ErrValidation.
func Apply(s Submission, actor common_models.Actor, action Action, note string, at time.Time) (Submission, error) {
	if !CanPerform(actor.Role, action) {
		return s, apperror.Unauthorized("role %q may not %s a submission", actor.Role, action)
	}
	if !Authorize(actor.Role, action, s.Status) {
		return s, &apperror.TransitionError{From: string(s.Status), Action: string(action), Role: string(actor.Role)}
	}

	note = strings.TrimSpace(note)
	if action == ActionReject && note == "" {
		return s, apperror.Validation("a revision note is required when rejecting")
	}

	t := transitions[transitionKey{s.Status, action}]
	next := s
	next.Status = t.to
	next.UpdatedAt = at

	stamp := at
	by := actor.ID

	switch action {
	case ActionSubmit:
		next.SubmittedAt, next.SubmittedBy = &stamp, &by
	case ActionResubmit:
		next.SubmittedAt, next.SubmittedBy = &stamp, &by
		next.CatatanRevisi = nil
		next.VerifiedOKKAt, next.VerifiedOKKBy = nil, nil
		next.ApprovedSekjendAt, next.ApprovedSekjendBy = nil, nil
		next.ApprovedKetumAt, next.ApprovedKetumBy = nil, nil
		next.RejectedAt, next.RejectedBy = nil, nil
	case ActionApprove:
		switch t.to {
		case StatusDiverifikasiOKK:
			next.VerifiedOKKAt, next.VerifiedOKKBy = &stamp, &by
		case StatusDisetujuiSekjend:
			next.ApprovedSekjendAt, next.ApprovedSekjendBy = &stamp, &by
		case StatusDisetujuiKetum:
			next.ApprovedKetumAt, next.ApprovedKetumBy = &stamp, &by
		}
	case ActionReject:
		next.CatatanRevisi = &note
		next.RejectedAt, next.RejectedBy = &stamp, &by
	case ActionPublish:
		next.SKTerbitAt, next.SKTerbitBy = &stamp, &by
	}

	return next, nil
}

// ActionFor maps a reviewer decision to its transition trigger.
func ActionFor(d common_models.Decision) (Action, error) {
	switch d {
	case common_models.DecisionApprove:
		return ActionApprove, nil
	case common_models.DecisionReject:
		return ActionReject, nil
	default:
		return "", apperror.Validation("decision must be %q or %q", common_models.DecisionApprove, common_models.DecisionReject)
	}
}
