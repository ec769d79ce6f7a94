package pengajuan

import (
	common_models "sk-pengajuan/internal/common/models"
)

// Authorize reports whether role may trigger action while the submission is in state.
// Unknown combinations are simply false.
func Authorize(role common_models.Role, action Action, state Status) bool {
	t, ok := transitions[transitionKey{state, action}]
	return ok && t.role == role
}

// CanPerform reports whether role triggers action from at least one state.
func CanPerform(role common_models.Role, action Action) bool {
	for key, t := range transitions {
		if key.action == action && t.role == role {
			return true
		}
	}
	return false
}

// AllowedActions lists what role may do to a submission in state.
func AllowedActions(role common_models.Role, state Status) []Action {
	var actions []Action
	for _, a := range []Action{ActionSubmit, ActionApprove, ActionReject, ActionPublish, ActionResubmit} {
		if Authorize(role, a, state) {
			actions = append(actions, a)
		}
	}
	return actions
}

// ReviewQueue lists the states in which a submission waits on role, in pipeline order.
func ReviewQueue(role common_models.Role) []Status {
	if !role.IsReviewer() {
		return nil
	}
	var states []Status
	for _, st := range Statuses {
		if len(AllowedActions(role, st)) > 0 {
			states = append(states, st)
		}
	}
	return states
}

// NextReviewer returns the role a submission in state is waiting on, if any.
func NextReviewer(state Status) (common_models.Role, bool) {
	for _, role := range []common_models.Role{common_models.RoleOKK, common_models.RoleSekjend, common_models.RoleKetum} {
		if len(AllowedActions(role, state)) > 0 {
			return role, true
		}
	}
	return "", false
}
