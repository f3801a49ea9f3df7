package auth

import (
	internal "github.com/frahmantamala/leave-management/internal"
)

// Action is the closed set of things a caller can attempt. Deciding a leave
// is split by applicant role so the faculty-cannot-decide-faculty rule lives
// in the matrix itself instead of a special case at the call site.
type Action string

const (
	ActionApplyLeave         Action = "apply_leave"
	ActionViewOwnLeaves      Action = "view_own_leaves"
	ActionViewPendingQueue   Action = "view_pending_queue"
	ActionDecideStudentLeave Action = "decide_student_leave"
	ActionDecideFacultyLeave Action = "decide_faculty_leave"
	ActionViewStats          Action = "view_stats"
)

// Actions lists every action, in a stable order, for exhaustive matrix tests.
var Actions = []Action{
	ActionApplyLeave,
	ActionViewOwnLeaves,
	ActionViewPendingQueue,
	ActionDecideStudentLeave,
	ActionDecideFacultyLeave,
	ActionViewStats,
}

// permissionMatrix is the single source of truth for role-based access.
var permissionMatrix = map[Role]map[Action]bool{
	RoleStudent: {
		ActionApplyLeave:         true,
		ActionViewOwnLeaves:      true,
		ActionViewPendingQueue:   false,
		ActionDecideStudentLeave: false,
		ActionDecideFacultyLeave: false,
		ActionViewStats:          true,
	},
	RoleFaculty: {
		ActionApplyLeave:         true,
		ActionViewOwnLeaves:      true,
		ActionViewPendingQueue:   true,
		ActionDecideStudentLeave: true,
		ActionDecideFacultyLeave: false,
		ActionViewStats:          true,
	},
	RoleAdmin: {
		ActionApplyLeave:         false,
		ActionViewOwnLeaves:      true,
		ActionViewPendingQueue:   true,
		ActionDecideStudentLeave: true,
		ActionDecideFacultyLeave: true,
		ActionViewStats:          true,
	},
}

// Allowed reports whether role may perform action. Unknown roles get nothing.
func Allowed(role Role, action Action) bool {
	perms, ok := permissionMatrix[role]
	if !ok {
		return false
	}
	return perms[action]
}

// DecideAction maps the applicant's role to the decide action a reviewer
// needs. Admins cannot apply, so only student and faculty leaves exist.
func DecideAction(applicant Role) Action {
	if applicant == RoleFaculty {
		return ActionDecideFacultyLeave
	}
	return ActionDecideStudentLeave
}

// CanReview reports whether the role may see the pending queue at all.
// Used by the route gate; the queue contents are narrowed by PendingScope.
func CanReview(role Role) bool {
	return Allowed(role, ActionViewPendingQueue)
}

// LeaveScope narrows a leave query to the subset the caller may see.
// Nil fields mean no constraint.
type LeaveScope struct {
	ApplicantID   *int64
	ApplicantRole *Role
}

// PendingScope returns the pending-queue scope for the caller: faculty see
// student leaves only, admins see everything, students are refused.
func PendingScope(ident Identity) (LeaveScope, error) {
	if !Allowed(ident.Role, ActionViewPendingQueue) {
		return LeaveScope{}, internal.ErrRoleNotPermitted
	}
	if ident.Role == RoleFaculty {
		studentRole := RoleStudent
		return LeaveScope{ApplicantRole: &studentRole}, nil
	}
	return LeaveScope{}, nil
}

// StatsScope returns the statistics scope for the caller: students see their
// own leaves, faculty see student leaves, admins see everything.
func StatsScope(ident Identity) LeaveScope {
	switch ident.Role {
	case RoleStudent:
		id := ident.ID
		return LeaveScope{ApplicantID: &id}
	case RoleFaculty:
		studentRole := RoleStudent
		return LeaveScope{ApplicantRole: &studentRole}
	default:
		return LeaveScope{}
	}
}
