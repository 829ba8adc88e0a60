package engine

import "github.com/iliyamo/study-place-reservation/internal/model"

// Action identifies one facade operation for the role policy table.
type Action string

const (
	ActionCreateResource     Action = "create_resource"
	ActionDeleteResource     Action = "delete_resource"
	ActionToggleAvailability Action = "toggle_availability"
	ActionCreateReservation  Action = "create_reservation"
	ActionEditReservation    Action = "edit_reservation"
	ActionDecideReservation  Action = "decide_reservation"
	ActionDeleteReservation  Action = "delete_reservation"
	ActionReact              Action = "react"
	ActionListApprovals      Action = "list_approvals"
)

// rolePolicy is the authorization table: which roles may attempt each
// action.  Ownership and state conditions (caller owns the place,
// place is available, and so on) are enforced by the individual
// operations on top of this table.  Keeping the table as data makes
// the policy testable in one sweep instead of scattering role
// conditionals through the operations.
var rolePolicy = map[Action]map[model.Role]bool{
	ActionCreateResource:     staffOnly(),
	ActionDeleteResource:     staffOnly(),
	ActionToggleAvailability: staffOnly(),
	ActionCreateReservation:  {model.RoleStudent: true, model.RoleTeacher: true},
	ActionEditReservation:    {model.RoleStudent: true, model.RoleTeacher: true},
	ActionDecideReservation:  staffOnly(),
	ActionDeleteReservation:  anyRole(),
	ActionReact:              anyRole(),
	ActionListApprovals:      staffOnly(),
}

func staffOnly() map[model.Role]bool {
	return map[model.Role]bool{model.RoleLibraryStaff: true}
}

func anyRole() map[model.Role]bool {
	return map[model.Role]bool{
		model.RoleStudent:      true,
		model.RoleTeacher:      true,
		model.RoleLibraryStaff: true,
	}
}

// Allowed reports whether the policy table permits role to attempt
// action.  Unknown actions and unknown roles are always denied.
func Allowed(action Action, role model.Role) bool {
	return rolePolicy[action][role]
}

// Actor is the authenticated caller of a facade operation, as resolved
// by the identity collaborator (the JWT middleware).
type Actor struct {
	ID   uint64
	Role model.Role
}

// authorize rejects unauthenticated callers and callers whose role is
// outside the policy table entry for the action.
func authorize(action Action, actor Actor) error {
	if actor.ID == 0 || !actor.Role.Valid() {
		return ErrUnauthenticated
	}
	if !Allowed(action, actor.Role) {
		return ErrForbidden
	}
	return nil
}
