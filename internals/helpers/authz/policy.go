// Package authz is the single place that decides whether a role may perform
// an action. It is pure: no DB, no fiber context.
package authz

import (
	"github.com/google/uuid"

	"masjidfinder_backend/internals/constants"
	"masjidfinder_backend/internals/helpers/apperror"
)

type Action string

const (
	ActionReadPublic       Action = "read_public"
	ActionReadOwnProfile   Action = "read_own_profile"
	ActionUpdateOwnProfile Action = "update_own_profile"
	ActionListUsers        Action = "list_users"
	ActionUpdateUserRole   Action = "update_user_role"
	ActionCreateMasjid     Action = "create_masjid"
	ActionUpdateMasjid     Action = "update_masjid"
	ActionDeleteMasjid     Action = "delete_masjid"
	ActionSubmitRequest    Action = "submit_request"
	ActionReadOwnRequests  Action = "read_own_requests"
	ActionReadRequest      Action = "read_request"
	ActionDeleteRequest    Action = "delete_request"
	ActionListAllRequests  Action = "list_all_requests"
	ActionProcessRequest   Action = "process_request"
)

// Resource describes what the action touches. Zero value = no specific resource.
type Resource struct {
	// OwnerID: pemilik resource (requester dari sebuah request, atau user target profil)
	OwnerID uuid.UUID
	// TargetRole: role saat ini dari user target (untuk update_user_role)
	TargetRole string
	// NewRole: role yang mau di-assign (untuk update_user_role)
	NewRole string
}

type Actor struct {
	ID   uuid.UUID
	Role string
}

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision              { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

var userActions = map[Action]bool{
	ActionReadPublic:       true,
	ActionReadOwnProfile:   true,
	ActionUpdateOwnProfile: true,
	ActionSubmitRequest:    true,
	ActionReadOwnRequests:  true,
	ActionReadRequest:      true,
	ActionDeleteRequest:    true,
}

var adminActions = map[Action]bool{
	ActionCreateMasjid: true,
	ActionUpdateMasjid: true,
	ActionDeleteMasjid: true,
}

// Decide maps (actor, action, resource) to permit/deny.
func Decide(actor Actor, action Action, res Resource) Decision {
	if action == ActionReadPublic {
		return allow()
	}
	if !constants.IsKnownRole(actor.Role) {
		return deny("Unknown role")
	}

	// main_admin protection applies to everybody, main_admin included.
	if action == ActionUpdateUserRole {
		if res.TargetRole == constants.RoleMainAdmin {
			return deny("Cannot change main admin role")
		}
		if res.NewRole == constants.RoleMainAdmin {
			return deny("Main admin role cannot be assigned")
		}
	}

	if actor.Role == constants.RoleMainAdmin {
		return allow()
	}
	if actor.Role == constants.RoleAdmin && adminActions[action] {
		return allow()
	}
	if !userActions[action] {
		return deny(denyMessage(action))
	}
	// aksi "own" hanya untuk resource milik sendiri
	if res.OwnerID != uuid.Nil && res.OwnerID != actor.ID {
		return deny(denyMessage(action))
	}
	return allow()
}

// Authorize = Decide, tapi deny dikembalikan sebagai apperror Forbidden.
func Authorize(actor Actor, action Action, res Resource) error {
	d := Decide(actor, action, res)
	if d.Allowed {
		return nil
	}
	return apperror.Forbidden(d.Reason)
}

func denyMessage(action Action) string {
	switch action {
	case ActionUpdateUserRole:
		return "Only main admin can change user roles"
	case ActionListUsers:
		return constants.RoleErrorMainAdmin("list users")
	case ActionListAllRequests:
		return constants.RoleErrorMainAdmin("view all requests")
	case ActionProcessRequest:
		return constants.RoleErrorMainAdmin("process requests")
	case ActionCreateMasjid:
		return constants.RoleErrorAdmin("add masjids directly. Please submit a request.")
	case ActionUpdateMasjid:
		return constants.RoleErrorAdmin("update masjids directly. Please submit a request.")
	case ActionDeleteMasjid:
		return constants.RoleErrorAdmin("delete masjids directly. Please submit a request.")
	case ActionDeleteRequest:
		return "Not authorized to delete this request"
	case ActionReadRequest:
		return "Not authorized to access this request"
	default:
		return "Not authorized to perform this action"
	}
}
