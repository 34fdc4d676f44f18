// Package policy holds the authorization decisions for events, attendee
// registrations and admin management. Every function is pure: callers pass
// the caller's identity and, where relevant, the owner of the resource.
//
// A permitted action returns nil. A denied one returns an error wrapping
// domain.ErrForbidden so that transport layers can tell it apart from an
// authentication failure.
package policy

import (
	"fmt"

	"github.com/eventhub/event-management/internal/core/domain"
)

// Action identifies the operation being authorized.
type Action string

const (
	ActionRegisterForEvent   Action = "register_for_event"
	ActionCancelRegistration Action = "cancel_registration"
	ActionCreateEvent        Action = "create_event"
	ActionUpdateEvent        Action = "update_event"
	ActionDeleteEvent        Action = "delete_event"
	ActionViewEvents         Action = "view_events"
	ActionListAttendees      Action = "list_attendees"
	ActionRegisterAdmin      Action = "register_admin"
)

func deny(action Action, role domain.Role) error {
	return fmt.Errorf("%w: %s not permitted for role %s", domain.ErrForbidden, action, role)
}

func anyMember(action Action, role domain.Role) error {
	if role.Valid() {
		return nil
	}
	return deny(action, role)
}

func adminOnly(action Action, role domain.Role) error {
	if role == domain.RoleAdmin {
		return nil
	}
	return deny(action, role)
}

// CanRegisterForEvent permits any member to sign up for an event.
func CanRegisterForEvent(role domain.Role) error {
	return anyMember(ActionRegisterForEvent, role)
}

// CanCancelRegistration does not check who owns the registration: any
// member may cancel any attendee record.
func CanCancelRegistration(role domain.Role) error {
	return anyMember(ActionCancelRegistration, role)
}

// CanCreateEvent permits any member; the caller becomes the creator.
func CanCreateEvent(role domain.Role) error {
	return anyMember(ActionCreateEvent, role)
}

// CanUpdateEvent permits the event's creator or any admin.
func CanUpdateEvent(callerID int64, role domain.Role, creatorID int64) error {
	if role == domain.RoleAdmin {
		return nil
	}
	if role.Valid() && callerID == creatorID {
		return nil
	}
	return deny(ActionUpdateEvent, role)
}

// CanDeleteEvent is reserved for admins, including for the event's creator.
func CanDeleteEvent(role domain.Role) error {
	return adminOnly(ActionDeleteEvent, role)
}

// CanViewEvents permits any member.
func CanViewEvents(role domain.Role) error {
	return anyMember(ActionViewEvents, role)
}

// CanListAttendees permits any member.
func CanListAttendees(role domain.Role) error {
	return anyMember(ActionListAttendees, role)
}

// CanRegisterAdmin lets an existing admin create another one.
func CanRegisterAdmin(role domain.Role) error {
	return adminOnly(ActionRegisterAdmin, role)
}
