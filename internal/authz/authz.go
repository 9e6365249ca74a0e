// Package authz is the single policy decision point for ticket and
// building operations. Every mutating or sensitive-read entry point
// resolves the actor, loads the current target state from storage, and
// asks Authorize; no handler re-implements role checks on its own.
package authz

import (
	"errors"

	"homefix/internal/actor"
	"homefix/internal/model"
)

// Operation identifies a guarded operation.
type Operation string

const (
	OpViewTicket       Operation = "ViewTicket"
	OpDeleteTicket     Operation = "DeleteTicket"
	OpAssignContractor Operation = "AssignContractor"
	OpUpdateStatus     Operation = "UpdateStatus"
	OpUpdateComment    Operation = "UpdateComment"
	OpCreateTicket     Operation = "CreateTicket"
	OpCreateRating     Operation = "CreateRating"
	OpCreateBuilding   Operation = "CreateBuilding"
	OpInviteTenant     Operation = "InviteTenant"
)

// Target carries the minimal snapshot of the thing being acted on.
// BuildingID is always the ticket's building derived through its unit.
type Target struct {
	Ticket     *model.Ticket
	BuildingID uint
	HasRating  bool
}

// Deny reasons. Handlers map these to HTTP statuses and surface the
// message verbatim so the actor knows what to correct.
var (
	ErrNotAuthorized = errors.New("not authorized")
	ErrNotATenant    = errors.New("Korisnik nije registriran kao stanar.")
	ErrNotCreator    = errors.New("You can only rate tickets created by you")
	ErrNotResolved   = errors.New("You can only rate tickets that have been resolved")
	ErrAlreadyRated  = errors.New("Rating already exists for this ticket")
)

// DenyError wraps a deny reason with the operation-specific message the
// UI shows.
type DenyError struct {
	Op      Operation
	Reason  error
	Message string
}

func (e *DenyError) Error() string { return e.Message }
func (e *DenyError) Unwrap() error { return e.Reason }

func deny(op Operation, reason error, message string) error {
	return &DenyError{Op: op, Reason: reason, Message: message}
}

// Authorize decides whether the actor may perform op on the target.
// It returns nil to allow, or a DenyError. Deny overrides; the admin
// role overrides every rule except the creator-bound rating rule and
// the tenant-linkage requirement of ticket creation.
func Authorize(a *actor.Actor, op Operation, t Target) error {
	switch op {
	case OpViewTicket:
		if a.IsAdmin() || isCreator(a, t) || isAssignee(a, t) || isBuildingRepresentative(a, t) {
			return nil
		}
		return deny(op, ErrNotAuthorized, "Nemate ovlasti za pregled ovog ticketa.")

	case OpDeleteTicket:
		if a.IsAdmin() || isCreator(a, t) || isBuildingRepresentative(a, t) {
			return nil
		}
		return deny(op, ErrNotAuthorized, "Nemate ovlasti za brisanje ovog ticketa.")

	case OpAssignContractor:
		if a.IsAdmin() {
			return nil
		}
		if a.Role != model.RoleRepresentative {
			return deny(op, ErrNotAuthorized, "Samo predstavnik ili admin mogu dodijeliti majstora.")
		}
		if !isBuildingRepresentative(a, t) {
			return deny(op, ErrNotAuthorized, "Predstavnik nije dodijeljen ovoj zgradi.")
		}
		return nil

	case OpUpdateStatus:
		if a.IsAdmin() || isAssignee(a, t) {
			return nil
		}
		return deny(op, ErrNotAuthorized, "Nemate ovlasti za ažuriranje statusa ovog ticketa.")

	case OpUpdateComment:
		if a.IsAdmin() || isAssignee(a, t) {
			return nil
		}
		return deny(op, ErrNotAuthorized, "Nemate ovlasti za ažuriranje komentara ovog ticketa.")

	case OpCreateTicket:
		// Only a tenant with a resolved unit link can report an issue;
		// there is no admin override since a ticket needs a unit.
		if a.Role == model.RoleTenant && a.UnitID != 0 {
			return nil
		}
		return deny(op, ErrNotATenant, ErrNotATenant.Error())

	case OpCreateRating:
		// Creator-bound even for admins: a rating is the reporter's
		// judgement of the work done in their unit.
		if !isCreator(a, t) {
			return deny(op, ErrNotCreator, ErrNotCreator.Error())
		}
		if t.Ticket == nil || t.Ticket.Status != model.StatusResolved {
			return deny(op, ErrNotResolved, ErrNotResolved.Error())
		}
		if t.HasRating {
			return deny(op, ErrAlreadyRated, ErrAlreadyRated.Error())
		}
		return nil

	case OpCreateBuilding:
		// Onboarding case: the representative has no building yet, so
		// only the role is required.
		if a.IsAdmin() || a.Role == model.RoleRepresentative {
			return nil
		}
		return deny(op, ErrNotAuthorized, "Only representatives can create buildings")

	case OpInviteTenant:
		if a.IsAdmin() || a.Role == model.RoleRepresentative {
			return nil
		}
		return deny(op, ErrNotAuthorized, "Nemate ovlasti za pozivanje stanara.")
	}

	return deny(op, ErrNotAuthorized, "Nemate ovlasti za ovu radnju.")
}

func isCreator(a *actor.Actor, t Target) bool {
	return t.Ticket != nil && t.Ticket.CreatedBy == a.UserID
}

func isAssignee(a *actor.Actor, t Target) bool {
	return t.Ticket != nil && t.Ticket.AssignedTo != nil && *t.Ticket.AssignedTo == a.UserID
}

func isBuildingRepresentative(a *actor.Actor, t Target) bool {
	return a.Role == model.RoleRepresentative && a.BuildingID != 0 && a.BuildingID == t.BuildingID
}
