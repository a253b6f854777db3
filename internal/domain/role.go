package domain

import "github.com/google/uuid"

// Role classifies a caller's relationship to a trip. Every caller is
// exactly one of owner, collaborator, or none for a given trip.
type Role int

const (
	// RoleNone means the caller is neither the owner nor a collaborator.
	RoleNone Role = iota
	// RoleCollaborator means the caller is in the trip's collaborator set.
	RoleCollaborator
	// RoleOwner means the caller created (and owns) the trip.
	RoleOwner
)

// String returns the wire name of the role ("owner", "collaborator", "none").
func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleCollaborator:
		return "collaborator"
	default:
		return "none"
	}
}

// RoleOf derives userID's role for this trip from the owner reference and
// the collaborator set. The owner-not-a-collaborator invariant guarantees
// the two branches are disjoint.
func (t *Trip) RoleOf(userID uuid.UUID) Role {
	if t.Owner == userID {
		return RoleOwner
	}
	if t.IsCollaborator(userID) {
		return RoleCollaborator
	}
	return RoleNone
}

// AccessPolicy decides whether an operation is permitted given the caller's
// trip role and, for day-plan operations, whether the caller created the
// target day plan. Policies are passed to AccessService.Authorize so every
// gated endpoint shares one authorization code path.
type AccessPolicy func(role Role, isCreator bool) bool

var (
	// OwnerOnly admits the trip owner: full trip edit, collaborator
	// replace, day-plan star toggle.
	OwnerOnly AccessPolicy = func(role Role, _ bool) bool {
		return role == RoleOwner
	}

	// OwnerOrCollaborator admits any trip member: location append,
	// attraction/hotel toggles, collaborator add, day-plan create/list.
	OwnerOrCollaborator AccessPolicy = func(role Role, _ bool) bool {
		return role == RoleOwner || role == RoleCollaborator
	}

	// CreatorOnly admits only the user who created the day plan,
	// regardless of trip role (the trip owner may NOT edit someone
	// else's plan).
	CreatorOnly AccessPolicy = func(_ Role, isCreator bool) bool {
		return isCreator
	}

	// CreatorOrOwner admits the day plan's creator or the trip owner:
	// day-plan delete.
	CreatorOrOwner AccessPolicy = func(role Role, isCreator bool) bool {
		return isCreator || role == RoleOwner
	}
)
