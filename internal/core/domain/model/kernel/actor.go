package kernel

import (
	"errors"
)

// Actor is the identity performing an operation. It is resolved once by the
// inbound adapter and then handed to every core call; nothing in the core reads
// a "current user" from ambient state.
type Actor struct {
	id   UUID
	role Role
}

// NewActor creates an actor. Returns a joined error when id or role is invalid.
func NewActor(id UUID, role Role) (Actor, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role}, nil
}

// ID returns the acting user's identifier.
func (a Actor) ID() UUID {
	return a.id
}

// Role returns the role carried by the access token.
func (a Actor) Role() Role {
	return a.role
}

// IsAdmin reports whether the actor has RoleAdmin.
func (a Actor) IsAdmin() bool {
	return a.role.IsAdmin()
}

// Is reports whether the actor is the user with the given id.
func (a Actor) Is(userID UUID) bool {
	return !userID.IsZero() && a.id.IsEqual(userID)
}

// Validate reports whether the actor was built by NewActor.
// Returns ErrUUIDIsNotConstructed and a role error for the zero value.
func (a Actor) Validate() error {
	return errors.Join(a.id.Validate(), a.role.Validate())
}
