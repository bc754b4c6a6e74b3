package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/guard"
)

// ErrAssignUserRoleCommandIsNotConstructed is returned by Validate for zero-value commands.
var ErrAssignUserRoleCommandIsNotConstructed = errors.New(
	"AssignUserRoleCommand must be created via NewAssignUserRoleCommand constructor",
)

// AssignUserRoleCommand represents an admin changing another account's role.
//
// Example:
//
// 	cmd, err := NewAssignUserRoleCommand(admin, userID, kernel.RoleDeliveryMan)
// 	if err != nil {
// 	    return fmt.Errorf("invalid role change: %w", err)
// 	}
// 	if err := handler.Handle(ctx, cmd); err != nil {
// 	    return err
// 	}
type AssignUserRoleCommand struct { //nolint:recvcheck //using for validation
	actor  kernel.Actor
	userID kernel.UUID
	role   kernel.Role

	guard guard.ConstructorGuard
}

// NewAssignUserRoleCommand creates a role change command.
// Returns a joined error when the actor, user ID or role is invalid.
func NewAssignUserRoleCommand(actor kernel.Actor, userID kernel.UUID, role kernel.Role) (AssignUserRoleCommand, error) {
	if err := errors.Join(actor.Validate(), userID.Validate(), role.Validate()); err != nil {
		return AssignUserRoleCommand{}, err
	}

	return AssignUserRoleCommand{
		actor:  actor,
		userID: userID,
		role:   role,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignUserRoleCommandIsNotConstructed if validation fails.
func (c AssignUserRoleCommand) Validate() error {
	return c.guard.Validate(ErrAssignUserRoleCommandIsNotConstructed)
}

// Actor returns the admin issuing the change.
func (c AssignUserRoleCommand) Actor() kernel.Actor { return c.actor }

// UserID returns the account whose role changes.
func (c AssignUserRoleCommand) UserID() kernel.UUID { return c.userID }

// Role returns the role to assign.
func (c AssignUserRoleCommand) Role() kernel.Role { return c.role }
