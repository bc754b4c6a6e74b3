package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/guard"
)

// ErrUpdateUserStatusCommandIsNotConstructed is returned by Validate for zero-value commands.
var ErrUpdateUserStatusCommandIsNotConstructed = errors.New(
	"UpdateUserStatusCommand must be created via NewUpdateUserStatusCommand constructor",
)

// UpdateUserStatusCommand represents an admin changing an account's activity status.
type UpdateUserStatusCommand struct { //nolint:recvcheck //using for validation
	actor    kernel.Actor
	userID   kernel.UUID
	activity user.ActivityStatus

	guard guard.ConstructorGuard
}

// NewUpdateUserStatusCommand creates an activity change command.
// Returns a joined error when the actor, user ID or status is invalid.
func NewUpdateUserStatusCommand(actor kernel.Actor, userID kernel.UUID, activity user.ActivityStatus) (UpdateUserStatusCommand, error) {
	if err := errors.Join(actor.Validate(), userID.Validate(), activity.Validate()); err != nil {
		return UpdateUserStatusCommand{}, err
	}

	return UpdateUserStatusCommand{
		actor:    actor,
		userID:   userID,
		activity: activity,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateUserStatusCommandIsNotConstructed if validation fails.
func (c UpdateUserStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateUserStatusCommandIsNotConstructed)
}

// Actor returns the admin issuing the change.
func (c UpdateUserStatusCommand) Actor() kernel.Actor { return c.actor }

// UserID returns the account to activate, deactivate or block.
func (c UpdateUserStatusCommand) UserID() kernel.UUID { return c.userID }

// Activity returns the new activity status.
func (c UpdateUserStatusCommand) Activity() user.ActivityStatus { return c.activity }
