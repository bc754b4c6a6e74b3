package commands

import (
	"errors"
	"strings"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/guard"
)

// parcelCommand carries what every parcel mutation needs: who acts, on which
// parcel, and an optional history note.
type parcelCommand struct {
	actor    kernel.Actor
	parcelID kernel.UUID
	note     string

	guard guard.ConstructorGuard
}

func newParcelCommand(actor kernel.Actor, parcelID kernel.UUID, note string) (parcelCommand, error) {
	if err := errors.Join(actor.Validate(), parcelID.Validate()); err != nil {
		return parcelCommand{}, err
	}
	return parcelCommand{
		actor:    actor,
		parcelID: parcelID,
		note:     strings.TrimSpace(note),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Actor returns who issued the command.
func (c parcelCommand) Actor() kernel.Actor { return c.actor }

// ParcelID returns the parcel the command targets.
func (c parcelCommand) ParcelID() kernel.UUID { return c.parcelID }

// Note returns the trimmed history note, possibly empty.
func (c parcelCommand) Note() string { return c.note }

// Constructor guard errors for the parcel mutation commands.
var (
	ErrCancelParcelCommandIsNotConstructed = errors.New(
		"CancelParcelCommand must be created via NewCancelParcelCommand constructor")
	ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
		"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor")
	ErrBlockParcelCommandIsNotConstructed = errors.New(
		"BlockParcelCommand must be created via NewBlockParcelCommand constructor")
	ErrUnblockParcelCommandIsNotConstructed = errors.New(
		"UnblockParcelCommand must be created via NewUnblockParcelCommand constructor")
	ErrUpdateDeliveryStatusCommandIsNotConstructed = errors.New(
		"UpdateDeliveryStatusCommand must be created via NewUpdateDeliveryStatusCommand constructor")
	ErrOverrideParcelStatusCommandIsNotConstructed = errors.New(
		"OverrideParcelStatusCommand must be created via NewOverrideParcelStatusCommand constructor")
	ErrAssignDeliveryManCommandIsNotConstructed = errors.New(
		"AssignDeliveryManCommand must be created via NewAssignDeliveryManCommand constructor")
)

// CancelParcelCommand represents a sender withdrawing a parcel that has not
// been picked up yet.
//
// Example:
//
//	cmd, err := NewCancelParcelCommand(actor, parcelID, "changed my mind")
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("cancel parcel: %w", err)
//	}
type CancelParcelCommand struct{ parcelCommand }

// NewCancelParcelCommand validates the actor and parcel ID and trims note.
func NewCancelParcelCommand(actor kernel.Actor, parcelID kernel.UUID, note string) (CancelParcelCommand, error) {
	base, err := newParcelCommand(actor, parcelID, note)
	return CancelParcelCommand{base}, err
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelParcelCommandIsNotConstructed if validation fails.
func (c CancelParcelCommand) Validate() error {
	return c.guard.Validate(ErrCancelParcelCommandIsNotConstructed)
}

// ConfirmDeliveryCommand represents the receiver acknowledging a delivered
// parcel.
type ConfirmDeliveryCommand struct{ parcelCommand }

// NewConfirmDeliveryCommand validates the actor and parcel ID and trims note.
func NewConfirmDeliveryCommand(actor kernel.Actor, parcelID kernel.UUID, note string) (ConfirmDeliveryCommand, error) {
	base, err := newParcelCommand(actor, parcelID, note)
	return ConfirmDeliveryCommand{base}, err
}

// Validate ensures the command was created through the constructor.
func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

// BlockParcelCommand puts a parcel on hold on admin authority.
type BlockParcelCommand struct{ parcelCommand }

// NewBlockParcelCommand validates the actor and parcel ID. An empty note is
// replaced by a default when the hold is recorded.
func NewBlockParcelCommand(actor kernel.Actor, parcelID kernel.UUID, note string) (BlockParcelCommand, error) {
	base, err := newParcelCommand(actor, parcelID, note)
	return BlockParcelCommand{base}, err
}

// Validate ensures the command was created through the constructor.
func (c BlockParcelCommand) Validate() error {
	return c.guard.Validate(ErrBlockParcelCommandIsNotConstructed)
}

// UnblockParcelCommand releases a hold and restores the status the parcel
// had before it was blocked.
type UnblockParcelCommand struct{ parcelCommand }

// NewUnblockParcelCommand validates the actor and parcel ID and trims note.
func NewUnblockParcelCommand(actor kernel.Actor, parcelID kernel.UUID, note string) (UnblockParcelCommand, error) {
	base, err := newParcelCommand(actor, parcelID, note)
	return UnblockParcelCommand{base}, err
}

// Validate ensures the command was created through the constructor.
func (c UnblockParcelCommand) Validate() error {
	return c.guard.Validate(ErrUnblockParcelCommandIsNotConstructed)
}

// UpdateDeliveryStatusCommand requests a status through the transition engine.
type UpdateDeliveryStatusCommand struct {
	parcelCommand
	status parcel.Status
}

// NewUpdateDeliveryStatusCommand creates a command for the requested status.
// Returns a joined error when the actor, parcel ID or status is invalid.
func NewUpdateDeliveryStatusCommand(
	actor kernel.Actor, parcelID kernel.UUID, status parcel.Status, note string,
) (UpdateDeliveryStatusCommand, error) {
	base, err := newParcelCommand(actor, parcelID, note)
	if err = errors.Join(err, status.Validate()); err != nil {
		return UpdateDeliveryStatusCommand{}, err
	}
	return UpdateDeliveryStatusCommand{parcelCommand: base, status: status}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryStatusCommandIsNotConstructed)
}

// Status returns the requested status.
func (c UpdateDeliveryStatusCommand) Status() parcel.Status { return c.status }

// OverrideParcelStatusCommand sets any status on admin authority.
type OverrideParcelStatusCommand struct {
	parcelCommand
	status parcel.Status
}

// NewOverrideParcelStatusCommand creates an override to status. Whether the
// actor is an admin is checked by the handler, not here.
func NewOverrideParcelStatusCommand(
	actor kernel.Actor, parcelID kernel.UUID, status parcel.Status, note string,
) (OverrideParcelStatusCommand, error) {
	base, err := newParcelCommand(actor, parcelID, note)
	if err = errors.Join(err, status.Validate()); err != nil {
		return OverrideParcelStatusCommand{}, err
	}
	return OverrideParcelStatusCommand{parcelCommand: base, status: status}, nil
}

// Validate ensures the command was created through the constructor.
func (c OverrideParcelStatusCommand) Validate() error {
	return c.guard.Validate(ErrOverrideParcelStatusCommandIsNotConstructed)
}

// Status returns the status to force.
func (c OverrideParcelStatusCommand) Status() parcel.Status { return c.status }

// AssignDeliveryManCommand represents an admin handing a parcel to a
// delivery agent. Reassignment replaces the previous agent.
type AssignDeliveryManCommand struct {
	parcelCommand
	deliveryManID kernel.UUID
}

// NewAssignDeliveryManCommand creates an assignment command. The agent's
// role and activity are checked by the handler against storage.
func NewAssignDeliveryManCommand(
	actor kernel.Actor, parcelID kernel.UUID, deliveryManID kernel.UUID,
) (AssignDeliveryManCommand, error) {
	base, err := newParcelCommand(actor, parcelID, "")
	if err = errors.Join(err, deliveryManID.Validate()); err != nil {
		return AssignDeliveryManCommand{}, err
	}
	return AssignDeliveryManCommand{parcelCommand: base, deliveryManID: deliveryManID}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDeliveryManCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryManCommandIsNotConstructed)
}

// DeliveryManID returns the agent to assign.
func (c AssignDeliveryManCommand) DeliveryManID() kernel.UUID { return c.deliveryManID }
