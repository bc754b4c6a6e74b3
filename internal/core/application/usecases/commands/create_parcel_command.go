package commands

import (
	"errors"
	"math"
	"strings"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

// ErrCreateParcelCommandIsNotConstructed is returned by Validate for zero-value commands.
var ErrCreateParcelCommandIsNotConstructed = errors.New(
	"CreateParcelCommand must be created via NewCreateParcelCommand constructor",
)

// RecipientInput identifies the recipient either by a registered user id or
// by free-form contact details. Details given alongside a user id override the
// phone and address stored on that user.
type RecipientInput struct {
	UserID  *kernel.UUID
	Name    string
	Email   string
	Phone   string
	Address string
}

// CreateParcelCommand represents a sender booking a new parcel.
// The parcel ID is generated here so callers can refer to the parcel before
// the handler runs.
//
// Example:
//
// 	cmd, err := NewCreateParcelCommand(sender, RecipientInput{Name: "Dana", Phone: "+15550100"}, 2.5, "", "fragile")
// 	if err != nil {
// 	    return fmt.Errorf("invalid parcel data: %w", err)
// 	}
//
// 	tn, err := handler.Handle(ctx, cmd)
// 	if err != nil {
// 	    return err
// 	}
// 	fmt.Printf("Parcel booked, tracking number %s", tn)
type CreateParcelCommand struct { //nolint:recvcheck //using for validation
	actor         kernel.Actor
	parcelID      kernel.UUID
	recipient     RecipientInput
	weight        float64
	pickupAddress string
	notes         string

	guard guard.ConstructorGuard
}

// NewCreateParcelCommand creates a booking command.
// Validates the actor, that the weight is finite and positive, and that a
// guest recipient has a name. Returns a joined error if any check fails.
func NewCreateParcelCommand(
	actor kernel.Actor,
	recipient RecipientInput,
	weight float64,
	pickupAddress string,
	notes string,
) (CreateParcelCommand, error) {
	cmd := CreateParcelCommand{
		parcelID:      kernel.NewUUID(),
		pickupAddress: strings.TrimSpace(pickupAddress),
		notes:         strings.TrimSpace(notes),
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		actor.Validate(),
		cmd.setRecipient(recipient),
		cmd.setWeight(weight),
	); err != nil {
		return CreateParcelCommand{}, err
	}
	cmd.actor = actor

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateParcelCommandIsNotConstructed if validation fails.
func (c CreateParcelCommand) Validate() error {
	return c.guard.Validate(ErrCreateParcelCommandIsNotConstructed)
}

// Actor returns the sender.
func (c CreateParcelCommand) Actor() kernel.Actor { return c.actor }

// ParcelID returns the identifier generated for the new parcel.
func (c CreateParcelCommand) ParcelID() kernel.UUID { return c.parcelID }

// Recipient returns the trimmed recipient input.
func (c CreateParcelCommand) Recipient() RecipientInput { return c.recipient }

// Weight returns the parcel weight in kilograms.
func (c CreateParcelCommand) Weight() float64 { return c.weight }

// PickupAddress returns where the parcel is collected, or "" to use the
// sender's address.
func (c CreateParcelCommand) PickupAddress() string { return c.pickupAddress }

// Notes returns free-form handling notes.
func (c CreateParcelCommand) Notes() string { return c.notes }

func (c *CreateParcelCommand) setRecipient(r RecipientInput) error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	if r.UserID != nil {
		if err := r.UserID.Validate(); err != nil {
			return err
		}
	} else if r.Name == "" {
		return errs.NewValueIsRequiredError("recipient name")
	}
	c.recipient = r
	return nil
}

func (c *CreateParcelCommand) setWeight(weight float64) error {
	if !(weight > 0) || math.IsInf(weight, 1) {
		return errs.NewValueIsInvalidErrorWithCause("weight", errors.New("must be greater than 0"))
	}
	c.weight = weight
	return nil
}
