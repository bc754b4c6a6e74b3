package commands

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

// CreateParcelCommandHandler books parcels for senders and admins.
//
// Example:
//
// 	handler := NewCreateParcelCommandHandler(uowFactory, services.NewAccessPolicy())
// 	cmd, _ := NewCreateParcelCommand(sender, RecipientInput{Email: "dana@example.com"}, 1.2, "", "")
//
// 	tn, err := handler.Handle(ctx, cmd)
// 	if err != nil {
// 	    return fmt.Errorf("create parcel: %w", err)
// 	}
// 	// tn is what the recipient uses on the public tracking endpoint
type CreateParcelCommandHandler struct {
	uowFactory UoWFactory
	policy     services.AccessPolicy
}

// NewCreateParcelCommandHandler creates a handler for parcel booking.
// Requires a UoWFactory because the sender and recipient accounts are read
// in the same transaction as the insert.
func NewCreateParcelCommandHandler(uowFactory UoWFactory, policy services.AccessPolicy) CreateParcelCommandHandler {
	return CreateParcelCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

// Handle creates a Pending parcel with a fresh tracking number. The sender is
// snapshotted from the actor's account; the recipient is linked to a
// registered user when an id is given or the email matches an account.
func (h *CreateParcelCommandHandler) Handle(ctx context.Context, cmd CreateParcelCommand) (trackingNumber parcel.TrackingNumber, err error) {
	ctx, end := startSpan(ctx, "CreateParcel")
	defer end(&err)

	if err = cmd.Validate(); err != nil {
		return parcel.TrackingNumber{}, err
	}

	if err = h.policy.Authorize(cmd.Actor(), services.OpCreateParcel); err != nil {
		return parcel.TrackingNumber{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return parcel.TrackingNumber{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	users := uow.UserRepository()
	senderUser, err := users.Get(ctx, cmd.Actor().ID())
	if err != nil {
		return parcel.TrackingNumber{}, err
	}

	sender, err := parcel.NewUserContact(
		senderUser.ID(), senderUser.Name(), senderUser.Email(), senderUser.Phone(), senderUser.Address(),
	)
	if err != nil {
		return parcel.TrackingNumber{}, err
	}

	recipient, err := resolveRecipient(ctx, users, cmd.Recipient())
	if err != nil {
		return parcel.TrackingNumber{}, err
	}

	p, err := parcel.NewParcel(
		cmd.ParcelID(),
		parcel.NewTrackingNumber(),
		sender,
		recipient,
		cmd.Weight(),
		cmd.PickupAddress(),
		cmd.Notes(),
		cmd.Actor(),
	)
	if err != nil {
		return parcel.TrackingNumber{}, err
	}

	if err = uow.ParcelRepository().Add(ctx, p); err != nil {
		return parcel.TrackingNumber{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return parcel.TrackingNumber{}, err
	}

	return p.TrackingNumber(), nil
}

// resolveRecipient links in to an account when possible. An email that
// matches no account falls back to a guest contact.
func resolveRecipient(ctx context.Context, users ports.UserRepository, in RecipientInput) (parcel.Contact, error) {
	var (
		account *user.User
		err     error
	)

	switch {
	case in.UserID != nil:
		account, err = users.Get(ctx, *in.UserID)
		if err != nil {
			return parcel.Contact{}, err
		}
	case in.Email != "":
		account, err = users.GetByEmail(ctx, in.Email)
		if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
			return parcel.Contact{}, err
		}
	}

	if account == nil {
		return parcel.NewGuestContact(in.Name, in.Email, in.Phone, in.Address)
	}

	name, phone, address := account.Name(), account.Phone(), account.Address()
	if in.Name != "" {
		name = in.Name
	}
	if in.Phone != "" {
		phone = in.Phone
	}
	if in.Address != "" {
		address = in.Address
	}
	return parcel.NewUserContact(account.ID(), name, account.Email(), phone, address)
}
