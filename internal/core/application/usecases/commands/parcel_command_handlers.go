package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/services"
)

// CancelParcelCommandHandler withdraws parcels that have not left the sender.
//
// Example:
//
//	handler := NewCancelParcelCommandHandler(uowFactory, services.NewAccessPolicy())
//	cmd, _ := NewCancelParcelCommand(sender, parcelID, "")
//
//	if err := handler.Handle(ctx, cmd); errors.Is(err, errs.ErrInvalidTransition) {
//	    // the parcel was already picked up
//	}
type CancelParcelCommandHandler struct {
	uowFactory ParcelUoWFactory
	policy     services.AccessPolicy
}

// NewCancelParcelCommandHandler creates a handler for parcel cancellation.
// Requires a ParcelUoWFactory for transactional persistence.
func NewCancelParcelCommandHandler(uowFactory ParcelUoWFactory, policy services.AccessPolicy) CancelParcelCommandHandler {
	return CancelParcelCommandHandler{uowFactory: uowFactory, policy: policy}
}

// Handle cancels a Pending parcel. Non-admins must be its sender or recipient.
func (h *CancelParcelCommandHandler) Handle(ctx context.Context, cmd CancelParcelCommand) (err error) {
	ctx, end := startSpan(ctx, "CancelParcel")
	defer end(&err)

	if err = cmd.Validate(); err != nil {
		return err
	}
	if err = h.policy.Authorize(cmd.Actor(), services.OpCancelParcel); err != nil {
		return err
	}

	return mutateParcel(ctx, h.uowFactory, cmd.ParcelID(), func(p *parcel.Parcel) error {
		return p.Cancel(cmd.Actor(), cmd.Note())
	})
}

// ConfirmDeliveryCommandHandler records the receiver's acknowledgement.
type ConfirmDeliveryCommandHandler struct {
	uowFactory ParcelUoWFactory
	policy     services.AccessPolicy
}

// NewConfirmDeliveryCommandHandler creates a handler for delivery confirmation.
func NewConfirmDeliveryCommandHandler(uowFactory ParcelUoWFactory, policy services.AccessPolicy) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{uowFactory: uowFactory, policy: policy}
}

// Handle confirms a Delivered parcel. Only its recipient may confirm.
func (h *ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) (err error) {
	ctx, end := startSpan(ctx, "ConfirmDelivery")
	defer end(&err)

	if err = cmd.Validate(); err != nil {
		return err
	}
	if err = h.policy.Authorize(cmd.Actor(), services.OpConfirmDelivery); err != nil {
		return err
	}

	return mutateParcel(ctx, h.uowFactory, cmd.ParcelID(), func(p *parcel.Parcel) error {
		return p.ConfirmDelivery(cmd.Actor(), cmd.Note())
	})
}

// BlockParcelCommandHandler puts parcels on hold.
type BlockParcelCommandHandler struct {
	uowFactory ParcelUoWFactory
	policy     services.AccessPolicy
}

// NewBlockParcelCommandHandler creates a handler for admin holds.
func NewBlockParcelCommandHandler(uowFactory ParcelUoWFactory, policy services.AccessPolicy) BlockParcelCommandHandler {
	return BlockParcelCommandHandler{uowFactory: uowFactory, policy: policy}
}

// Handle puts the parcel on hold; blocking a blocked parcel succeeds without changes.
func (h *BlockParcelCommandHandler) Handle(ctx context.Context, cmd BlockParcelCommand) (err error) {
	ctx, end := startSpan(ctx, "BlockParcel")
	defer end(&err)

	if err = cmd.Validate(); err != nil {
		return err
	}
	if err = h.policy.Authorize(cmd.Actor(), services.OpBlockParcel); err != nil {
		return err
	}

	return mutateParcel(ctx, h.uowFactory, cmd.ParcelID(), func(p *parcel.Parcel) error {
		return p.Block(cmd.Actor(), cmd.Note())
	})
}

// UnblockParcelCommandHandler releases holds placed by BlockParcelCommandHandler
// or by an override to OnHold.
type UnblockParcelCommandHandler struct {
	uowFactory ParcelUoWFactory
	policy     services.AccessPolicy
}

// NewUnblockParcelCommandHandler creates a handler for releasing holds.
func NewUnblockParcelCommandHandler(uowFactory ParcelUoWFactory, policy services.AccessPolicy) UnblockParcelCommandHandler {
	return UnblockParcelCommandHandler{uowFactory: uowFactory, policy: policy}
}

// Handle restores the pre-hold status, or Pending when none was recorded.
func (h *UnblockParcelCommandHandler) Handle(ctx context.Context, cmd UnblockParcelCommand) (err error) {
	ctx, end := startSpan(ctx, "UnblockParcel")
	defer end(&err)

	if err = cmd.Validate(); err != nil {
		return err
	}
	if err = h.policy.Authorize(cmd.Actor(), services.OpBlockParcel); err != nil {
		return err
	}

	return mutateParcel(ctx, h.uowFactory, cmd.ParcelID(), func(p *parcel.Parcel) error {
		return p.Unblock(cmd.Actor(), cmd.Note())
	})
}

// UpdateDeliveryStatusCommandHandler applies status requests from delivery
// agents and admins.
//
// Example:
//
//	engine := services.NewTransitionEngine(services.NewAccessPolicy())
//	handler := NewUpdateDeliveryStatusCommandHandler(uowFactory, engine)
//	cmd, _ := NewUpdateDeliveryStatusCommand(agent, parcelID, parcel.InTransit, "left the hub")
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("update delivery status: %w", err)
//	}
type UpdateDeliveryStatusCommandHandler struct {
	uowFactory ParcelUoWFactory
	engine     services.TransitionEngine
}

// NewUpdateDeliveryStatusCommandHandler creates a handler that delegates the
// transition rules to engine.
func NewUpdateDeliveryStatusCommandHandler(
	uowFactory ParcelUoWFactory, engine services.TransitionEngine,
) UpdateDeliveryStatusCommandHandler {
	return UpdateDeliveryStatusCommandHandler{uowFactory: uowFactory, engine: engine}
}

// Handle routes the requested status through the transition engine, which
// also checks the caller's role.
func (h *UpdateDeliveryStatusCommandHandler) Handle(ctx context.Context, cmd UpdateDeliveryStatusCommand) (err error) {
	ctx, end := startSpan(ctx, "UpdateDeliveryStatus")
	defer end(&err)

	if err = cmd.Validate(); err != nil {
		return err
	}

	return mutateParcel(ctx, h.uowFactory, cmd.ParcelID(), func(p *parcel.Parcel) error {
		return h.engine.ApplyTransition(p, cmd.Status(), cmd.Actor(), cmd.Note())
	})
}

// OverrideParcelStatusCommandHandler forces a status on admin authority.
type OverrideParcelStatusCommandHandler struct {
	uowFactory ParcelUoWFactory
	policy     services.AccessPolicy
}

// NewOverrideParcelStatusCommandHandler creates a handler for admin overrides.
func NewOverrideParcelStatusCommandHandler(
	uowFactory ParcelUoWFactory, policy services.AccessPolicy,
) OverrideParcelStatusCommandHandler {
	return OverrideParcelStatusCommandHandler{uowFactory: uowFactory, policy: policy}
}

// Handle sets the requested status regardless of the state machine.
// Returns ForbiddenError for anyone but an admin.
func (h *OverrideParcelStatusCommandHandler) Handle(ctx context.Context, cmd OverrideParcelStatusCommand) (err error) {
	ctx, end := startSpan(ctx, "OverrideParcelStatus")
	defer end(&err)

	if err = cmd.Validate(); err != nil {
		return err
	}
	if err = h.policy.Authorize(cmd.Actor(), services.OpOverrideStatus); err != nil {
		return err
	}

	return mutateParcel(ctx, h.uowFactory, cmd.ParcelID(), func(p *parcel.Parcel) error {
		return p.Override(cmd.Actor(), cmd.Status(), cmd.Note())
	})
}
