package commands

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/pkg/errs"
)

// AssignDeliveryManCommandHandler hands parcels to delivery agents. The agent
// and the parcel are read in the same transaction as the update.
//
// Example:
//
//	handler := NewAssignDeliveryManCommandHandler(uowFactory, services.NewAccessPolicy())
//	cmd, _ := NewAssignDeliveryManCommand(admin, parcelID, agentID)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("assign delivery man: %w", err)
//	}
type AssignDeliveryManCommandHandler struct {
	uowFactory UoWFactory
	policy     services.AccessPolicy
}

// NewAssignDeliveryManCommandHandler creates a handler for agent assignment.
// Requires a UoWFactory because both users and parcels are read.
func NewAssignDeliveryManCommandHandler(uowFactory UoWFactory, policy services.AccessPolicy) AssignDeliveryManCommandHandler {
	return AssignDeliveryManCommandHandler{uowFactory: uowFactory, policy: policy}
}

// Handle sets the parcel's delivery agent. It fails with
// errs.ObjectNotFoundError when the id does not belong to a DELIVERY_MAN
// account, and leaves the parcel status untouched.
func (h *AssignDeliveryManCommandHandler) Handle(ctx context.Context, cmd AssignDeliveryManCommand) (err error) {
	ctx, end := startSpan(ctx, "AssignDeliveryMan")
	defer end(&err)

	if err = cmd.Validate(); err != nil {
		return err
	}
	if err = h.policy.Authorize(cmd.Actor(), services.OpAssignDeliveryMan); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	agent, err := uow.UserRepository().Get(ctx, cmd.DeliveryManID())
	if err != nil {
		return err
	}
	if agent.Role() != kernel.RoleDeliveryMan {
		return errs.NewObjectNotFoundErrorWithCause("deliveryMan", cmd.DeliveryManID().String(),
			errors.New("user is not a delivery agent"))
	}

	parcels := uow.ParcelRepository()
	p, err := parcels.Get(ctx, cmd.ParcelID())
	if err != nil {
		return err
	}

	if err = p.AssignDeliveryMan(cmd.Actor(), agent.ID()); err != nil {
		return err
	}

	if err = parcels.Update(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
