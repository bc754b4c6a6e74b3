package services

import (
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"
)

// TransitionEngine applies a requested status to a parcel on behalf of an
// actor. Admins go through the override entry point and delivery agents
// through the delivery path; every other role has no transition rights.
type TransitionEngine struct {
	policy AccessPolicy
}

// NewTransitionEngine returns an engine that authorizes every request with
// policy before touching the parcel.
func NewTransitionEngine(policy AccessPolicy) TransitionEngine {
	return TransitionEngine{policy: policy}
}

// ApplyTransition returns ForbiddenError when the role may not update
// statuses or the agent is not assigned to the parcel, and
// InvalidTransitionError when the move is not allowed from the current status.
//
// Ownership is checked before the state machine: an agent who is not assigned
// to the parcel gets ForbiddenError even for a move that would also be an
// invalid transition.
//
// Example:
//
//	engine := services.NewTransitionEngine(services.NewAccessPolicy())
//	if err := engine.ApplyTransition(p, parcel.PickedUp, agent, "at the depot"); err != nil {
//	    return err
//	}
func (e TransitionEngine) ApplyTransition(p *parcel.Parcel, requested parcel.Status, actor kernel.Actor, note string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := requested.Validate(); err != nil {
		return err
	}
	if err := e.policy.Authorize(actor, OpUpdateDeliveryStatus); err != nil {
		return err
	}

	switch actor.Role() {
	case kernel.RoleAdmin:
		return p.Override(actor, requested, note)
	case kernel.RoleDeliveryMan:
		return p.AdvanceDelivery(actor, requested, note)
	default:
		return errs.NewForbiddenError(actor.Role().String(), string(OpUpdateDeliveryStatus))
	}
}
