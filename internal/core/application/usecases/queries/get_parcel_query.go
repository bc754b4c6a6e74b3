package queries

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

// ErrGetParcelQueryIsNotConstructed is returned by Validate for zero-value queries.
var ErrGetParcelQueryIsNotConstructed = errors.New(
	"GetParcelQuery must be created via NewGetParcelQuery constructor",
)

// GetParcelQuery asks for the full detail of one parcel, history included.
type GetParcelQuery struct {
	actor    kernel.Actor
	parcelID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetParcelQuery creates a detail query. Both arguments must be valid.
func NewGetParcelQuery(actor kernel.Actor, parcelID kernel.UUID) (GetParcelQuery, error) {
	if err := errors.Join(actor.Validate(), parcelID.Validate()); err != nil {
		return GetParcelQuery{}, err
	}
	return GetParcelQuery{actor: actor, parcelID: parcelID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetParcelQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelQueryIsNotConstructed)
}

// ParcelID returns the requested parcel.
func (q GetParcelQuery) ParcelID() kernel.UUID {
	return q.parcelID
}

// GetParcelQueryHandler serves the authenticated parcel detail endpoint.
//
// Example:
//
// 	handler := NewGetParcelQueryHandler(parcelrepo.NewGormParcelReader(db), services.NewAccessPolicy())
// 	query, _ := NewGetParcelQuery(actor, parcelID)
//
// 	view, err := handler.Handle(ctx, query)
// 	if errors.Is(err, errs.ErrForbidden) {
// 	    // the parcel exists but belongs to someone else
// 	}
type GetParcelQueryHandler struct {
	parcels ports.ParcelReader
	policy  services.AccessPolicy
}

// NewGetParcelQueryHandler creates a handler reading through parcels.
func NewGetParcelQueryHandler(parcels ports.ParcelReader, policy services.AccessPolicy) GetParcelQueryHandler {
	return GetParcelQueryHandler{parcels: parcels, policy: policy}
}

// Handle returns the parcel detail. Admins see every parcel; everyone else
// only parcels they sent or receive.
func (h GetParcelQueryHandler) Handle(ctx context.Context, query GetParcelQuery) (ParcelView, error) {
	if err := query.Validate(); err != nil {
		return ParcelView{}, err
	}

	if err := h.policy.Authorize(query.actor, services.OpGetParcel); err != nil {
		return ParcelView{}, err
	}

	p, err := h.parcels.Get(ctx, query.parcelID)
	if err != nil {
		return ParcelView{}, err
	}

	if !query.actor.IsAdmin() && !p.InvolvesUser(query.actor.ID()) {
		return ParcelView{}, errs.NewForbiddenError(query.actor.Role().String(), "view another user's parcel")
	}

	return NewParcelView(p), nil
}
