package queries

import (
	"context"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
)

// ListParcelsQueryHandler serves every parcel listing endpoint. The endpoint
// decides the scope; the handler decides whether the caller may use it.
type ListParcelsQueryHandler struct {
	parcels ports.ParcelReader
	policy  services.AccessPolicy
}

// NewListParcelsQueryHandler creates a listing handler reading through parcels.
func NewListParcelsQueryHandler(parcels ports.ParcelReader, policy services.AccessPolicy) ListParcelsQueryHandler {
	return ListParcelsQueryHandler{parcels: parcels, policy: policy}
}

// Handle authorizes the scope for the actor's role, then restricts the
// listing to the actor's own identity for every scope except ScopeAll.
func (h ListParcelsQueryHandler) Handle(ctx context.Context, query ListParcelsQuery) (ListParcelsResult, error) {
	if err := query.Validate(); err != nil {
		return ListParcelsResult{}, err
	}

	op, _ := query.scope.operation()
	if err := h.policy.Authorize(query.actor, op); err != nil {
		return ListParcelsResult{}, err
	}

	id := query.actor.ID()
	filter := ports.ParcelFilter{Status: query.status}
	switch query.scope {
	case ScopeSent:
		filter.SenderID = &id
	case ScopeIncoming:
		filter.RecipientID = &id
	case ScopeDeliveries:
		filter.DeliveryManID = &id
	}

	found, total, err := h.parcels.List(ctx, filter, query.page)
	if err != nil {
		return ListParcelsResult{}, err
	}

	items := make([]ParcelView, 0, len(found))
	for _, p := range found {
		items = append(items, NewParcelView(p))
	}

	return ListParcelsResult{
		Items: items,
		Meta:  kernel.NewPageMeta(query.page, total),
	}, nil
}
