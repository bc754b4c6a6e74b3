package queries

import (
	"errors"
	"fmt"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

// ErrListParcelsQueryIsNotConstructed is returned by Validate for zero-value queries.
var ErrListParcelsQueryIsNotConstructed = errors.New(
	"ListParcelsQuery must be created via NewListParcelsQuery constructor",
)

// ParcelScope selects whose parcels a listing returns.
type ParcelScope int

const (
	// UnknownScope is the zero value and is rejected by NewListParcelsQuery.
	UnknownScope ParcelScope = iota
	// ScopeSent lists parcels the actor sent.
	ScopeSent
	// ScopeIncoming lists parcels addressed to the actor.
	ScopeIncoming
	// ScopeDeliveries lists parcels assigned to the actor as delivery agent.
	ScopeDeliveries
	// ScopeAll lists every parcel.
	ScopeAll
)

// scopeOperations maps each scope to the operation the policy must allow.
var scopeOperations = map[ParcelScope]services.Operation{
	ScopeSent:       services.OpListOwnParcels,
	ScopeIncoming:   services.OpListIncomingParcels,
	ScopeDeliveries: services.OpListDeliveries,
	ScopeAll:        services.OpListAllParcels,
}

func (s ParcelScope) operation() (services.Operation, bool) {
	op, ok := scopeOperations[s]
	return op, ok
}

// ListParcelsQuery is one page of a scoped parcel listing.
//
// Example:
//
// 	page, _ := kernel.NewPage(1, 20)
// 	status := parcel.InTransit
// 	query, err := NewListParcelsQuery(agent, ScopeDeliveries, page, &status)
// 	if err != nil {
// 	    return err
// 	}
// 	result, err := handler.Handle(ctx, query)
type ListParcelsQuery struct {
	actor  kernel.Actor
	scope  ParcelScope
	page   kernel.Page
	status *parcel.Status

	guard guard.ConstructorGuard
}

// NewListParcelsQuery builds a paged listing. A nil status does not filter and
// a zero page means the first default-sized page.
func NewListParcelsQuery(actor kernel.Actor, scope ParcelScope, page kernel.Page, status *parcel.Status) (ListParcelsQuery, error) {
	var statusErr error
	if status != nil {
		statusErr = status.Validate()
	}

	var scopeErr error
	if _, ok := scope.operation(); !ok {
		scopeErr = errs.NewValueIsInvalidErrorWithCause("scope", fmt.Errorf("%d is not a listing scope", scope))
	}

	if err := errors.Join(actor.Validate(), scopeErr, statusErr); err != nil {
		return ListParcelsQuery{}, err
	}

	if page.Size() == 0 {
		page = kernel.DefaultFirstPage()
	}

	return ListParcelsQuery{
		actor:  actor,
		scope:  scope,
		page:   page,
		status: status,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListParcelsQuery) Validate() error {
	return q.guard.Validate(ErrListParcelsQueryIsNotConstructed)
}

// Actor returns who is listing.
func (q ListParcelsQuery) Actor() kernel.Actor { return q.actor }

// Scope returns whose parcels are listed.
func (q ListParcelsQuery) Scope() ParcelScope { return q.scope }

// Page returns the requested page, never the zero page.
func (q ListParcelsQuery) Page() kernel.Page { return q.page }

// Status returns the status filter, or nil for none.
func (q ListParcelsQuery) Status() *parcel.Status { return q.status }

// ListParcelsResult is one page of parcels with its pagination meta.
type ListParcelsResult struct {
	Items []ParcelView
	Meta  kernel.PageMeta
}
