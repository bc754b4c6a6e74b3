// Package ports defines the contracts between the core and its adapters:
// repositories, the unit of work, credentials, token issuing, event
// publishing and the tracking cache.
package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
)

// ParcelFilter narrows a parcel listing. Nil fields do not filter; set
// identity fields are ANDed.
type ParcelFilter struct {
	SenderID      *kernel.UUID
	RecipientID   *kernel.UUID
	DeliveryManID *kernel.UUID
	Status        *parcel.Status
}

// ParcelReader is the read side of ParcelRepository, usable outside a transaction.
type ParcelReader interface {
	// Get returns errs.ObjectNotFoundError when no parcel has the id.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	// GetByTrackingNumber is an exact-match lookup.
	GetByTrackingNumber(ctx context.Context, trackingNumber parcel.TrackingNumber) (*parcel.Parcel, error)

	// List returns one page ordered by creation time, newest first, and the
	// total number of matches.
	List(ctx context.Context, filter ParcelFilter, page kernel.Page) ([]*parcel.Parcel, int64, error)
}

// ParcelRepository persists parcel aggregates together with their status history.
type ParcelRepository interface {
	ParcelReader

	// Add stores a new parcel and its history.
	Add(ctx context.Context, aggregate *parcel.Parcel) error

	// Update stores the parcel's current state and any history entries not yet
	// persisted. It fails with errs.VersionIsInvalidError when the stored version
	// no longer matches aggregate.Version().
	Update(ctx context.Context, aggregate *parcel.Parcel) error
}
