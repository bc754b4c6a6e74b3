package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/parcel"
)

// EventPublisher delivers committed parcel status changes to interested parties
// such as the message broker and metrics.
type EventPublisher interface {
	Publish(ctx context.Context, events ...parcel.StatusChanged) error
}

// ParcelWrite names a parcel a unit of work committed and the version it now
// has in storage.
type ParcelWrite struct {
	TrackingNumber parcel.TrackingNumber
	Version        int
}

// ParcelWriteObserver is told about every parcel a committed unit of work
// wrote, whether or not its status changed. Assigning a delivery man, for
// example, writes the parcel without raising a StatusChanged event.
type ParcelWriteObserver interface {
	ParcelsWritten(ctx context.Context, writes ...ParcelWrite) error
}

// TrackingCache stores public tracking views keyed by tracking number.
type TrackingCache interface {
	// Get decodes the cached view into dst and reports whether it was present.
	Get(ctx context.Context, trackingNumber string, dst any) (bool, error)

	// Set stores the view of the parcel at the given version. It stores
	// nothing when a newer version of the parcel has been written since, so
	// a reader that loaded before a commit cannot resurrect a stale view.
	Set(ctx context.Context, trackingNumber string, version int, view any) error
}
