package parcel

import (
	"time"

	"parceltrack/internal/core/domain/model/kernel"
)

// StatusEntry is one immutable line of a parcel's status history.
type StatusEntry struct {
	status    Status
	timestamp time.Time
	updatedBy kernel.Actor
	note      string
}

// RestoreStatusEntry rebuilds a stored history line. New lines are only
// created by the Parcel methods that change status.
func RestoreStatusEntry(status Status, timestamp time.Time, updatedBy kernel.Actor, note string) StatusEntry {
	return StatusEntry{status: status, timestamp: timestamp, updatedBy: updatedBy, note: note}
}

// Status returns the status the parcel entered.
func (e StatusEntry) Status() Status {
	return e.status
}

// Timestamp returns when the status was entered, in UTC.
func (e StatusEntry) Timestamp() time.Time {
	return e.timestamp
}

// UpdatedBy returns who made the change.
func (e StatusEntry) UpdatedBy() kernel.Actor {
	return e.updatedBy
}

// Note returns the free-form note given with the change.
func (e StatusEntry) Note() string {
	return e.note
}

// StatusChanged is recorded for every status change and published once the
// change is committed.
type StatusChanged struct {
	ParcelID       kernel.UUID
	TrackingNumber TrackingNumber
	From           Status
	To             Status
	Actor          kernel.Actor
	Note           string
	OccurredAt     time.Time
}
