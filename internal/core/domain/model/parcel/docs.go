// Package parcel implements the Parcel aggregate: its status state machine,
// append-only status history, hold handling and the StatusChanged events
// emitted by every status change.
//
// Key business rules:
//   - A parcel starts Pending and carries a unique, immutable tracking number
//   - Delivery agents follow Pending -> PickedUp -> InTransit -> Delivered (or Returned from InTransit)
//   - Customers cancel only Pending parcels and confirm only InTransit ones
//   - Admins may override to any status, and block/unblock parcels
package parcel
