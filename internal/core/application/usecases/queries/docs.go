// Package queries contains the read side of the application: parcel and user
// listings, parcel detail, public tracking and statistics. Handlers return read
// models shaped for the HTTP adapter and never change state.
//
// Listings and statistics run raw SQL through gorm where no aggregate is
// needed; detail and tracking load the parcel aggregate through
// ports.ParcelReader so the history is rebuilt the same way writes see it.
package queries
