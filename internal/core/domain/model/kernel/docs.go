// Package kernel holds the shared domain primitives of the parcel tracking system.
//
// The package includes:
//   - UUID: identifier value object for parcels and users
//   - Role and Actor: the identity performing an operation, passed explicitly into core calls
//   - Contact: sender/recipient snapshot stored on a parcel
//   - Page and PageMeta: pagination request and response metadata
//
// Every type here is an immutable value; zero values are invalid and fail Validate.
package kernel
