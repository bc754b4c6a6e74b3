// Package services holds domain services that sit above single aggregates.
//
// The package includes:
//   - AccessPolicy: the static role-to-operation table consulted before every core operation
//   - TransitionEngine: routes a requested parcel status to the admin override or the delivery path
//
// Both are pure: they read only their arguments and the policy table.
package services
