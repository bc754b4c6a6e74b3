package parcel

import (
	"fmt"
	"strings"

	"parceltrack/internal/pkg/errs"
)

// Status is the lifecycle position of a parcel.
//
// Delivery path (delivery agents):
//
//	Pending ──> PickedUp ──> InTransit ──> Delivered
//	                             │
//	                             └──────> Returned
//
// Side paths:
//   - Pending ──> Cancelled (sender, recipient or admin)
//   - any ──> OnHold ──> previous status (admin block/unblock)
//   - any ──> any (admin override)
//
// Delivered, Cancelled and Returned are terminal for everyone but admins.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	PickedUp
	InTransit
	Delivered
	Cancelled
	Returned
	OnHold
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Pending:   "PENDING",
		PickedUp:  "PICKED_UP",
		InTransit: "IN_TRANSIT",
		Delivered: "DELIVERED",
		Cancelled: "CANCELLED",
		Returned:  "RETURNED",
		OnHold:    "ON_HOLD",
	}
}

// deliveryPath lists the moves a delivery agent may request from each status.
func deliveryPath() map[Status][]Status {
	//nolint:exhaustive // statuses without outgoing agent moves are omitted
	return map[Status][]Status{
		Pending:   {PickedUp},
		PickedUp:  {InTransit},
		InTransit: {Delivered, Returned},
	}
}

// Statuses lists the seven valid statuses in lifecycle order.
func Statuses() []Status {
	return []Status{Pending, PickedUp, InTransit, Delivered, Cancelled, Returned, OnHold}
}

// ParseStatus accepts the upper snake case wire names, case-insensitively.
func ParseStatus(s string) (Status, error) {
	needle := strings.ToUpper(strings.TrimSpace(s))
	for _, st := range Statuses() {
		if getStatusStrings()[st] == needle {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate returns ValueIsInvalidError for Unknown and out-of-range values.
func (s Status) Validate() error {
	if s < Pending || s > OnHold {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name, e.g. "IN_TRANSIT". Values outside the enum
// render as "UNKNOWN".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return getStatusStrings()[Unknown]
}

// IsTerminal reports whether ordinary actors can no longer move the parcel.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Returned
}

// Advance validates a delivery agent move from s to next.
//
// Returns (next, nil) when next is an allowed delivery path step and an
// InvalidTransitionError otherwise, including from terminal statuses and
// from OnHold.
func (s Status) Advance(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return Unknown, err
	}
	for _, allowed := range deliveryPath()[s] {
		if allowed == next {
			return next, nil
		}
	}
	return Unknown, errs.NewInvalidTransitionError(s.String(), next.String())
}

// Cancel validates a customer cancellation, which is only possible before pickup.
func (s Status) Cancel() (Status, error) {
	if s != Pending {
		return Unknown, errs.NewInvalidTransitionErrorWithCause(
			s.String(), Cancelled.String(),
			fmt.Errorf("only %s parcels can be cancelled", Pending),
		)
	}
	return Cancelled, nil
}

// ConfirmDelivery validates the recipient confirming receipt.
func (s Status) ConfirmDelivery() (Status, error) {
	if s != InTransit {
		return Unknown, errs.NewInvalidTransitionErrorWithCause(
			s.String(), Delivered.String(),
			fmt.Errorf("only %s parcels can be confirmed", InTransit),
		)
	}
	return Delivered, nil
}
