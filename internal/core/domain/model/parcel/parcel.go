package parcel

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var (
	// ErrParcelIsNotConstructed is returned when a Parcel was not built through NewParcel or RestoreParcel.
	ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel or RestoreParcel")
	// ErrWeightIsInvalid is returned for weights that are not finite and positive.
	ErrWeightIsInvalid = errs.NewValueIsInvalidErrorWithCause("weight", errors.New("must be greater than 0"))
)

// Parcel is the aggregate root of the delivery lifecycle.
//
// Invariants:
//   - id and trackingNumber never change after creation
//   - weight is finite and greater than zero
//   - history is append-only and its last entry always carries the current status
//   - statusBeforeHold is set only while the parcel is held
//   - every status change goes through applyStatus, which appends history and records a StatusChanged event
//
// Callers reach applyStatus through role-specific entry points: AdvanceDelivery
// for assigned delivery agents, Cancel and ConfirmDelivery for customers, and
// Override, Block and Unblock for admins.
type Parcel struct {
	id               kernel.UUID
	trackingNumber   TrackingNumber
	sender           Contact
	recipient        Contact
	weight           float64
	pickupAddress    string
	notes            string
	deliveryMan      *kernel.UUID
	status           Status
	statusBeforeHold *Status
	isBlocked        bool
	history          []StatusEntry
	createdAt        time.Time
	updatedAt        time.Time
	version          int

	events []StatusChanged
	guard  guard.ConstructorGuard
}

// NewParcel creates a Pending parcel whose history starts with the creator's entry.
func NewParcel(
	id kernel.UUID,
	trackingNumber TrackingNumber,
	sender Contact,
	recipient Contact,
	weight float64,
	pickupAddress string,
	notes string,
	creator kernel.Actor,
) (*Parcel, error) {
	now := time.Now().UTC()
	p := &Parcel{
		pickupAddress: strings.TrimSpace(pickupAddress),
		notes:         strings.TrimSpace(notes),
		sender:        sender,
		recipient:     recipient,
		createdAt:     now,
		updatedAt:     now,
		version:       1,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setTrackingNumber(trackingNumber),
		p.setWeight(weight),
		creator.Validate(),
	); err != nil {
		return nil, err
	}

	p.applyStatus(Pending, creator, "Parcel created", now)
	return p, nil
}

// Snapshot carries the persisted state of a parcel into RestoreParcel.
type Snapshot struct {
	ID               kernel.UUID
	TrackingNumber   TrackingNumber
	Sender           Contact
	Recipient        Contact
	Weight           float64
	PickupAddress    string
	Notes            string
	DeliveryMan      *kernel.UUID
	Status           Status
	StatusBeforeHold *Status
	IsBlocked        bool
	History          []StatusEntry
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int
}

// RestoreParcel rebuilds a parcel from storage. History must be ordered oldest
// first and end with the current status.
func RestoreParcel(s Snapshot) (*Parcel, error) {
	p := &Parcel{
		sender:           s.Sender,
		recipient:        s.Recipient,
		pickupAddress:    s.PickupAddress,
		notes:            s.Notes,
		deliveryMan:      s.DeliveryMan,
		statusBeforeHold: s.StatusBeforeHold,
		isBlocked:        s.IsBlocked,
		history:          append([]StatusEntry(nil), s.History...),
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
		version:          s.Version,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(s.ID),
		p.setTrackingNumber(s.TrackingNumber),
		p.setWeight(s.Weight),
		p.setStatus(s.Status),
	); err != nil {
		return nil, err
	}

	if n := len(p.history); n > 0 && p.history[n-1].status != p.status {
		return nil, errs.NewValueIsInvalidErrorWithCause("history",
			fmt.Errorf("last entry is %s but current status is %s", p.history[n-1].status, p.status))
	}

	return p, nil
}

// Validate ensures the parcel was created through NewParcel or RestoreParcel.
// Returns ErrParcelIsNotConstructed for nil and zero-value parcels.
func (p *Parcel) Validate() error {
	if p == nil {
		return ErrParcelIsNotConstructed
	}
	return p.guard.Validate(ErrParcelIsNotConstructed)
}

// IsEqual compares parcels by identity.
func (p *Parcel) IsEqual(other *Parcel) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the parcel's internal identifier.
func (p *Parcel) ID() kernel.UUID { return p.id }

// TrackingNumber returns the public lookup key.
func (p *Parcel) TrackingNumber() TrackingNumber { return p.trackingNumber }

// Sender returns the sender snapshot taken at creation.
func (p *Parcel) Sender() Contact { return p.sender }

// Recipient returns the recipient snapshot taken at creation.
func (p *Parcel) Recipient() Contact { return p.recipient }

// Weight returns the weight in kilograms.
func (p *Parcel) Weight() float64 { return p.weight }

func (p *Parcel) PickupAddress() string { return p.pickupAddress }
func (p *Parcel) Notes() string         { return p.notes }

// DeliveryMan returns the assigned agent, or nil while unassigned.
func (p *Parcel) DeliveryMan() *kernel.UUID { return p.deliveryMan }

// Status returns the current status.
func (p *Parcel) Status() Status { return p.status }

// StatusBeforeHold returns the status Unblock restores, or nil when the
// parcel is not held.
func (p *Parcel) StatusBeforeHold() *Status { return p.statusBeforeHold }

// IsBlocked reports whether an admin hold is in place.
func (p *Parcel) IsBlocked() bool { return p.isBlocked }

func (p *Parcel) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt moves on every status change and assignment.
func (p *Parcel) UpdatedAt() time.Time { return p.updatedAt }

// Version is the persisted version the parcel was loaded with; repositories
// update conditionally on it.
func (p *Parcel) Version() int { return p.version }

// IncrementVersion is called by repositories once a conditional write succeeded.
func (p *Parcel) IncrementVersion() { p.version++ }

// History returns a copy of the status history, oldest first.
func (p *Parcel) History() []StatusEntry {
	return append([]StatusEntry(nil), p.history...)
}

// PullEvents returns and clears the events recorded since the last call.
func (p *Parcel) PullEvents() []StatusChanged {
	events := p.events
	p.events = nil
	return events
}

// IsAssignedTo reports whether userID is the assigned delivery agent.
func (p *Parcel) IsAssignedTo(userID kernel.UUID) bool {
	return p.deliveryMan != nil && p.deliveryMan.IsEqual(userID)
}

// InvolvesUser reports whether userID is the sender, the recipient or the assigned agent.
func (p *Parcel) InvolvesUser(userID kernel.UUID) bool {
	return p.sender.IsUser(userID) || p.recipient.IsUser(userID) || p.IsAssignedTo(userID)
}

// AdvanceDelivery moves the parcel along the delivery path on behalf of its
// assigned delivery agent.
//
// Returns ForbiddenError when the actor is not the assigned agent and
// InvalidTransitionError when next is not the following step.
func (p *Parcel) AdvanceDelivery(actor kernel.Actor, next Status, note string) error {
	if actor.Role() != kernel.RoleDeliveryMan || !p.IsAssignedTo(actor.ID()) {
		return errs.NewForbiddenError(actor.Role().String(), "update delivery status of a parcel not assigned to them")
	}

	to, err := p.status.Advance(next)
	if err != nil {
		return err
	}

	p.applyStatus(to, actor, note, time.Now().UTC())
	return nil
}

// Override sets any status on admin authority. Overriding to OnHold holds the
// parcel like Block does; overriding to anything else releases a hold.
func (p *Parcel) Override(actor kernel.Actor, to Status, note string) error {
	if !actor.IsAdmin() {
		return errs.NewForbiddenError(actor.Role().String(), "override parcel status")
	}
	if err := to.Validate(); err != nil {
		return err
	}

	if to == OnHold {
		p.hold()
	} else {
		p.release()
	}

	p.applyStatus(to, actor, note, time.Now().UTC())
	return nil
}

// Cancel withdraws a parcel that has not been picked up yet. Non-admin actors
// must be its sender or recipient.
func (p *Parcel) Cancel(actor kernel.Actor, note string) error {
	if !actor.IsAdmin() && !p.sender.IsUser(actor.ID()) && !p.recipient.IsUser(actor.ID()) {
		return errs.NewForbiddenError(actor.Role().String(), "cancel a parcel they neither send nor receive")
	}

	to, err := p.status.Cancel()
	if err != nil {
		return err
	}

	if note == "" {
		note = "Parcel cancelled"
	}
	p.applyStatus(to, actor, note, time.Now().UTC())
	return nil
}

// ConfirmDelivery lets the recipient acknowledge receipt of an in-transit parcel.
func (p *Parcel) ConfirmDelivery(actor kernel.Actor, note string) error {
	if !actor.IsAdmin() && !p.recipient.IsUser(actor.ID()) {
		return errs.NewForbiddenError(actor.Role().String(), "confirm delivery of a parcel addressed to someone else")
	}

	to, err := p.status.ConfirmDelivery()
	if err != nil {
		return err
	}

	if note == "" {
		note = "Delivery confirmed by recipient"
	}
	p.applyStatus(to, actor, note, time.Now().UTC())
	return nil
}

// AssignDeliveryMan sets the delivery agent without touching the status. The
// caller is responsible for checking that agentID belongs to a delivery agent.
func (p *Parcel) AssignDeliveryMan(actor kernel.Actor, agentID kernel.UUID) error {
	if !actor.IsAdmin() {
		return errs.NewForbiddenError(actor.Role().String(), "assign a delivery agent")
	}
	if err := agentID.Validate(); err != nil {
		return err
	}

	p.deliveryMan = &agentID
	p.updatedAt = time.Now().UTC()
	return nil
}

// Block puts the parcel on hold, remembering the status to restore later.
// Blocking a blocked parcel changes nothing.
func (p *Parcel) Block(actor kernel.Actor, note string) error {
	if !actor.IsAdmin() {
		return errs.NewForbiddenError(actor.Role().String(), "block a parcel")
	}
	if p.isBlocked {
		return nil
	}

	p.hold()
	if note == "" {
		note = "Parcel blocked"
	}
	p.applyStatus(OnHold, actor, note, time.Now().UTC())
	return nil
}

// Unblock releases a hold and restores the status recorded by Block, or
// Pending when none was recorded. Unblocking a parcel that is not held changes nothing.
func (p *Parcel) Unblock(actor kernel.Actor, note string) error {
	if !actor.IsAdmin() {
		return errs.NewForbiddenError(actor.Role().String(), "unblock a parcel")
	}
	if !p.isBlocked && p.status != OnHold {
		return nil
	}

	restore := Pending
	if p.statusBeforeHold != nil {
		restore = *p.statusBeforeHold
	}

	p.release()
	if note == "" {
		note = "Parcel unblocked"
	}
	p.applyStatus(restore, actor, note, time.Now().UTC())
	return nil
}

func (p *Parcel) hold() {
	if p.isBlocked {
		return
	}
	if p.status != OnHold {
		before := p.status
		p.statusBeforeHold = &before
	}
	p.isBlocked = true
}

func (p *Parcel) release() {
	p.statusBeforeHold = nil
	p.isBlocked = false
}

// applyStatus is the single status mutation primitive.
func (p *Parcel) applyStatus(to Status, actor kernel.Actor, note string, at time.Time) {
	from := p.status
	note = strings.TrimSpace(note)

	p.status = to
	p.history = append(p.history, StatusEntry{status: to, timestamp: at, updatedBy: actor, note: note})
	p.updatedAt = at
	p.events = append(p.events, StatusChanged{
		ParcelID:       p.id,
		TrackingNumber: p.trackingNumber,
		From:           from,
		To:             to,
		Actor:          actor,
		Note:           note,
		OccurredAt:     at,
	})
}

func (p *Parcel) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Parcel) setTrackingNumber(tn TrackingNumber) error {
	if err := tn.Validate(); err != nil {
		return err
	}
	p.trackingNumber = tn
	return nil
}

// setWeight rejects NaN and +Inf as well as non-positive values.
func (p *Parcel) setWeight(weight float64) error {
	if !(weight > 0) || math.IsInf(weight, 1) {
		return ErrWeightIsInvalid
	}
	p.weight = weight
	return nil
}

func (p *Parcel) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	p.status = status
	return nil
}
