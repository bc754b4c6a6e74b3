package queries

import (
	"slices"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
)

// ContactView is a sender or recipient snapshot. UserID is set for registered users.
type ContactView struct {
	UserID  *string `json:"userId,omitempty"`
	Name    string  `json:"name"`
	Email   string  `json:"email,omitempty"`
	Phone   string  `json:"phone,omitempty"`
	Address string  `json:"address,omitempty"`
}

// StatusEntryView is one history entry. UpdatedBy is the acting user's ID.
type StatusEntryView struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	UpdatedBy     string    `json:"updatedBy"`
	UpdatedByRole string    `json:"updatedByRole"`
	Note          string    `json:"note,omitempty"`
}

// ParcelView is the read model for a single parcel. History is ordered newest
// first.
type ParcelView struct {
	ID               string            `json:"id"`
	TrackingNumber   string            `json:"trackingNumber"`
	Sender           ContactView       `json:"sender"`
	Recipient        ContactView       `json:"recipient"`
	Weight           float64           `json:"weight"`
	PickupAddress    string            `json:"pickupAddress,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	DeliveryMan      *string           `json:"deliveryMan,omitempty"`
	Status           string            `json:"currentStatus"`
	StatusBeforeHold *string           `json:"statusBeforeHold,omitempty"`
	IsBlocked        bool              `json:"isBlocked"`
	History          []StatusEntryView `json:"statusHistory"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	Version          int               `json:"version"`
}

// UserView never carries credentials.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"isActive"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewParcelView maps an aggregate to its read model.
func NewParcelView(p *parcel.Parcel) ParcelView {
	history := make([]StatusEntryView, 0, len(p.History()))
	for _, e := range p.History() {
		history = append(history, StatusEntryView{
			Status:        e.Status().String(),
			Timestamp:     e.Timestamp(),
			UpdatedBy:     e.UpdatedBy().ID().String(),
			UpdatedByRole: e.UpdatedBy().Role().String(),
			Note:          e.Note(),
		})
	}
	slices.Reverse(history)

	view := ParcelView{
		ID:             p.ID().String(),
		TrackingNumber: p.TrackingNumber().String(),
		Sender:         newContactView(p.Sender()),
		Recipient:      newContactView(p.Recipient()),
		Weight:         p.Weight(),
		PickupAddress:  p.PickupAddress(),
		Notes:          p.Notes(),
		DeliveryMan:    uuidString(p.DeliveryMan()),
		Status:         p.Status().String(),
		IsBlocked:      p.IsBlocked(),
		History:        history,
		CreatedAt:      p.CreatedAt(),
		UpdatedAt:      p.UpdatedAt(),
		Version:        p.Version(),
	}
	if before := p.StatusBeforeHold(); before != nil {
		s := before.String()
		view.StatusBeforeHold = &s
	}
	return view
}

func newContactView(c parcel.Contact) ContactView {
	return ContactView{
		UserID:  uuidString(c.UserID()),
		Name:    c.Name(),
		Email:   c.Email(),
		Phone:   c.Phone(),
		Address: c.Address(),
	}
}

func uuidString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
