package parcel

import (
	"strings"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

// Contact is the sender or recipient as captured when the parcel was created.
// It may point at a registered user; the copied name and address stay on the
// parcel even if that user's profile later changes.
type Contact struct {
	userID  *kernel.UUID
	name    string
	email   string
	phone   string
	address string
}

// NewUserContact snapshots a registered user.
func NewUserContact(userID kernel.UUID, name, email, phone, address string) (Contact, error) {
	if err := userID.Validate(); err != nil {
		return Contact{}, err
	}
	c := Contact{
		userID:  &userID,
		name:    strings.TrimSpace(name),
		email:   strings.ToLower(strings.TrimSpace(email)),
		phone:   strings.TrimSpace(phone),
		address: strings.TrimSpace(address),
	}
	if c.name == "" {
		return Contact{}, errs.NewValueIsRequiredError("name")
	}
	return c, nil
}

// NewGuestContact describes a recipient without a platform account, which is
// only deliverable with a name, phone and address.
func NewGuestContact(name, email, phone, address string) (Contact, error) {
	c := Contact{
		name:    strings.TrimSpace(name),
		email:   strings.ToLower(strings.TrimSpace(email)),
		phone:   strings.TrimSpace(phone),
		address: strings.TrimSpace(address),
	}
	var missing []string
	if c.name == "" {
		missing = append(missing, "name")
	}
	if c.phone == "" {
		missing = append(missing, "phone")
	}
	if c.address == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return Contact{}, errs.NewValueIsRequiredError("recipient " + strings.Join(missing, ", "))
	}
	return c, nil
}

// RestoreContact rebuilds a stored contact without re-applying creation rules.
func RestoreContact(userID *kernel.UUID, name, email, phone, address string) Contact {
	return Contact{userID: userID, name: name, email: email, phone: phone, address: address}
}

// UserID returns the linked account, or nil for a guest.
func (c Contact) UserID() *kernel.UUID {
	return c.userID
}

// Name returns the name captured at creation.
func (c Contact) Name() string {
	return c.name
}

// Email returns the lower-cased email, possibly empty.
func (c Contact) Email() string {
	return c.email
}

// Phone returns the phone captured at creation.
func (c Contact) Phone() string {
	return c.phone
}

// Address returns the postal address captured at creation.
func (c Contact) Address() string {
	return c.address
}

// IsUser reports whether the contact references the given registered user.
func (c Contact) IsUser(id kernel.UUID) bool {
	return c.userID != nil && c.userID.IsEqual(id)
}
