package user

import (
	"errors"
	"strings"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

// Validation errors returned by NewUser and RestoreUser.
var (
	ErrNameIsRequired         = errs.NewValueIsRequiredError("name")
	ErrEmailIsRequired        = errs.NewValueIsRequiredError("email")
	ErrPasswordHashIsRequired = errs.NewValueIsRequiredError("password")
	// ErrUserIsNotConstructed is returned when a User was not built through NewUser or RestoreUser.
	ErrUserIsNotConstructed = errors.New("User must be created via NewUser or RestoreUser")
)

// User is a platform account. Delivery agents are users with the
// DELIVERY_MAN role.
//
// Business rules:
//   - email is unique (enforced by storage) and stored lower-cased
//   - the password is kept only as a hash and never leaves the adapters that need it
//   - an admin's role and account status cannot be changed through AssignRole or ChangeActivity
//   - nobody can change their own account status
type User struct {
	id           kernel.UUID
	name         string
	email        string
	passwordHash string
	role         kernel.Role
	activity     ActivityStatus
	phone        string
	address      string
	createdAt    time.Time
	updatedAt    time.Time
	guard        guard.ConstructorGuard
}

// NewUser creates an Active account.
func NewUser(id kernel.UUID, name, email, passwordHash string, role kernel.Role, phone, address string) (*User, error) {
	now := time.Now().UTC()
	u := &User{
		activity:  Active,
		phone:     strings.TrimSpace(phone),
		address:   strings.TrimSpace(address),
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		u.setID(id),
		u.setName(name),
		u.setEmail(email),
		u.setPasswordHash(passwordHash),
		u.setRole(role),
	); err != nil {
		return nil, err
	}

	return u, nil
}

// RestoreUser rebuilds a stored account.
func RestoreUser(
	id kernel.UUID,
	name, email, passwordHash string,
	role kernel.Role,
	activity ActivityStatus,
	phone, address string,
	createdAt, updatedAt time.Time,
) (*User, error) {
	u := &User{
		phone:     phone,
		address:   address,
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		u.setID(id),
		u.setName(name),
		u.setEmail(email),
		u.setPasswordHash(passwordHash),
		u.setRole(role),
		activity.Validate(),
	); err != nil {
		return nil, err
	}
	u.activity = activity

	return u, nil
}

// Validate ensures the account was created through NewUser or RestoreUser.
// Returns ErrUserIsNotConstructed otherwise.
func (u *User) Validate() error {
	if u == nil {
		return ErrUserIsNotConstructed
	}
	return u.guard.Validate(ErrUserIsNotConstructed)
}

// IsEqual compares accounts by identity.
func (u *User) IsEqual(other *User) bool {
	return other != nil && u.id.IsEqual(other.id)
}

// ID returns the account identifier.
func (u *User) ID() kernel.UUID { return u.id }

// Name returns the display name.
func (u *User) Name() string { return u.name }

// Email returns the lower-cased login email.
func (u *User) Email() string { return u.email }

// PasswordHash returns the stored bcrypt hash. Read models never expose it.
func (u *User) PasswordHash() string { return u.passwordHash }

// Role returns the account role.
func (u *User) Role() kernel.Role { return u.role }

// Activity returns the account status.
func (u *User) Activity() ActivityStatus { return u.activity }

func (u *User) Phone() string        { return u.phone }
func (u *User) Address() string      { return u.address }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// IsActive reports whether the account may sign in and act.
func (u *User) IsActive() bool {
	return u.activity == Active
}

// Actor is the identity this account acts with.
func (u *User) Actor() kernel.Actor {
	a, _ := kernel.NewActor(u.id, u.role)
	return a
}

// AssignRole changes the role of a non-admin account.
func (u *User) AssignRole(role kernel.Role) error {
	if u.role.IsAdmin() {
		return errs.NewInvalidOperationError("cannot change the role of an admin")
	}
	if err := role.Validate(); err != nil {
		return err
	}
	u.role = role
	u.updatedAt = time.Now().UTC()
	return nil
}

// ChangeActivity sets the account status on behalf of actor. Self-targeting
// and admin targets are refused.
func (u *User) ChangeActivity(actor kernel.Actor, activity ActivityStatus) error {
	if actor.Is(u.id) {
		return errs.NewInvalidOperationError("you cannot change your own account status")
	}
	if u.role.IsAdmin() {
		return errs.NewInvalidOperationError("cannot change the status of an admin")
	}
	if err := activity.Validate(); err != nil {
		return err
	}
	u.activity = activity
	u.updatedAt = time.Now().UTC()
	return nil
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	u.name = name
	return nil
}

func (u *User) setEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrEmailIsRequired
	}
	u.email = email
	return nil
}

func (u *User) setPasswordHash(hash string) error {
	if hash == "" {
		return ErrPasswordHashIsRequired
	}
	u.passwordHash = hash
	return nil
}

func (u *User) setRole(role kernel.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	u.role = role
	return nil
}
