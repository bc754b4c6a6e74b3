package commands

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

// minPasswordLength counts runes, not bytes.
const minPasswordLength = 6

// Errors returned while building a RegisterUserCommand.
var (
	ErrRegisterUserCommandIsNotConstructed = errors.New(
		"RegisterUserCommand must be created via NewRegisterUserCommand constructor",
	)
	ErrAdminSelfRegistration = errs.NewValueIsInvalidErrorWithCause("role", errors.New("admins cannot self-register"))
)

// RegisterUserCommand creates a new account. An empty role registers a USER;
// ADMIN accounts only come from seeding.
type RegisterUserCommand struct { //nolint:recvcheck //using for validation
	userID   kernel.UUID
	name     string
	email    string
	password string
	role     kernel.Role
	phone    string
	address  string

	guard guard.ConstructorGuard
}

// NewRegisterUserCommand creates a registration command.
// Requires a name, an email and a password of at least six characters.
// Returns ErrAdminSelfRegistration when role is RoleAdmin.
func NewRegisterUserCommand(name, email, password string, role kernel.Role, phone, address string) (RegisterUserCommand, error) {
	cmd := RegisterUserCommand{
		userID:  kernel.NewUUID(),
		phone:   strings.TrimSpace(phone),
		address: strings.TrimSpace(address),
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setName(name),
		cmd.setEmail(email),
		cmd.setPassword(password),
		cmd.setRole(role),
	); err != nil {
		return RegisterUserCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRegisterUserCommandIsNotConstructed if validation fails.
func (c RegisterUserCommand) Validate() error {
	return c.guard.Validate(ErrRegisterUserCommandIsNotConstructed)
}

// UserID is the identifier the new account will get.
func (c RegisterUserCommand) UserID() kernel.UUID { return c.userID }

// Name returns the trimmed display name.
func (c RegisterUserCommand) Name() string { return c.name }

// Email returns the lower-cased, trimmed email.
func (c RegisterUserCommand) Email() string { return c.email }

// Password returns the plain password; the handler hashes it.
func (c RegisterUserCommand) Password() string { return c.password }

// Role returns the requested role, RoleUser when none was given.
func (c RegisterUserCommand) Role() kernel.Role { return c.role }

func (c RegisterUserCommand) Phone() string   { return c.phone }
func (c RegisterUserCommand) Address() string { return c.address }

func (c *RegisterUserCommand) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *RegisterUserCommand) setEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	c.email = email
	return nil
}

func (c *RegisterUserCommand) setPassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return errs.NewValueIsInvalidErrorWithCause("password", fmt.Errorf("must be at least %d characters", minPasswordLength))
	}
	c.password = password
	return nil
}

func (c *RegisterUserCommand) setRole(role kernel.Role) error {
	if role == kernel.UnknownRole {
		role = kernel.RoleUser
	}
	if err := role.Validate(); err != nil {
		return err
	}
	if role.IsAdmin() {
		return ErrAdminSelfRegistration
	}
	c.role = role
	return nil
}
