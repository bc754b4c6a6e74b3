package commands

import (
	"errors"
	"strings"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

// ErrSeedAdminCommandIsNotConstructed is returned by Validate for zero-value commands.
var ErrSeedAdminCommandIsNotConstructed = errors.New(
	"SeedAdminCommand must be created via NewSeedAdminCommand constructor",
)

// SeedAdminCommand makes sure the configured admin account exists.
type SeedAdminCommand struct { //nolint:recvcheck //using for validation
	userID   kernel.UUID
	name     string
	email    string
	password string

	guard guard.ConstructorGuard
}

// NewSeedAdminCommand creates a seeding command from configuration values.
// An empty name becomes "Admin"; email and password are required.
func NewSeedAdminCommand(name, email, password string) (SeedAdminCommand, error) {
	cmd := SeedAdminCommand{
		userID:   kernel.NewUUID(),
		name:     strings.TrimSpace(name),
		email:    strings.ToLower(strings.TrimSpace(email)),
		password: password,
		guard:    guard.NewConstructorGuard(),
	}
	if cmd.name == "" {
		cmd.name = "Admin"
	}

	var err error
	if cmd.email == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("email"))
	}
	if cmd.password == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("password"))
	}
	if err != nil {
		return SeedAdminCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SeedAdminCommand) Validate() error {
	return c.guard.Validate(ErrSeedAdminCommandIsNotConstructed)
}

// UserID is the identifier used if the admin has to be created.
func (c SeedAdminCommand) UserID() kernel.UUID { return c.userID }
func (c SeedAdminCommand) Name() string        { return c.name }
func (c SeedAdminCommand) Email() string       { return c.email }
func (c SeedAdminCommand) Password() string    { return c.password }
