package commands

import (
	"errors"
	"strings"

	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

// ErrLoginCommandIsNotConstructed is returned by Validate for zero-value commands.
var ErrLoginCommandIsNotConstructed = errors.New("LoginCommand must be created via NewLoginCommand constructor")

// LoginCommand carries the credentials of a sign-in attempt.
type LoginCommand struct { //nolint:recvcheck //using for validation
	email    string
	password string

	guard guard.ConstructorGuard
}

// NewLoginCommand normalizes the email and requires both fields.
// The password is not trimmed.
func NewLoginCommand(email, password string) (LoginCommand, error) {
	cmd := LoginCommand{
		email:    strings.ToLower(strings.TrimSpace(email)),
		password: password,
		guard:    guard.NewConstructorGuard(),
	}

	var err error
	if cmd.email == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("email"))
	}
	if cmd.password == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("password"))
	}
	if err != nil {
		return LoginCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c LoginCommand) Validate() error {
	return c.guard.Validate(ErrLoginCommandIsNotConstructed)
}

// Email returns the lower-cased, trimmed email.
func (c LoginCommand) Email() string { return c.email }

// Password returns the password exactly as entered.
func (c LoginCommand) Password() string { return c.password }
