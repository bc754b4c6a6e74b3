// Package bcrypthasher stores passwords as bcrypt hashes.
package bcrypthasher

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

var _ ports.PasswordHasher = Hasher{}

// Hasher hashes passwords with bcrypt.
type Hasher struct {
	cost int
}

// New returns a hasher with the given cost; zero selects bcrypt.DefaultCost.
func New(cost int) (Hasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return Hasher{}, errs.NewValueIsOutOfRangeError("cost", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return Hasher{cost: cost}, nil
}

// Hash returns the bcrypt hash of password. Passwords longer than 72 bytes
// are rejected by bcrypt and surface as an error.
func (h Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errs.NewValueIsRequiredError("password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Compare returns nil when password matches hash.
func (h Hasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return errs.NewUnauthorizedError("password does not match")
	}
	return errs.NewUnauthorizedErrorWithCause("password does not match", err)
}
