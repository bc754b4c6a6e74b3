package ports

import (
	"time"

	"parceltrack/internal/core/domain/model/kernel"
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns errs.UnauthorizedError when the password does not match.
	Compare(hash, password string) error
}

// AccessToken is a signed credential identifying an actor.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

// TokenIssuer issues and verifies access tokens.
type TokenIssuer interface {
	Issue(actor kernel.Actor) (AccessToken, error)
	// Parse returns errs.UnauthorizedError for malformed, forged or expired tokens.
	Parse(token string) (kernel.Actor, error)
}
