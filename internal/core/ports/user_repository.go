package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
)

// UserReader is the read side of UserRepository.
type UserReader interface {
	// Get returns errs.ObjectNotFoundError when no user has the id.
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)

	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// UserRepository persists user aggregates.
type UserRepository interface {
	UserReader

	// Add fails with errs.AlreadyExistsError when the email is taken.
	Add(ctx context.Context, aggregate *user.User) error

	Update(ctx context.Context, aggregate *user.User) error
}
