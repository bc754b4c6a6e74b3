package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Aggregates touched through
// its repositories are tracked; their pending events are published after a
// successful Commit.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// ParcelRepository is bound to the transaction started by Begin.
	ParcelRepository() ParcelRepository

	// UserRepository is bound to the transaction started by Begin.
	UserRepository() UserRepository
}
