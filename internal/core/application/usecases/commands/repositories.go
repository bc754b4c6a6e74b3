// Package commands contains the operations that change system state. Every
// command is built through its constructor, authorized against the access
// policy, and executed inside a unit of work.
package commands

import (
	"context"

	"parceltrack/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// ParcelRepoFactory hands out a parcel repository bound to the current transaction.
	ParcelRepoFactory interface {
		ParcelRepository() ports.ParcelRepository
	}

	// UserRepoFactory hands out a user repository bound to the current transaction.
	UserRepoFactory interface {
		UserRepository() ports.UserRepository
	}

	// ParcelUoW is used by commands that only touch parcels.
	ParcelUoW interface {
		TxManager
		ParcelRepoFactory
	}

	// ParcelUoWFactory creates a fresh ParcelUoW per command.
	ParcelUoWFactory interface {
		Create() ParcelUoW
	}

	// UserUoW is used by commands that only touch users.
	UserUoW interface {
		TxManager
		UserRepoFactory
	}

	// UserUoWFactory creates a fresh UserUoW per command.
	UserUoWFactory interface {
		Create() UserUoW
	}

	// UoW spans parcels and users, e.g. when a parcel snapshots its sender
	// or an agent assignment checks the agent's role.
	//
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//   ... uow.UserRepository(), uow.ParcelRepository() ...
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		ParcelRepoFactory
		UserRepoFactory
	}

	// UoWFactory creates a fresh UoW per command.
	UoWFactory interface {
		Create() UoW
	}
)
