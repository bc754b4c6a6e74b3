// Package postgres provides the GORM-based unit of work, database bootstrap
// and schema migration.
//
// A unit of work hands out repositories bound to its transaction and tracks
// every parcel they write. After a successful Commit the tracked parcels'
// pending StatusChanged events are drained and handed to the configured
// ports.EventPublisher, and every written parcel is reported to the optional
// ports.ParcelWriteObserver. Failures of either are logged and never undo the
// commit.
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.ParcelRepository().Update(ctx, p); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
package postgres

import (
	"context"
	"log/slog"

	"parceltrack/internal/adapters/out/postgres/parcelrepo"
	"parceltrack/internal/adapters/out/postgres/userrepo"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"

	"gorm.io/gorm"
)

type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory hands out units of work sharing one connection pool,
// publisher and write observer.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.EventPublisher
	observer  ports.ParcelWriteObserver
	logger    *slog.Logger
}

// FactoryOption configures a GormUnitOfWorkFactory.
type FactoryOption func(*GormUnitOfWorkFactory)

// WithWriteObserver reports every committed parcel write to o.
func WithWriteObserver(o ports.ParcelWriteObserver) FactoryOption {
	return func(f *GormUnitOfWorkFactory) {
		f.observer = o
	}
}

// NewGormUnitOfWorkFactory creates a factory. A nil publisher drops events.
func NewGormUnitOfWorkFactory(
	db *gorm.DB,
	publisher ports.EventPublisher,
	logger *slog.Logger,
	opts ...FactoryOption,
) *GormUnitOfWorkFactory {
	if logger == nil {
		logger = slog.Default()
	}
	f := &GormUnitOfWorkFactory{
		db:        db,
		publisher: publisher,
		logger:    logger.With("component", "unit_of_work"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a fresh unit of work with no open transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		observer:          f.observer,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork is a single transaction plus the aggregates written in it.
// It is not safe for concurrent use.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.EventPublisher
	observer          ports.ParcelWriteObserver
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin starts a transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction, then reports every tracked parcel to the
// write observer and publishes their events.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	uow.afterCommit(ctx)
	return nil
}

// Rollback discards the transaction and forgets tracked aggregates. It returns
// gorm.ErrInvalidTransaction after Commit, which callers deferring it ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// ParcelRepository returns a parcel repository bound to the open transaction,
// or to the pool when none is open.
func (uow *GormUnitOfWork) ParcelRepository() ports.ParcelRepository {
	return parcelrepo.NewGormParcelRepository(uow.conn(), uow)
}

// UserRepository returns a user repository bound like ParcelRepository.
func (uow *GormUnitOfWork) UserRepository() ports.UserRepository {
	return userrepo.NewGormUserRepository(uow.conn())
}

// TrackAggregate is called by repositories for every aggregate they write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) afterCommit(ctx context.Context) {
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)

	var (
		events []parcel.StatusChanged
		writes []ports.ParcelWrite
		seen   = make(map[kernel.UUID]int)
	)
	for _, t := range tracked {
		p, ok := t.Aggregate.(*parcel.Parcel)
		if !ok {
			continue
		}
		events = append(events, p.PullEvents()...)

		// A parcel written twice is reported once, at its last version.
		w := ports.ParcelWrite{TrackingNumber: p.TrackingNumber(), Version: p.Version()}
		if i, dup := seen[t.ID]; dup {
			writes[i] = w
			continue
		}
		seen[t.ID] = len(writes)
		writes = append(writes, w)
	}

	if len(writes) > 0 && uow.observer != nil {
		if err := uow.observer.ParcelsWritten(ctx, writes...); err != nil {
			uow.logger.ErrorContext(ctx, "Failed to report parcel writes", "count", len(writes), "error", err)
		}
	}

	if len(events) == 0 || uow.publisher == nil {
		return
	}

	if err := uow.publisher.Publish(ctx, events...); err != nil {
		uow.logger.ErrorContext(ctx, "Failed to publish parcel events", "count", len(events), "error", err)
	}
}
