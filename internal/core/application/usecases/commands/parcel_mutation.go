package commands

import (
	"context"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
)

// mutateParcel loads a parcel, applies mutate and stores the result in one
// transaction. The repository update is conditional on the loaded version.
func mutateParcel(
	ctx context.Context,
	uowFactory ParcelUoWFactory,
	parcelID kernel.UUID,
	mutate func(*parcel.Parcel) error,
) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ParcelRepository()
	p, err := repo.Get(ctx, parcelID)
	if err != nil {
		return err
	}

	if err = mutate(p); err != nil {
		return err
	}

	if err = repo.Update(ctx, p); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
