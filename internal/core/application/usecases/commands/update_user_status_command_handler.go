package commands

import (
	"context"

	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/pkg/errs"
)

// UpdateUserStatusCommandHandler activates, deactivates and blocks accounts.
// A blocked or inactive account can no longer sign in, and its existing
// tokens stop working on the next request.
type UpdateUserStatusCommandHandler struct {
	uowFactory UserUoWFactory
	policy     services.AccessPolicy
}

// NewUpdateUserStatusCommandHandler creates a handler for account status changes.
func NewUpdateUserStatusCommandHandler(uowFactory UserUoWFactory, policy services.AccessPolicy) UpdateUserStatusCommandHandler {
	return UpdateUserStatusCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

// Handle refuses self-targeting before touching storage, then fails with
// errs.ObjectNotFoundError for unknown users and errs.InvalidOperationError
// for admin targets.
func (h *UpdateUserStatusCommandHandler) Handle(ctx context.Context, cmd UpdateUserStatusCommand) (err error) {
	ctx, end := startSpan(ctx, "UpdateUserStatus")
	defer end(&err)

	if err = cmd.Validate(); err != nil {
		return err
	}

	if err = h.policy.Authorize(cmd.Actor(), services.OpUpdateUserStatus); err != nil {
		return err
	}

	if cmd.Actor().Is(cmd.UserID()) {
		return errs.NewInvalidOperationError("you cannot change your own account status")
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.UserRepository()
	u, err := repo.Get(ctx, cmd.UserID())
	if err != nil {
		return err
	}

	if err = u.ChangeActivity(cmd.Actor(), cmd.Activity()); err != nil {
		return err
	}

	if err = repo.Update(ctx, u); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
