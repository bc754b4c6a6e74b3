package commands

import (
	"context"

	"parceltrack/internal/core/domain/services"
)

// AssignUserRoleCommandHandler changes account roles on admin authority.
type AssignUserRoleCommandHandler struct {
	uowFactory UserUoWFactory
	policy     services.AccessPolicy
}

// NewAssignUserRoleCommandHandler creates a handler for role changes.
// Requires a UserUoWFactory for transactional persistence.
func NewAssignUserRoleCommandHandler(uowFactory UserUoWFactory, policy services.AccessPolicy) AssignUserRoleCommandHandler {
	return AssignUserRoleCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

// Handle fails with errs.ObjectNotFoundError for unknown users and
// errs.InvalidOperationError when the target is an admin.
func (h *AssignUserRoleCommandHandler) Handle(ctx context.Context, cmd AssignUserRoleCommand) (err error) {
	ctx, end := startSpan(ctx, "AssignUserRole")
	defer end(&err)

	if err = cmd.Validate(); err != nil {
		return err
	}

	if err = h.policy.Authorize(cmd.Actor(), services.OpAssignUserRole); err != nil {
		return err
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

	if err = u.AssignRole(cmd.Role()); err != nil {
		return err
	}

	if err = repo.Update(ctx, u); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
