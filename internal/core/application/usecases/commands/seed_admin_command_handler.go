package commands

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

// SeedAdminCommandHandler runs once at startup. It is the only way an ADMIN
// account comes into existence.
//
// Example:
//
// 	handler := NewSeedAdminCommandHandler(uowFactory, hasher)
// 	cmd, err := NewSeedAdminCommand(cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
// 	if err != nil {
// 	    return err
// 	}
//
// 	created, err := handler.Handle(ctx, cmd)
// 	if err != nil {
// 	    return fmt.Errorf("seed admin: %w", err)
// 	}
// 	logger.Info("Admin seeded", "created", created)
type SeedAdminCommandHandler struct {
	uowFactory UserUoWFactory
	hasher     ports.PasswordHasher
}

// NewSeedAdminCommandHandler creates a handler for admin seeding.
func NewSeedAdminCommandHandler(uowFactory UserUoWFactory, hasher ports.PasswordHasher) SeedAdminCommandHandler {
	return SeedAdminCommandHandler{
		uowFactory: uowFactory,
		hasher:     hasher,
	}
}

// Handle creates the admin unless an account with the email already exists,
// in which case it reports created=false and changes nothing.
func (h *SeedAdminCommandHandler) Handle(ctx context.Context, cmd SeedAdminCommand) (created bool, err error) {
	ctx, end := startSpan(ctx, "SeedAdmin")
	defer end(&err)

	if err = cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.UserRepository()
	_, err = repo.GetByEmail(ctx, cmd.Email())
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return false, err
	}

	hash, err := h.hasher.Hash(cmd.Password())
	if err != nil {
		return false, err
	}

	admin, err := user.NewUser(cmd.UserID(), cmd.Name(), cmd.Email(), hash, kernel.RoleAdmin, "", "")
	if err != nil {
		return false, err
	}

	if err = repo.Add(ctx, admin); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	return true, nil
}
