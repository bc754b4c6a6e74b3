package commands

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

// RegisterUserCommandHandler creates accounts through the public sign-up
// endpoint.
type RegisterUserCommandHandler struct {
	uowFactory UserUoWFactory
	hasher     ports.PasswordHasher
}

// NewRegisterUserCommandHandler creates a handler for sign-ups.
// Requires a UserUoWFactory and a PasswordHasher.
func NewRegisterUserCommandHandler(uowFactory UserUoWFactory, hasher ports.PasswordHasher) RegisterUserCommandHandler {
	return RegisterUserCommandHandler{
		uowFactory: uowFactory,
		hasher:     hasher,
	}
}

// Handle stores the account with a hashed password. A taken email fails with
// errs.AlreadyExistsError.
func (h *RegisterUserCommandHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (err error) {
	ctx, end := startSpan(ctx, "RegisterUser")
	defer end(&err)

	if err = cmd.Validate(); err != nil {
		return err
	}

	hash, err := h.hasher.Hash(cmd.Password())
	if err != nil {
		return err
	}

	u, err := user.NewUser(cmd.UserID(), cmd.Name(), cmd.Email(), hash, cmd.Role(), cmd.Phone(), cmd.Address())
	if err != nil {
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
	if err = ensureEmailIsFree(ctx, repo, cmd.Email()); err != nil {
		return err
	}

	if err = repo.Add(ctx, u); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func ensureEmailIsFree(ctx context.Context, repo ports.UserRepository, email string) error {
	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return errs.NewAlreadyExistsError("email", email)
	case errors.Is(err, errs.ErrObjectNotFound):
		return nil
	default:
		return err
	}
}
