package commands

import (
	"context"
	"errors"
	"fmt"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike.
var ErrInvalidCredentials = errs.NewUnauthorizedError("invalid email or password")

// LoginResult is what a successful login hands back to the transport.
type LoginResult struct {
	Actor kernel.Actor
	Token ports.AccessToken
}

// LoginCommandHandler exchanges credentials for an access token.
//
// Example:
//
// 	handler := NewLoginCommandHandler(uowFactory, hasher, issuer)
// 	cmd, _ := NewLoginCommand("dana@example.com", "s3cret!")
//
// 	result, err := handler.Handle(ctx, cmd)
// 	if errors.Is(err, errs.ErrUnauthorized) {
// 	    return echo.ErrUnauthorized
// 	}
// 	setCookie(result.Token)
type LoginCommandHandler struct {
	uowFactory UserUoWFactory
	hasher     ports.PasswordHasher
	tokens     ports.TokenIssuer
}

// NewLoginCommandHandler creates a login handler. All three collaborators are required.
func NewLoginCommandHandler(uowFactory UserUoWFactory, hasher ports.PasswordHasher, tokens ports.TokenIssuer) LoginCommandHandler {
	return LoginCommandHandler{
		uowFactory: uowFactory,
		hasher:     hasher,
		tokens:     tokens,
	}
}

// Handle checks the credentials and issues an access token. Unknown emails and
// wrong passwords produce the same ErrInvalidCredentials; inactive accounts
// are refused.
func (h *LoginCommandHandler) Handle(ctx context.Context, cmd LoginCommand) (result LoginResult, err error) {
	ctx, end := startSpan(ctx, "Login")
	defer end(&err)

	if err = cmd.Validate(); err != nil {
		return LoginResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return LoginResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	u, err := uow.UserRepository().GetByEmail(ctx, cmd.Email())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}

	if err = h.hasher.Compare(u.PasswordHash(), cmd.Password()); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	if !u.IsActive() {
		return LoginResult{}, errs.NewUnauthorizedError(fmt.Sprintf("account is %s", u.Activity()))
	}

	token, err := h.tokens.Issue(u.Actor())
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Actor: u.Actor(), Token: token}, nil
}
