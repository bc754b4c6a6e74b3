package queries

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/guard"
)

// ErrGetProfileQueryIsNotConstructed is returned by Validate for zero-value queries.
var ErrGetProfileQueryIsNotConstructed = errors.New(
	"GetProfileQuery must be created via NewGetProfileQuery constructor",
)

// GetProfileQuery asks for the caller's own account.
type GetProfileQuery struct {
	actor kernel.Actor
	guard guard.ConstructorGuard
}

// NewGetProfileQuery creates a profile query for actor.
func NewGetProfileQuery(actor kernel.Actor) (GetProfileQuery, error) {
	if err := actor.Validate(); err != nil {
		return GetProfileQuery{}, err
	}
	return GetProfileQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetProfileQuery) Validate() error {
	return q.guard.Validate(ErrGetProfileQueryIsNotConstructed)
}

// GetProfileQueryHandler serves GET /users/me.
type GetProfileQueryHandler struct {
	users  ports.UserReader
	policy services.AccessPolicy
}

// NewGetProfileQueryHandler creates a handler reading through users.
func NewGetProfileQueryHandler(users ports.UserReader, policy services.AccessPolicy) GetProfileQueryHandler {
	return GetProfileQueryHandler{users: users, policy: policy}
}

// Handle loads the actor's account. An account deleted after the token was
// issued yields ObjectNotFoundError.
func (h GetProfileQueryHandler) Handle(ctx context.Context, query GetProfileQuery) (UserView, error) {
	if err := query.Validate(); err != nil {
		return UserView{}, err
	}

	if err := h.policy.Authorize(query.actor, services.OpGetOwnProfile); err != nil {
		return UserView{}, err
	}

	u, err := h.users.Get(ctx, query.actor.ID())
	if err != nil {
		return UserView{}, err
	}

	return NewUserView(u), nil
}

// NewUserView maps a user aggregate to its read model.
func NewUserView(u *user.User) UserView {
	return UserView{
		ID:        u.ID().String(),
		Name:      u.Name(),
		Email:     u.Email(),
		Role:      u.Role().String(),
		Status:    u.Activity().String(),
		Phone:     u.Phone(),
		Address:   u.Address(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}
