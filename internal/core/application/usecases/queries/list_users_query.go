package queries

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/pkg/guard"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrListUsersQueryIsNotConstructed is returned by Validate for zero-value queries.
var ErrListUsersQueryIsNotConstructed = errors.New(
	"ListUsersQuery must be created via NewListUsersQuery constructor",
)

// ListUsersQuery is one page of the account listing.
type ListUsersQuery struct {
	actor kernel.Actor
	page  kernel.Page
	guard guard.ConstructorGuard
}

// NewListUsersQuery creates a listing query. A zero page means the first default-sized page.
func NewListUsersQuery(actor kernel.Actor, page kernel.Page) (ListUsersQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListUsersQuery{}, err
	}
	if page.Size() == 0 {
		page = kernel.DefaultFirstPage()
	}
	return ListUsersQuery{actor: actor, page: page, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListUsersQuery) Validate() error {
	return q.guard.Validate(ErrListUsersQueryIsNotConstructed)
}

// Page returns the requested page.
func (q ListUsersQuery) Page() kernel.Page {
	return q.page
}

// ListUsersResult is one page of accounts, newest first, with its pagination meta.
type ListUsersResult struct {
	Items []UserView
	Meta  kernel.PageMeta
}

// ListUsersQueryHandler reads the users table directly. Admin accounts are
// excluded and the password hash column is never selected.
type ListUsersQueryHandler struct {
	db     *gorm.DB
	policy services.AccessPolicy
}

// NewListUsersQueryHandler creates a handler querying db directly.
// Whether non-admins may list users is up to policy.
func NewListUsersQueryHandler(db *gorm.DB, policy services.AccessPolicy) ListUsersQueryHandler {
	return ListUsersQueryHandler{db: db, policy: policy}
}

// Handle returns one page of users ordered by creation time, newest first.
// Returns ForbiddenError if the actor may not list users.
func (h ListUsersQueryHandler) Handle(ctx context.Context, query ListUsersQuery) (ListUsersResult, error) {
	if err := query.Validate(); err != nil {
		return ListUsersResult{}, err
	}

	if err := h.policy.Authorize(query.actor, services.OpListUsers); err != nil {
		return ListUsersResult{}, err
	}

	admin := kernel.RoleAdmin.String()
	db := h.db.WithContext(ctx)

	var total int64
	if err := db.Raw(`SELECT COUNT(*) FROM users WHERE role <> ?`, admin).Scan(&total).Error; err != nil {
		return ListUsersResult{}, err
	}

	rows, err := db.Raw(`
		SELECT
			id,
			name,
			email,
			role,
			status,
			phone,
			address,
			created_at,
			updated_at
		FROM users
		WHERE role <> ?
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, admin, query.page.Size(), query.page.Offset()).Rows()
	if err != nil {
		return ListUsersResult{}, err
	}
	defer rows.Close()

	items := make([]UserView, 0, query.page.Size())
	for rows.Next() {
		var (
			view UserView
			id   uuid.UUID
		)
		if err = rows.Scan(
			&id,
			&view.Name,
			&view.Email,
			&view.Role,
			&view.Status,
			&view.Phone,
			&view.Address,
			&view.CreatedAt,
			&view.UpdatedAt,
		); err != nil {
			return ListUsersResult{}, err
		}
		view.ID = id.String()
		items = append(items, view)
	}

	if err = rows.Err(); err != nil {
		return ListUsersResult{}, err
	}

	return ListUsersResult{
		Items: items,
		Meta:  kernel.NewPageMeta(query.page, total),
	}, nil
}
