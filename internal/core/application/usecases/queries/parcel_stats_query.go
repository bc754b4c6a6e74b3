package queries

import (
	"context"
	"errors"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/pkg/guard"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// ErrGetParcelStatsQueryIsNotConstructed is returned by Validate for zero-value queries.
var ErrGetParcelStatsQueryIsNotConstructed = errors.New(
	"GetParcelStatsQuery must be created via NewGetParcelStatsQuery constructor",
)

// GetParcelStatsQuery asks for the admin dashboard figures.
type GetParcelStatsQuery struct {
	actor kernel.Actor
	guard guard.ConstructorGuard
}

// NewGetParcelStatsQuery creates a stats query for actor.
func NewGetParcelStatsQuery(actor kernel.Actor) (GetParcelStatsQuery, error) {
	if err := actor.Validate(); err != nil {
		return GetParcelStatsQuery{}, err
	}
	return GetParcelStatsQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetParcelStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelStatsQueryIsNotConstructed)
}

// ParcelStats backs the admin dashboard. ByStatus has a key for every status,
// zero counts included.
type ParcelStats struct {
	Total            int64            `json:"totalParcels"`
	ByStatus         map[string]int64 `json:"byStatus"`
	CreatedThisMonth int64            `json:"createdThisMonth"`
	UsersByRole      map[string]int64 `json:"usersByRole"`
}

// GetParcelStatsQueryHandler aggregates counts with SQL. It also implements
// the collector the stats job polls.
//
// Example:
//
// 	handler := NewGetParcelStatsQueryHandler(db, services.NewAccessPolicy())
// 	query, _ := NewGetParcelStatsQuery(admin)
//
// 	stats, err := handler.Handle(ctx, query)
// 	if err != nil {
// 	    return err
// 	}
// 	fmt.Printf("%d parcels, %d in transit\n", stats.Total, stats.ByStatus["IN_TRANSIT"])
type GetParcelStatsQueryHandler struct {
	db     *gorm.DB
	policy services.AccessPolicy
	clock  func() time.Time
}

// NewGetParcelStatsQueryHandler creates a handler querying db directly.
// The month window uses the wall clock in UTC.
func NewGetParcelStatsQueryHandler(db *gorm.DB, policy services.AccessPolicy) GetParcelStatsQueryHandler {
	return GetParcelStatsQueryHandler{db: db, policy: policy, clock: time.Now}
}

// WithClock returns a copy that uses clock for the month window.
func (h GetParcelStatsQueryHandler) WithClock(clock func() time.Time) GetParcelStatsQueryHandler {
	h.clock = clock
	return h
}

// Handle returns the statistics to admins.
func (h GetParcelStatsQueryHandler) Handle(ctx context.Context, query GetParcelStatsQuery) (ParcelStats, error) {
	if err := query.Validate(); err != nil {
		return ParcelStats{}, err
	}

	if err := h.policy.Authorize(query.actor, services.OpViewParcelStats); err != nil {
		return ParcelStats{}, err
	}

	return h.Collect(ctx)
}

// Collect computes the statistics without an actor. It serves the stats job.
func (h GetParcelStatsQueryHandler) Collect(ctx context.Context) (ParcelStats, error) {
	db := h.db.WithContext(ctx)

	stats := ParcelStats{
		ByStatus:    make(map[string]int64),
		UsersByRole: make(map[string]int64),
	}
	for _, s := range parcel.Statuses() {
		stats.ByStatus[s.String()] = 0
	}
	for _, r := range kernel.Roles() {
		stats.UsersByRole[r.String()] = 0
	}

	type bucket struct {
		Label string
		Count int64
	}

	var byStatus []bucket
	if err := db.Raw(`
		SELECT status AS label, COUNT(*) AS count
		FROM parcels
		GROUP BY status
	`).Scan(&byStatus).Error; err != nil {
		return ParcelStats{}, err
	}
	for _, b := range byStatus {
		stats.ByStatus[b.Label] = b.Count
		stats.Total += b.Count
	}

	monthStart := now.With(h.clock().UTC()).BeginningOfMonth()
	if err := db.Raw(`SELECT COUNT(*) FROM parcels WHERE created_at >= ?`, monthStart).
		Scan(&stats.CreatedThisMonth).Error; err != nil {
		return ParcelStats{}, err
	}

	var byRole []bucket
	if err := db.Raw(`
		SELECT role AS label, COUNT(*) AS count
		FROM users
		GROUP BY role
	`).Scan(&byRole).Error; err != nil {
		return ParcelStats{}, err
	}
	for _, b := range byRole {
		stats.UsersByRole[b.Label] = b.Count
	}

	return stats, nil
}
