package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var ErrTrackParcelQueryIsNotConstructed = errors.New(
	"TrackParcelQuery must be created via NewTrackParcelQuery constructor",
)

// TrackParcelQuery is the public lookup; it carries no actor. The tracking
// number is kept as typed, minus surrounding whitespace, and matched exactly.
type TrackParcelQuery struct {
	trackingNumber string
	guard          guard.ConstructorGuard
}

// NewTrackParcelQuery only rejects an empty tracking number. Anything else
// that is not stored, malformed input included, is reported as not found by
// the handler.
func NewTrackParcelQuery(trackingNumber string) (TrackParcelQuery, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return TrackParcelQuery{}, errs.NewValueIsRequiredError("trackingNumber")
	}
	return TrackParcelQuery{trackingNumber: trackingNumber, guard: guard.NewConstructorGuard()}, nil
}

// Validate reports whether the query was built by NewTrackParcelQuery.
func (q TrackParcelQuery) Validate() error {
	return q.guard.Validate(ErrTrackParcelQueryIsNotConstructed)
}

// TrackingNumber returns the trimmed tracking number as supplied.
func (q TrackParcelQuery) TrackingNumber() string {
	return q.trackingNumber
}

// TrackParcelQueryHandler reads through the tracking cache when one is
// configured. Cache failures are logged and never fail the lookup.
type TrackParcelQueryHandler struct {
	parcels ports.ParcelReader
	cache   ports.TrackingCache
	logger  *slog.Logger
}

// NewTrackParcelQueryHandler accepts a nil cache, which disables caching.
func NewTrackParcelQueryHandler(parcels ports.ParcelReader, cache ports.TrackingCache, logger *slog.Logger) TrackParcelQueryHandler {
	return TrackParcelQueryHandler{
		parcels: parcels,
		cache:   cache,
		logger:  logger.With("component", "track_parcel_query"),
	}
}

// Handle returns the public view of the parcel whose tracking number equals
// the query's exactly. Numbers that are malformed or differ only in case are
// unknown, so the lookup fails with errs.ErrObjectNotFound.
//
// Example:
//
//	query, err := queries.NewTrackParcelQuery("TRK-01J9Z8Q7W6X5V4T3S2R1P0N9M8")
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
func (h TrackParcelQueryHandler) Handle(ctx context.Context, query TrackParcelQuery) (ParcelView, error) {
	if err := query.Validate(); err != nil {
		return ParcelView{}, err
	}

	key := query.trackingNumber
	tn, err := parcel.ParseTrackingNumber(key)
	if err != nil || tn.String() != key {
		return ParcelView{}, errs.NewObjectNotFoundError("trackingNumber", key)
	}

	if h.cache != nil {
		var cached ParcelView
		hit, err := h.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			h.logger.WarnContext(ctx, "Tracking cache read failed", "trackingNumber", key, "error", err)
		case hit:
			return cached, nil
		}
	}

	p, err := h.parcels.GetByTrackingNumber(ctx, tn)
	if err != nil {
		return ParcelView{}, err
	}

	view := NewParcelView(p)
	if h.cache != nil {
		if err = h.cache.Set(ctx, key, view.Version, view); err != nil {
			h.logger.WarnContext(ctx, "Tracking cache write failed", "trackingNumber", key, "error", err)
		}
	}

	return view, nil
}
