package parcelrepo

import (
	"context"
	"errors"

	"parceltrack/internal/adapters/out/postgres/pgerr"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormParcelRepository implements ports.ParcelRepository and ports.ParcelReader
// using GORM.
type GormParcelRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

// NewGormParcelRepository creates a repository that reports every added or
// updated aggregate to tracker. A nil tracker is allowed.
func NewGormParcelRepository(db *gorm.DB, tracker aggregateTracker) *GormParcelRepository {
	if tracker == nil {
		tracker = noopTracker{}
	}
	return &GormParcelRepository{
		db:      db,
		tracker: tracker,
	}
}

// NewGormParcelReader returns a repository for reads outside a unit of work.
func NewGormParcelReader(db *gorm.DB) *GormParcelRepository {
	return NewGormParcelRepository(db, nil)
}

// Add inserts the parcel row and its full history. A duplicate tracking
// number maps to errs.AlreadyExistsError.
func (r *GormParcelRepository) Add(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewAlreadyExistsErrorWithCause("trackingNumber", dto.TrackingNumber, err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the parcel row only if its stored version still equals
// aggregate.Version(), then appends the history entries added since load.
func (r *GormParcelRepository) Update(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&ParcelDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"delivery_man_id":    dto.DeliveryManID,
			"status":             dto.Status,
			"status_before_hold": dto.StatusBeforeHold,
			"is_blocked":         dto.IsBlocked,
			"version":            dto.Version + 1,
			"updated_at":         dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&ParcelDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("parcel", aggregate.ID().String())
		}
		return errs.NewVersionIsInvalidErrorWithCause("parcel",
			errors.New("parcel was modified by another request"))
	}

	var persisted int64
	if err := db.Model(&StatusEntryDTO{}).Where("parcel_id = ?", dto.ID).Count(&persisted).Error; err != nil {
		return err
	}

	if fresh := historyFromDomain(aggregate, int(persisted)); len(fresh) > 0 {
		if err := db.Create(&fresh).Error; err != nil {
			return err
		}
	}

	aggregate.IncrementVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get loads a parcel with its history ordered by Seq. Returns
// errs.ObjectNotFoundError if no row matches.
func (r *GormParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ParcelDTO
	if err := r.withHistory(ctx).First(&dto, "id = ?", id.Google()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("parcel", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByTrackingNumber is Get keyed by tracking number.
func (r *GormParcelRepository) GetByTrackingNumber(ctx context.Context, trackingNumber parcel.TrackingNumber) (*parcel.Parcel, error) {
	if err := trackingNumber.Validate(); err != nil {
		return nil, err
	}

	var dto ParcelDTO
	if err := r.withHistory(ctx).First(&dto, "tracking_number = ?", trackingNumber.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("trackingNumber", trackingNumber.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// List returns one page of parcels matching filter, newest first, with the
// total count of matching rows.
func (r *GormParcelRepository) List(
	ctx context.Context,
	filter ports.ParcelFilter,
	page kernel.Page,
) ([]*parcel.Parcel, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&ParcelDTO{})
		if filter.SenderID != nil {
			q = q.Where("sender_user_id = ?", filter.SenderID.Google())
		}
		if filter.RecipientID != nil {
			q = q.Where("recipient_user_id = ?", filter.RecipientID.Google())
		}
		if filter.DeliveryManID != nil {
			q = q.Where("delivery_man_id = ?", filter.DeliveryManID.Google())
		}
		if filter.Status != nil {
			q = q.Where("status = ?", filter.Status.String())
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dtos []ParcelDTO
	if err := scoped().
		Preload("History", orderedHistory).
		Order("created_at DESC").
		Order("id").
		Limit(page.Size()).
		Offset(page.Offset()).
		Find(&dtos).Error; err != nil {
		return nil, 0, err
	}

	parcels := make([]*parcel.Parcel, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, 0, err
		}
		parcels = append(parcels, p)
	}

	return parcels, total, nil
}

func (r *GormParcelRepository) withHistory(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("History", orderedHistory)
}

func orderedHistory(db *gorm.DB) *gorm.DB {
	return db.Order("seq")
}
