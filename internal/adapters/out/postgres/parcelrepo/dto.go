package parcelrepo

import (
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

// ParcelDTO is the parcels row.
type ParcelDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackingNumber   string     `gorm:"size:40;uniqueIndex;not null"`
	Sender           ContactDTO `gorm:"embedded;embeddedPrefix:sender_"`
	Recipient        ContactDTO `gorm:"embedded;embeddedPrefix:recipient_"`
	Weight           float64    `gorm:"not null"`
	PickupAddress    string
	Notes            string
	DeliveryManID    *uuid.UUID `gorm:"type:uuid;index"`
	Status           string     `gorm:"size:20;index;not null"`
	StatusBeforeHold *string    `gorm:"size:20"`
	IsBlocked        bool       `gorm:"not null;default:false"`
	Version          int        `gorm:"not null"`
	CreatedAt        time.Time  `gorm:"index;not null"`
	UpdatedAt        time.Time  `gorm:"not null"`

	History []StatusEntryDTO `gorm:"foreignKey:ParcelID;constraint:OnDelete:CASCADE"`
}

func (ParcelDTO) TableName() string {
	return "parcels"
}

// ContactDTO is embedded in ParcelDTO with a column prefix per role.
type ContactDTO struct {
	UserID  *uuid.UUID `gorm:"type:uuid;index"`
	Name    string
	Email   string
	Phone   string
	Address string
}

// StatusEntryDTO is one history row. Seq is the entry's position in the
// history, starting at zero.
type StatusEntryDTO struct {
	ID            uint      `gorm:"primaryKey"`
	ParcelID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_history_parcel_seq"`
	Seq           int       `gorm:"not null;uniqueIndex:idx_history_parcel_seq"`
	Status        string    `gorm:"size:20;not null"`
	Timestamp     time.Time `gorm:"not null"`
	UpdatedByID   uuid.UUID `gorm:"type:uuid;not null"`
	UpdatedByRole string    `gorm:"size:20;not null"`
	Note          string
}

func (StatusEntryDTO) TableName() string {
	return "parcel_status_history"
}

func fromDomain(p *parcel.Parcel) ParcelDTO {
	dto := ParcelDTO{
		ID:             p.ID().Google(),
		TrackingNumber: p.TrackingNumber().String(),
		Sender:         contactFromDomain(p.Sender()),
		Recipient:      contactFromDomain(p.Recipient()),
		Weight:         p.Weight(),
		PickupAddress:  p.PickupAddress(),
		Notes:          p.Notes(),
		DeliveryManID:  googleID(p.DeliveryMan()),
		Status:         p.Status().String(),
		IsBlocked:      p.IsBlocked(),
		Version:        p.Version(),
		CreatedAt:      p.CreatedAt(),
		UpdatedAt:      p.UpdatedAt(),
	}
	if before := p.StatusBeforeHold(); before != nil {
		s := before.String()
		dto.StatusBeforeHold = &s
	}
	dto.History = historyFromDomain(p, 0)
	return dto
}

// historyFromDomain maps the entries of p's history starting at position from.
func historyFromDomain(p *parcel.Parcel, from int) []StatusEntryDTO {
	history := p.History()
	if from >= len(history) {
		return nil
	}

	dtos := make([]StatusEntryDTO, 0, len(history)-from)
	for i, e := range history[from:] {
		dtos = append(dtos, StatusEntryDTO{
			ParcelID:      p.ID().Google(),
			Seq:           from + i,
			Status:        e.Status().String(),
			Timestamp:     e.Timestamp(),
			UpdatedByID:   e.UpdatedBy().ID().Google(),
			UpdatedByRole: e.UpdatedBy().Role().String(),
			Note:          e.Note(),
		})
	}
	return dtos
}

func contactFromDomain(c parcel.Contact) ContactDTO {
	return ContactDTO{
		UserID:  googleID(c.UserID()),
		Name:    c.Name(),
		Email:   c.Email(),
		Phone:   c.Phone(),
		Address: c.Address(),
	}
}

func toDomain(dto ParcelDTO) (*parcel.Parcel, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}

	tn, err := parcel.ParseTrackingNumber(dto.TrackingNumber)
	if err != nil {
		return nil, err
	}

	status, err := parcel.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var before *parcel.Status
	if dto.StatusBeforeHold != nil {
		s, parseErr := parcel.ParseStatus(*dto.StatusBeforeHold)
		if parseErr != nil {
			return nil, parseErr
		}
		before = &s
	}

	deliveryMan, err := kernelID(dto.DeliveryManID)
	if err != nil {
		return nil, err
	}

	sender, err := contactToDomain(dto.Sender)
	if err != nil {
		return nil, err
	}

	recipient, err := contactToDomain(dto.Recipient)
	if err != nil {
		return nil, err
	}

	history := make([]parcel.StatusEntry, 0, len(dto.History))
	for _, h := range dto.History {
		entry, entryErr := entryToDomain(h)
		if entryErr != nil {
			return nil, entryErr
		}
		history = append(history, entry)
	}

	return parcel.RestoreParcel(parcel.Snapshot{
		ID:               id,
		TrackingNumber:   tn,
		Sender:           sender,
		Recipient:        recipient,
		Weight:           dto.Weight,
		PickupAddress:    dto.PickupAddress,
		Notes:            dto.Notes,
		DeliveryMan:      deliveryMan,
		Status:           status,
		StatusBeforeHold: before,
		IsBlocked:        dto.IsBlocked,
		History:          history,
		CreatedAt:        dto.CreatedAt,
		UpdatedAt:        dto.UpdatedAt,
		Version:          dto.Version,
	})
}

func entryToDomain(dto StatusEntryDTO) (parcel.StatusEntry, error) {
	status, err := parcel.ParseStatus(dto.Status)
	if err != nil {
		return parcel.StatusEntry{}, err
	}

	actorID, err := kernel.UUIDFromGoogle(dto.UpdatedByID)
	if err != nil {
		return parcel.StatusEntry{}, err
	}

	role, err := kernel.ParseRole(dto.UpdatedByRole)
	if err != nil {
		return parcel.StatusEntry{}, err
	}

	actor, err := kernel.NewActor(actorID, role)
	if err != nil {
		return parcel.StatusEntry{}, err
	}

	return parcel.RestoreStatusEntry(status, dto.Timestamp, actor, dto.Note), nil
}

func contactToDomain(dto ContactDTO) (parcel.Contact, error) {
	userID, err := kernelID(dto.UserID)
	if err != nil {
		return parcel.Contact{}, err
	}
	return parcel.RestoreContact(userID, dto.Name, dto.Email, dto.Phone, dto.Address), nil
}

func googleID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Google()
	return &raw
}

func kernelID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil //nolint:nilnil // absent reference
	}
	k, err := kernel.UUIDFromGoogle(*id)
	if err != nil {
		return nil, err
	}
	return &k, nil
}
