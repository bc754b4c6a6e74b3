package userrepo

import (
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"

	"github.com/google/uuid"
)

// UserDTO is the users row.
type UserDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"size:20;index;not null"`
	Status       string    `gorm:"size:20;not null"`
	Phone        string
	Address      string
	CreatedAt    time.Time `gorm:"index;not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (UserDTO) TableName() string {
	return "users"
}

func fromDomain(u *user.User) UserDTO {
	return UserDTO{
		ID:           u.ID().Google(),
		Name:         u.Name(),
		Email:        u.Email(),
		PasswordHash: u.PasswordHash(),
		Role:         u.Role().String(),
		Status:       u.Activity().String(),
		Phone:        u.Phone(),
		Address:      u.Address(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}

func toDomain(dto UserDTO) (*user.User, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}

	role, err := kernel.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}

	activity, err := user.ParseActivityStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return user.RestoreUser(
		id,
		dto.Name,
		dto.Email,
		dto.PasswordHash,
		role,
		activity,
		dto.Phone,
		dto.Address,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
