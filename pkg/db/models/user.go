package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/medmart-backend/pkg/enums"
)

// User represents a marketplace account keyed by email.
type User struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string           `gorm:"column:email;type:text;not null;uniqueIndex"`
	Name      string           `gorm:"column:name;not null;default:''"`
	PhotoURL  *string          `gorm:"column:photo_url"`
	Role      enums.UserRole   `gorm:"column:role;not null;default:'Buyer'"`
	Status    enums.UserStatus `gorm:"column:status;not null;default:''"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns identifiers client side so every driver behaves the same.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	return nil
}
