package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seller represents a merchant account that lists products.
type Seller struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Email          string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash   string     `gorm:"column:password_hash;not null"`
	Name           string     `gorm:"column:name;not null"`
	BusinessNumber *string    `gorm:"column:business_number"`
	IsActive       bool       `gorm:"column:is_active;not null"`
	LastLoginAt    *time.Time `gorm:"column:last_login_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the id when the caller did not.
func (s *Seller) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
