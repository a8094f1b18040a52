package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
)

// DeliveryPolicy captures how delivery is charged for a product.
type DeliveryPolicy struct {
	ID        uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID                `gorm:"column:product_id;type:uuid;not null;uniqueIndex"`
	Type      enums.DeliveryPolicyType `gorm:"column:type;type:text;not null;default:'free'"`
	CostCents int                      `gorm:"column:cost_cents;not null;default:0"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the id when the caller did not.
func (p *DeliveryPolicy) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
