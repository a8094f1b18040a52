package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
)

// OrderDelivery tracks the shipment record attached to an order.
type OrderDelivery struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	OrderID        uuid.UUID            `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	Status         enums.DeliveryStatus `gorm:"column:status;type:text;not null;default:'INIT'"`
	Carrier        *string              `gorm:"column:carrier"`
	TrackingNumber *string              `gorm:"column:tracking_number"`
	StartedAt      *time.Time           `gorm:"column:started_at"`
	CompletedAt    *time.Time           `gorm:"column:completed_at"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the id when the caller did not.
func (d *OrderDelivery) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
