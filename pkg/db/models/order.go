package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
)

// Order represents a customer purchase with its line item snapshots.
type Order struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID       uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	Status           enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'INIT'"`
	TotalCents       int                 `gorm:"column:total_cents;not null"`
	DeliveryFeeCents int                 `gorm:"column:delivery_fee_cents;not null;default:0"`
	ReceiverName     string              `gorm:"column:receiver_name;not null"`
	ReceiverPhone    string              `gorm:"column:receiver_phone;not null"`
	DeliveryAddress  string              `gorm:"column:delivery_address;not null"`
	PaymentMethod    enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	PaymentRef       *string             `gorm:"column:payment_ref"`
	OrderedAt        time.Time           `gorm:"column:ordered_at;not null"`
	Items            []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Delivery         *OrderDelivery      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the id when the caller did not.
func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
