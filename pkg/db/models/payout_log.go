package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PayoutLog records an immutable payout owed to a seller for a completed
// order. One row per order and seller.
type PayoutLog struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID         uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex:ux_payout_logs_order_seller"`
	SellerID        uuid.UUID `gorm:"column:seller_id;type:uuid;not null;uniqueIndex:ux_payout_logs_order_seller"`
	AmountCents     int       `gorm:"column:amount_cents;not null"`
	CommissionCents int       `gorm:"column:commission_cents;not null"`
	PayoutCents     int       `gorm:"column:payout_cents;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

// BeforeCreate assigns the id when the caller did not.
func (p *PayoutLog) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
