package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
)

// OrderCreatedEvent signals a paid checkout persisted a new order.
type OrderCreatedEvent struct {
	OrderID          uuid.UUID `json:"order_id"`
	CustomerID       uuid.UUID `json:"customer_id"`
	TotalCents       int       `json:"total_cents"`
	DeliveryFeeCents int       `json:"delivery_fee_cents"`
	ItemCount        int       `json:"item_count"`
}

// OrderCanceledEvent is emitted whenever a customer cancels a pre-transit order.
type OrderCanceledEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	CanceledAt time.Time `json:"canceled_at"`
	Restocked  bool      `json:"restocked"`
}

// OrderConfirmedEvent is emitted when a customer confirms a delivered order.
type OrderConfirmedEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// DeliveryStateChangedEvent reports a delivery status transition.
type DeliveryStateChangedEvent struct {
	DeliveryID uuid.UUID            `json:"delivery_id"`
	OrderID    uuid.UUID            `json:"order_id"`
	SellerID   uuid.UUID            `json:"seller_id"`
	From       enums.DeliveryStatus `json:"from"`
	To         enums.DeliveryStatus `json:"to"`
	ChangedAt  time.Time            `json:"changed_at"`
}

// PayoutGeneratedEvent is emitted once a payout log row lands for an order.
type PayoutGeneratedEvent struct {
	PayoutID        uuid.UUID `json:"payout_id"`
	OrderID         uuid.UUID `json:"order_id"`
	SellerID        uuid.UUID `json:"seller_id"`
	AmountCents     int       `json:"amount_cents"`
	CommissionCents int       `json:"commission_cents"`
	PayoutCents     int       `json:"payout_cents"`
}
