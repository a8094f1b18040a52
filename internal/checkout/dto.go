package checkout

import (
	"github.com/google/uuid"

	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
)

// LineInput is one requested (product, quantity) pair.
type LineInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
}

// CheckoutInput is the single checkout request. Direct checkout fills
// ProductID/Quantity; cart checkout fills OrderItems. The two forms are
// mutually exclusive.
type CheckoutInput struct {
	ProductID  *uuid.UUID  `json:"product_id,omitempty"`
	Quantity   *int        `json:"quantity,omitempty"`
	OrderItems []LineInput `json:"order_items,omitempty"`

	ReceiverName    string              `json:"receiver_name" validate:"required"`
	ReceiverPhone   string              `json:"receiver_phone" validate:"required"`
	DeliveryAddress string              `json:"delivery_address" validate:"required"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method" validate:"required"`

	// IdempotencyKey is forwarded to the payment gateway when present.
	IdempotencyKey string `json:"-"`
}

// Receipt reports the persisted order.
type Receipt struct {
	OrderID          uuid.UUID `json:"order_id"`
	TotalCents       int       `json:"total_cents"`
	DeliveryFeeCents int       `json:"delivery_fee_cents"`
}

// QuoteDTO prices a prospective direct purchase without mutating anything.
type QuoteDTO struct {
	ProductID        uuid.UUID `json:"product_id"`
	ProductName      string    `json:"product_name"`
	UnitPriceCents   int       `json:"unit_price_cents"`
	Quantity         int       `json:"quantity"`
	LinePriceCents   int       `json:"line_price_cents"`
	DeliveryFeeCents int       `json:"delivery_fee_cents"`
	TotalCents       int       `json:"total_cents"`
}
