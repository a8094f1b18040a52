package cart

import (
	"github.com/google/uuid"
)

// ItemDTO is one cart line joined with its product snapshot.
type ItemDTO struct {
	ProductID        uuid.UUID `json:"product_id"`
	ProductName      string    `json:"product_name"`
	UnitPriceCents   int       `json:"unit_price_cents"`
	Quantity         int       `json:"quantity"`
	LineTotalCents   int       `json:"line_total_cents"`
	DeliveryFeeCents int       `json:"delivery_fee_cents"`
	Available        bool      `json:"available"`
}

// CartDTO is the customer's cart with estimated totals. Prices are live
// product prices; the binding snapshot is taken at checkout.
type CartDTO struct {
	Items                 []ItemDTO `json:"items"`
	SubtotalCents         int       `json:"subtotal_cents"`
	DeliveryFeeTotalCents int       `json:"delivery_fee_total_cents"`
	TotalCents            int       `json:"total_cents"`
}
