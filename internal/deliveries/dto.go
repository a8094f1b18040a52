package deliveries

import (
	"time"

	"github.com/google/uuid"

	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
)

// UpdateStatusInput is the seller's transition request.
type UpdateStatusInput struct {
	Status         enums.DeliveryStatus `json:"status" validate:"required"`
	TrackingNumber *string              `json:"tracking_number,omitempty"`
	Carrier        *string              `json:"carrier,omitempty"`
}

// DeliveryDTO is the seller-facing shipment projection.
type DeliveryDTO struct {
	OrderID        uuid.UUID  `json:"order_id"`
	BuyerID        uuid.UUID  `json:"buyer_id"`
	ProductName    string     `json:"product_name"`
	Status         string     `json:"status"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	TrackingNumber *string    `json:"tracking_number,omitempty"`
	Carrier        *string    `json:"carrier,omitempty"`
}
