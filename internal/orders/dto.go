package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
	"github.com/hanbitlee/furnimarket-backend/pkg/pagination"
)

// ItemDTO is one snapshotted order line.
type ItemDTO struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	UnitPriceCents int       `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	LineTotalCents int       `json:"line_total_cents"`
}

// OrderDTO is the customer-facing order projection.
type OrderDTO struct {
	ID               uuid.UUID  `json:"id"`
	Status           string     `json:"status"`
	TotalCents       int        `json:"total_cents"`
	DeliveryFeeCents int        `json:"delivery_fee_cents"`
	ReceiverName     string     `json:"receiver_name"`
	ReceiverPhone    string     `json:"receiver_phone"`
	DeliveryAddress  string     `json:"delivery_address"`
	PaymentMethod    string     `json:"payment_method"`
	DeliveryStatus   string     `json:"delivery_status"`
	TrackingNumber   *string    `json:"tracking_number,omitempty"`
	Carrier          *string    `json:"carrier,omitempty"`
	OrderedAt        time.Time  `json:"ordered_at"`
	Items            []ItemDTO  `json:"items"`
}

// ListInput pages a customer's purchase history.
type ListInput struct {
	CustomerID uuid.UUID
	Pagination pagination.Params
}

// ListResult pairs an order page with the next cursor.
type ListResult struct {
	Items      []OrderDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// ToDTO projects an order row (items and delivery preloaded) for API callers.
// Delivery status defaults to INIT when no shipment row exists yet.
func ToDTO(order *models.Order) OrderDTO {
	dto := OrderDTO{
		ID:               order.ID,
		Status:           order.Status.String(),
		TotalCents:       order.TotalCents,
		DeliveryFeeCents: order.DeliveryFeeCents,
		ReceiverName:     order.ReceiverName,
		ReceiverPhone:    order.ReceiverPhone,
		DeliveryAddress:  order.DeliveryAddress,
		PaymentMethod:    order.PaymentMethod.String(),
		DeliveryStatus:   enums.DeliveryStatusInit.String(),
		OrderedAt:        order.OrderedAt,
		Items:            make([]ItemDTO, 0, len(order.Items)),
	}
	if order.Delivery != nil {
		dto.DeliveryStatus = order.Delivery.Status.String()
		dto.TrackingNumber = order.Delivery.TrackingNumber
		dto.Carrier = order.Delivery.Carrier
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, ItemDTO{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			LineTotalCents: item.UnitPriceCents * item.Quantity,
		})
	}
	return dto
}
