package enums

import "fmt"

// OrderStatus tracks the purchase lifecycle of an order.
type OrderStatus string

const (
	OrderStatusInit              OrderStatus = "INIT"
	OrderStatusPaymentCompleted  OrderStatus = "PAYMENT_COMPLETED"
	OrderStatusOrderReceived     OrderStatus = "ORDER_RECEIVED"
	OrderStatusPurchaseCanceled  OrderStatus = "PURCHASE_CANCELED"
	OrderStatusPurchaseConfirmed OrderStatus = "PURCHASE_CONFIRMED"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusInit,
	OrderStatusPaymentCompleted,
	OrderStatusOrderReceived,
	OrderStatusPurchaseCanceled,
	OrderStatusPurchaseConfirmed,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
