package enums

import "fmt"

// DeliveryStatus tracks the shipment lifecycle of an order delivery.
type DeliveryStatus string

const (
	DeliveryStatusInit       DeliveryStatus = "INIT"
	DeliveryStatusPreparing  DeliveryStatus = "DELIVERY_PREPARING"
	DeliveryStatusInProgress DeliveryStatus = "DELIVERY_IN_PROGRESS"
	DeliveryStatusCompleted  DeliveryStatus = "DELIVERY_COMPLETED"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusInit,
	DeliveryStatusPreparing,
	DeliveryStatusInProgress,
	DeliveryStatusCompleted,
}

// String implements fmt.Stringer.
func (d DeliveryStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryStatus.
func (d DeliveryStatus) IsValid() bool {
	for _, candidate := range validDeliveryStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryStatus converts raw input into a DeliveryStatus.
func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	for _, candidate := range validDeliveryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery status %q", value)
}
