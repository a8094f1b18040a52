package enums

import "fmt"

// DeliveryPolicyType describes how a product's delivery fee is charged.
type DeliveryPolicyType string

const (
	DeliveryPolicyFree DeliveryPolicyType = "free"
	DeliveryPolicyPaid DeliveryPolicyType = "paid"
)

var validDeliveryPolicyTypes = []DeliveryPolicyType{
	DeliveryPolicyFree,
	DeliveryPolicyPaid,
}

// String implements fmt.Stringer.
func (d DeliveryPolicyType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryPolicyType.
func (d DeliveryPolicyType) IsValid() bool {
	for _, candidate := range validDeliveryPolicyTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryPolicyType converts raw input into a DeliveryPolicyType.
func ParseDeliveryPolicyType(value string) (DeliveryPolicyType, error) {
	for _, candidate := range validDeliveryPolicyTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery policy type %q", value)
}
