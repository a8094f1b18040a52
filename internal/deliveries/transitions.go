package deliveries

import (
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
)

type transition struct {
	From enums.DeliveryStatus
	To   enums.DeliveryStatus
}

// allowedTransitions is the full transition table. Anything absent is
// rejected. IN_PROGRESS self-transition permits carrier corrections.
var allowedTransitions = map[transition]bool{
	{enums.DeliveryStatusInit, enums.DeliveryStatusPreparing}:        true,
	{enums.DeliveryStatusPreparing, enums.DeliveryStatusInProgress}:  true,
	{enums.DeliveryStatusInProgress, enums.DeliveryStatusInProgress}: true,
	{enums.DeliveryStatusInProgress, enums.DeliveryStatusCompleted}:  true,
}

// CanTransition reports whether from -> to is a legal delivery transition.
func CanTransition(from, to enums.DeliveryStatus) bool {
	return allowedTransitions[transition{From: from, To: to}]
}
