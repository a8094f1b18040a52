package payments

import (
	"context"

	"github.com/google/uuid"

	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
)

// AuthorizeInput carries everything the gateway needs to take a payment.
type AuthorizeInput struct {
	CustomerID     uuid.UUID
	AmountCents    int
	Method         enums.PaymentMethod
	IdempotencyKey string
	Description    string
}

// Result reports an approved payment.
type Result struct {
	// Ref is the provider-side identifier stored on the order.
	Ref string
}

// Gateway authorizes payments before any order state is persisted. A nil
// error means the full amount was approved.
type Gateway interface {
	Authorize(ctx context.Context, input AuthorizeInput) (*Result, error)
}
