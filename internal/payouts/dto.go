package payouts

import (
	"time"

	"github.com/google/uuid"

	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
)

type PayoutDTO struct {
	ID              uuid.UUID `json:"id"`
	OrderID         uuid.UUID `json:"orderId"`
	SellerID        uuid.UUID `json:"sellerId"`
	AmountCents     int       `json:"amountCents"`
	CommissionCents int       `json:"commissionCents"`
	PayoutCents     int       `json:"payoutCents"`
	CreatedAt       time.Time `json:"createdAt"`
}

func ToDTO(payout *models.PayoutLog) PayoutDTO {
	return PayoutDTO{
		ID:              payout.ID,
		OrderID:         payout.OrderID,
		SellerID:        payout.SellerID,
		AmountCents:     payout.AmountCents,
		CommissionCents: payout.CommissionCents,
		PayoutCents:     payout.PayoutCents,
		CreatedAt:       payout.CreatedAt,
	}
}
