package payouts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbpkg "github.com/hanbitlee/furnimarket-backend/pkg/db"
	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
	pkgerrors "github.com/hanbitlee/furnimarket-backend/pkg/errors"
	"github.com/hanbitlee/furnimarket-backend/pkg/outbox"
	"github.com/hanbitlee/furnimarket-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service generates immutable seller settlements for delivered orders.
type Service interface {
	GenerateIfNotExists(ctx context.Context, orderID uuid.UUID) error
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]PayoutDTO, error)
}

type service struct {
	repo       *Repository
	tx         txRunner
	outbox     outboxPublisher
	commission decimal.Decimal
}

// NewService builds the payout service. commissionRate is the platform cut as
// a decimal fraction, e.g. "0.10" for ten percent.
func NewService(repo *Repository, tx txRunner, publisher outboxPublisher, commissionRate string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payouts repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	rate, err := decimal.NewFromString(commissionRate)
	if err != nil {
		return nil, fmt.Errorf("parse commission rate %q: %w", commissionRate, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("commission rate %q out of range", commissionRate)
	}
	return &service{repo: repo, tx: tx, outbox: publisher, commission: rate}, nil
}

// GenerateIfNotExists writes one payout row per seller represented in the
// order. Calling it again for the same order is a no-op, both via the
// existence check and the unique index on (order_id, seller_id).
func (s *service) GenerateIfNotExists(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		totals, err := repo.ItemTotalsBySeller(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum order items")
		}
		if len(totals) == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order has no items to settle")
		}

		for _, total := range totals {
			existing, err := repo.Find(ctx, orderID, total.SellerID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing payout")
			}
			if existing != nil {
				continue
			}

			commissionCents := s.commissionOn(total.AmountCents)
			payout := &models.PayoutLog{
				ID:              uuid.New(),
				OrderID:         orderID,
				SellerID:        total.SellerID,
				AmountCents:     total.AmountCents,
				CommissionCents: commissionCents,
				PayoutCents:     total.AmountCents - commissionCents,
			}
			if err := repo.Create(ctx, payout); err != nil {
				if dbpkg.IsUniqueViolation(err, "ux_payout_logs_order_seller") {
					continue
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payout")
			}

			err = s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventPayoutGenerated,
				AggregateType: enums.AggregatePayout,
				AggregateID:   payout.ID,
				Version:       1,
				Data: payloads.PayoutGeneratedEvent{
					PayoutID:        payout.ID,
					OrderID:         orderID,
					SellerID:        total.SellerID,
					AmountCents:     payout.AmountCents,
					CommissionCents: payout.CommissionCents,
					PayoutCents:     payout.PayoutCents,
				},
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *service) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]PayoutDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "seller identity missing")
	}

	rows, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payouts")
	}

	dtos := make([]PayoutDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, ToDTO(&rows[i]))
	}
	return dtos, nil
}

// commissionOn truncates toward zero so the platform never rounds its cut up
// past the configured rate.
func (s *service) commissionOn(amountCents int) int {
	return int(decimal.NewFromInt(int64(amountCents)).Mul(s.commission).IntPart())
}
