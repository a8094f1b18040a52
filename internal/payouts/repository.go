package payouts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hanbitlee/furnimarket-backend/internal/repo"
	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
)

// SellerAmount is one seller's share of an order, summed over its line items.
type SellerAmount struct {
	SellerID    uuid.UUID `gorm:"column:seller_id"`
	AmountCents int       `gorm:"column:amount_cents"`
}

type Repository struct {
	base repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: r.base.WithTx(tx)}
}

// ItemTotalsBySeller sums the order's line totals grouped by the owning seller.
func (r *Repository) ItemTotalsBySeller(ctx context.Context, orderID uuid.UUID) ([]SellerAmount, error) {
	var totals []SellerAmount
	err := r.base.DB(ctx).
		Model(&models.OrderItem{}).
		Select("products.seller_id AS seller_id, SUM(order_items.unit_price_cents * order_items.quantity) AS amount_cents").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ?", orderID).
		Group("products.seller_id").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// Find returns the payout row for the order and seller pair, or nil when none
// has been generated yet.
func (r *Repository) Find(ctx context.Context, orderID, sellerID uuid.UUID) (*models.PayoutLog, error) {
	var payout models.PayoutLog
	err := r.base.DB(ctx).
		Where("order_id = ? AND seller_id = ?", orderID, sellerID).
		First(&payout).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

func (r *Repository) Create(ctx context.Context, payout *models.PayoutLog) error {
	return r.base.DB(ctx).Create(payout).Error
}

// ListBySeller returns a seller's payout rows newest first.
func (r *Repository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.PayoutLog, error) {
	var payouts []models.PayoutLog
	err := r.base.DB(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&payouts).Error
	if err != nil {
		return nil, err
	}
	return payouts, nil
}
