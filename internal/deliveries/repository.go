package deliveries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hanbitlee/furnimarket-backend/internal/repo"
	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
)

// Repository reads and writes shipment rows scoped to the selling side.
// Seller ownership is resolved through the order's item products.
type Repository struct {
	base repo.Base
}

// NewRepository builds a deliveries repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: r.base.WithTx(tx)}
}

// FindForSeller loads the delivery row for an order when at least one of the
// order's products belongs to the seller.
func (r *Repository) FindForSeller(ctx context.Context, sellerID, orderID uuid.UUID) (*models.OrderDelivery, error) {
	var delivery models.OrderDelivery
	err := r.base.DB(ctx).
		Joins("JOIN order_items ON order_items.order_id = order_deliveries.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_deliveries.order_id = ? AND products.seller_id = ?", orderID, sellerID).
		First(&delivery).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

// ListForSeller returns every delivery whose order contains the seller's
// products, newest first.
func (r *Repository) ListForSeller(ctx context.Context, sellerID uuid.UUID) ([]models.OrderDelivery, error) {
	var rows []models.OrderDelivery
	err := r.base.DB(ctx).
		Distinct("order_deliveries.*").
		Joins("JOIN order_items ON order_items.order_id = order_deliveries.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.seller_id = ?", sellerID).
		Order("order_deliveries.created_at DESC").
		Find(&rows).Error
	return rows, err
}

// OrderItems loads every line of the delivery's order.
func (r *Repository) OrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.base.DB(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// OrderCustomer returns the buying customer for an order.
func (r *Repository) OrderCustomer(ctx context.Context, orderID uuid.UUID) (uuid.UUID, error) {
	var order models.Order
	if err := r.base.DB(ctx).Select("customer_id").First(&order, "id = ?", orderID).Error; err != nil {
		return uuid.Nil, err
	}
	return order.CustomerID, nil
}

// SaveTransition persists the delivery row only while it still holds the
// status the caller read. Returns false when another writer got there first.
func (r *Repository) SaveTransition(ctx context.Context, delivery *models.OrderDelivery, from enums.DeliveryStatus) (bool, error) {
	res := r.base.DB(ctx).
		Model(&models.OrderDelivery{}).
		Where("id = ? AND status = ?", delivery.ID, from).
		Updates(map[string]any{
			"status":          delivery.Status,
			"carrier":         delivery.Carrier,
			"tracking_number": delivery.TrackingNumber,
			"started_at":      delivery.StartedAt,
			"completed_at":    delivery.CompletedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
