package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hanbitlee/furnimarket-backend/internal/repo"
	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
	"github.com/hanbitlee/furnimarket-backend/pkg/pagination"
)

// Repository persists orders with their line items and shipment rows.
type Repository struct {
	base repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: r.base.WithTx(tx)}
}

// Create inserts the order together with its items and delivery row.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.base.DB(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindForCustomer loads an order scoped to its owner, associations included.
func (r *Repository) FindForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.base.DB(ctx).
		Preload("Items").
		Preload("Delivery").
		Where("id = ? AND customer_id = ?", orderID, customerID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByCustomer pages through a customer's orders, newest first.
func (r *Repository) ListByCustomer(ctx context.Context, input ListInput) ([]models.Order, string, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Pagination.Limit)

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.base.DB(ctx).
		Preload("Items").
		Preload("Delivery").
		Where("customer_id = ?", input.CustomerID)
	if cursor != nil {
		qb = qb.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	err = qb.Order("created_at DESC, id DESC").
		Limit(limitWithBuffer).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

// UpdateStatus writes the order status and bumps updated_at.
func (r *Repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return r.base.DB(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}

// SaveDelivery persists the shipment row.
func (r *Repository) SaveDelivery(ctx context.Context, delivery *models.OrderDelivery) error {
	return r.base.DB(ctx).Save(delivery).Error
}

// DeleteCascade hard-deletes the order, its items, and its delivery row.
func (r *Repository) DeleteCascade(ctx context.Context, orderID uuid.UUID) error {
	tx := r.base.DB(ctx)
	if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderDelivery{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", orderID).Delete(&models.Order{}).Error
}
