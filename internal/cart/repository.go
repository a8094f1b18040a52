package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hanbitlee/furnimarket-backend/internal/repo"
	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
)

// Repository persists cart items keyed by customer and product.
type Repository struct {
	base repo.Base
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: r.base.WithTx(tx)}
}

// Upsert writes the quantity for (customer, product), replacing any prior row.
func (r *Repository) Upsert(ctx context.Context, item *models.CartItem) error {
	return r.base.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(item).Error
}

// Find returns the cart row for (customer, product).
func (r *Repository) Find(ctx context.Context, customerID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.base.DB(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByCustomer returns all cart rows for the customer, oldest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.base.DB(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// Delete removes the row for (customer, product). Missing rows are not an error.
func (r *Repository) Delete(ctx context.Context, customerID, productID uuid.UUID) error {
	return r.base.DB(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Delete(&models.CartItem{}).Error
}

// DeleteByProducts removes the customer's rows for the given products.
func (r *Repository) DeleteByProducts(ctx context.Context, customerID uuid.UUID, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.base.DB(ctx).
		Where("customer_id = ? AND product_id IN ?", customerID, productIDs).
		Delete(&models.CartItem{}).Error
}

// Clear removes every cart row for the customer.
func (r *Repository) Clear(ctx context.Context, customerID uuid.UUID) error {
	return r.base.DB(ctx).
		Where("customer_id = ?", customerID).
		Delete(&models.CartItem{}).Error
}
