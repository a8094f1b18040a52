package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hanbitlee/furnimarket-backend/internal/repo"
	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
	"github.com/hanbitlee/furnimarket-backend/pkg/pagination"
)

// Repository wires together product persistence helpers.
type Repository struct {
	base repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{base: r.base.WithTx(tx)}
}

// FindByID loads the product with its delivery policy.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.base.DB(ctx).Preload("Policy").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads a batch of products keyed by ID, policies included.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*models.Product{}, nil
	}
	var rows []models.Product
	if err := r.base.DB(ctx).Preload("Policy").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Product, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	return byID, nil
}

// FindForSeller loads a product only when it belongs to the given seller.
func (r *Repository) FindForSeller(ctx context.Context, sellerID, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.base.DB(ctx).
		Preload("Policy").
		Where("id = ? AND seller_id = ?", id, sellerID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a product row together with its delivery policy.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.base.DB(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves the product row and its policy association.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	tx := r.base.DB(ctx)
	if err := tx.Save(product).Error; err != nil {
		return nil, err
	}
	if product.Policy != nil {
		if err := tx.Save(product.Policy).Error; err != nil {
			return nil, err
		}
	}
	return product, nil
}

// Delete removes a product by ID scoped to its seller.
func (r *Repository) Delete(ctx context.Context, sellerID, id uuid.UUID) error {
	result := r.base.DB(ctx).
		Where("id = ? AND seller_id = ?", id, sellerID).
		Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListBySeller lists the products owned by a seller, newest first.
func (r *Repository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.base.DB(ctx).
		Preload("Policy").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// ListActive pages through active catalog rows using a keyset cursor.
func (r *Repository) ListActive(ctx context.Context, input ListInput) ([]models.Product, string, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Pagination.Limit)

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.base.DB(ctx).
		Preload("Policy").
		Where("is_active = ?", true)

	if input.Filters.SellerID != nil {
		qb = qb.Where("seller_id = ?", *input.Filters.SellerID)
	}
	if input.Filters.PriceMinCents != nil {
		qb = qb.Where("price_cents >= ?", *input.Filters.PriceMinCents)
	}
	if input.Filters.PriceMaxCents != nil {
		qb = qb.Where("price_cents <= ?", *input.Filters.PriceMaxCents)
	}
	if q := input.Filters.Query; q != "" {
		like := "%" + q + "%"
		qb = qb.Where("name LIKE ? OR ? = ANY(keywords)", like, q)
	}
	if cursor != nil {
		qb = qb.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
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
