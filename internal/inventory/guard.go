package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
	pkgerrors "github.com/hanbitlee/furnimarket-backend/pkg/errors"
)

// ReservationRequest asks the guard to take stock for one product.
type ReservationRequest struct {
	ProductID uuid.UUID
	Qty       int
}

// Reserve atomically decrements stock for every request inside the supplied
// transaction. The conditional update is the only stock check; concurrent
// checkouts race on the same row and the loser observes zero rows affected.
// Any failed line aborts the whole reservation.
func Reserve(ctx context.Context, tx *gorm.DB, requests []ReservationRequest) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "transaction required for reservation")
	}

	for _, req := range requests {
		if req.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
		}
		if req.Qty <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "reservation qty must be positive")
		}

		result := tx.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ? AND is_active = ? AND stock >= ?", req.ProductID, true, req.Qty).
			UpdateColumn("stock", gorm.Expr("stock - ?", req.Qty))
		if result.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "reserve stock")
		}
		if result.RowsAffected > 0 {
			continue
		}

		var product models.Product
		err := tx.WithContext(ctx).First(&product, "id = ?", req.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product after failed reservation")
		}
		if !product.IsActive {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %q is no longer available", product.Name))
		}
		return pkgerrors.New(pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("insufficient stock for %q (requested %d, available %d)", product.Name, req.Qty, product.Stock))
	}
	return nil
}

// Release returns previously reserved stock to a product. Used when an order
// is canceled after its delivery entered preparation.
func Release(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "transaction required for release")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "release qty must be positive")
	}

	result := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "release stock")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

// DeactivateDepleted hides products whose stock reached zero. Restocking does
// not flip the flag back; sellers relist explicitly.
func DeactivateDepleted(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "transaction required for deactivation")
	}
	if len(productIDs) == 0 {
		return nil
	}
	err := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id IN ? AND stock = 0", productIDs).
		UpdateColumn("is_active", false).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate depleted products")
	}
	return nil
}
