package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
	pkgerrors "github.com/hanbitlee/furnimarket-backend/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
}

// Service manages a customer's staged cart.
type Service interface {
	Add(ctx context.Context, customerID, productID uuid.UUID, quantity int) error
	UpdateQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, customerID, productID uuid.UUID) error
	Clear(ctx context.Context, customerID uuid.UUID) error
	List(ctx context.Context, customerID uuid.UUID) (*CartDTO, error)
}

type service struct {
	repo     *Repository
	products productLoader
}

// NewService builds the cart service.
func NewService(repo *Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) Add(ctx context.Context, customerID, productID uuid.UUID, quantity int) error {
	return s.stage(ctx, customerID, productID, quantity)
}

func (s *service) UpdateQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int) error {
	if _, err := s.repo.Find(ctx, customerID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}
	// Dropping the quantity to zero removes the line.
	if quantity <= 0 {
		return s.Remove(ctx, customerID, productID)
	}
	return s.stage(ctx, customerID, productID, quantity)
}

// stage validates against live product state and writes the quantity. The
// check is advisory; the conditional stock decrement at delivery preparation
// is authoritative.
func (s *service) stage(ctx context.Context, customerID, productID uuid.UUID, quantity int) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %q is no longer available", product.Name))
	}
	if quantity > product.Stock {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("insufficient stock for %q (requested %d, available %d)", product.Name, quantity, product.Stock))
	}

	item := &models.CartItem{
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   quantity,
	}
	if err := s.repo.Upsert(ctx, item); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stage cart item")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, customerID, productID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if err := s.repo.Delete(ctx, customerID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if err := s.repo.Clear(ctx, customerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) List(ctx context.Context, customerID uuid.UUID) (*CartDTO, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}

	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}
	productsByID, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}

	dto := &CartDTO{Items: make([]ItemDTO, 0, len(rows))}
	for _, row := range rows {
		product, ok := productsByID[row.ProductID]
		if !ok {
			continue
		}

		item := ItemDTO{
			ProductID:      row.ProductID,
			ProductName:    product.Name,
			UnitPriceCents: product.PriceCents,
			Quantity:       row.Quantity,
			LineTotalCents: product.PriceCents * row.Quantity,
			Available:      product.IsActive && product.Stock >= row.Quantity,
		}
		if product.Policy != nil && product.Policy.Type == enums.DeliveryPolicyPaid {
			item.DeliveryFeeCents = product.Policy.CostCents
		}

		dto.Items = append(dto.Items, item)
		dto.SubtotalCents += item.LineTotalCents
		dto.DeliveryFeeTotalCents += item.DeliveryFeeCents
	}
	dto.TotalCents = dto.SubtotalCents + dto.DeliveryFeeTotalCents
	return dto, nil
}
