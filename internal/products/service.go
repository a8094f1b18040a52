package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
	pkgerrors "github.com/hanbitlee/furnimarket-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog operations for sellers and buyers.
type Service interface {
	Create(ctx context.Context, sellerID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, sellerID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, sellerID, productID uuid.UUID) error
	Get(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]ProductDTO, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService builds the product catalog service.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, sellerID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "seller identity missing")
	}
	if !input.PolicyType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery policy type")
	}
	if input.PolicyType == enums.DeliveryPolicyFree && input.PolicyCents != 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "free delivery cannot carry a cost")
	}

	product := &models.Product{
		SellerID:    sellerID,
		Name:        input.Name,
		Description: input.Description,
		Keywords:    pq.StringArray(input.Keywords),
		PriceCents:  input.PriceCents,
		Stock:       input.Stock,
		IsActive:    input.Stock > 0,
		Policy: &models.DeliveryPolicy{
			Type:      input.PolicyType,
			CostCents: input.PolicyCents,
		},
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).Create(ctx, product)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	dto := ToDTO(product)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, sellerID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "seller identity missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	var dto ProductDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		product, err := repo.FindForSeller(ctx, sellerID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		applyUpdate(product, input)

		if _, err := repo.Update(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}
		dto = ToDTO(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func applyUpdate(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Keywords != nil {
		product.Keywords = pq.StringArray(input.Keywords)
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
		if *input.Stock > 0 && input.IsActive == nil {
			product.IsActive = true
		}
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.PolicyType != nil || input.PolicyCents != nil {
		if product.Policy == nil {
			product.Policy = &models.DeliveryPolicy{ProductID: product.ID}
		}
		if input.PolicyType != nil {
			product.Policy.Type = *input.PolicyType
		}
		if input.PolicyCents != nil {
			product.Policy.CostCents = *input.PolicyCents
		}
		if product.Policy.Type == enums.DeliveryPolicyFree {
			product.Policy.CostCents = 0
		}
	}
}

func (s *service) Delete(ctx context.Context, sellerID, productID uuid.UUID) error {
	if sellerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "seller identity missing")
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, sellerID, productID)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) Get(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := ToDTO(product)
	return &dto, nil
}

func (s *service) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]ProductDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "seller identity missing")
	}
	rows, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller products")
	}
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, ToDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	rows, next, err := s.repo.ListActive(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	result := &ListResult{
		Items:      make([]ProductDTO, 0, len(rows)),
		NextCursor: next,
	}
	for i := range rows {
		result.Items = append(result.Items, ToDTO(&rows[i]))
	}
	return result, nil
}
