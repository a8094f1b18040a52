package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
	"github.com/hanbitlee/furnimarket-backend/pkg/pagination"
)

// CreateProductInput captures the fields a seller supplies when listing furniture.
type CreateProductInput struct {
	Name        string                   `json:"name" validate:"required,max=200"`
	Description *string                  `json:"description,omitempty"`
	Keywords    []string                 `json:"keywords,omitempty" validate:"max=20,dive,max=50"`
	PriceCents  int                      `json:"price_cents" validate:"gte=0"`
	Stock       int                      `json:"stock" validate:"gte=0"`
	PolicyType  enums.DeliveryPolicyType `json:"policy_type" validate:"required"`
	PolicyCents int                      `json:"policy_cents" validate:"gte=0"`
}

// UpdateProductInput carries a partial product update. Nil fields are untouched.
type UpdateProductInput struct {
	Name        *string                   `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string                   `json:"description,omitempty"`
	Keywords    []string                  `json:"keywords,omitempty" validate:"max=20,dive,max=50"`
	PriceCents  *int                      `json:"price_cents,omitempty" validate:"omitempty,gte=0"`
	Stock       *int                      `json:"stock,omitempty" validate:"omitempty,gte=0"`
	IsActive    *bool                     `json:"is_active,omitempty"`
	PolicyType  *enums.DeliveryPolicyType `json:"policy_type,omitempty"`
	PolicyCents *int                      `json:"policy_cents,omitempty" validate:"omitempty,gte=0"`
}

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	SellerID      *uuid.UUID `json:"seller_id,omitempty"`
	PriceMinCents *int       `json:"price_min_cents,omitempty"`
	PriceMaxCents *int       `json:"price_max_cents,omitempty"`
	Query         string     `json:"q,omitempty"`
}

// ListInput captures the inputs needed to paginate and filter the catalog.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ProductDTO is the read model returned to API callers.
type ProductDTO struct {
	ID               uuid.UUID `json:"id"`
	SellerID         uuid.UUID `json:"seller_id"`
	Name             string    `json:"name"`
	Description      *string   `json:"description,omitempty"`
	Keywords         []string  `json:"keywords,omitempty"`
	PriceCents       int       `json:"price_cents"`
	Stock            int       `json:"stock"`
	IsActive         bool      `json:"is_active"`
	PolicyType       string    `json:"policy_type"`
	DeliveryFeeCents int       `json:"delivery_fee_cents"`
	CreatedAt        time.Time `json:"created_at"`
}

// ListResult pairs a page of products with the cursor for the next page.
type ListResult struct {
	Items      []ProductDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// ToDTO maps a product row (with its policy preloaded) to the read model.
func ToDTO(p *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Name:        p.Name,
		Description: p.Description,
		Keywords:    append([]string(nil), p.Keywords...),
		PriceCents:  p.PriceCents,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		PolicyType:  enums.DeliveryPolicyFree.String(),
		CreatedAt:   p.CreatedAt,
	}
	if p.Policy != nil {
		dto.PolicyType = p.Policy.Type.String()
		if p.Policy.Type == enums.DeliveryPolicyPaid {
			dto.DeliveryFeeCents = p.Policy.CostCents
		}
	}
	return dto
}
