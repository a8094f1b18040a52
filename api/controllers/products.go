package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hanbitlee/furnimarket-backend/api/middleware"
	"github.com/hanbitlee/furnimarket-backend/api/responses"
	"github.com/hanbitlee/furnimarket-backend/api/validators"
	"github.com/hanbitlee/furnimarket-backend/internal/products"
	"github.com/hanbitlee/furnimarket-backend/pkg/logger"
	"github.com/hanbitlee/furnimarket-backend/pkg/pagination"
)

// ProductList serves the public catalog browse endpoint.
func ProductList(service products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := products.ListFilters{
			Query: validators.SanitizeString(r.URL.Query().Get("q"), 100),
		}
		if sellerID, ok, err := validators.ParseQueryUUID(r, "seller_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		} else if ok {
			filters.SellerID = &sellerID
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("price_min_cents")); raw != "" {
			floor, err := validators.ParseQueryInt(r, "price_min_cents", 0, 0, 1<<31-1)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filters.PriceMinCents = &floor
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("price_max_cents")); raw != "" {
			ceiling, err := validators.ParseQueryInt(r, "price_max_cents", 0, 0, 1<<31-1)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filters.PriceMaxCents = &ceiling
		}

		result, err := service.List(r.Context(), products.ListInput{
			Filters: filters,
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductDetail returns a single catalog entry.
func ProductDetail(service products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := service.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// SellerProductList returns the authenticated seller's own listings.
func SellerProductList(service products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID := middleware.ActorIDFromContext(r.Context())
		dtos, err := service.ListBySeller(r.Context(), sellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}

func SellerProductCreate(service products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input products.CreateProductInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := service.Create(r.Context(), middleware.ActorIDFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func SellerProductUpdate(service products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input products.UpdateProductInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := service.Update(r.Context(), middleware.ActorIDFromContext(r.Context()), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func SellerProductDelete(service products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := service.Delete(r.Context(), middleware.ActorIDFromContext(r.Context()), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
