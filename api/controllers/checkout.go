package controllers

import (
	"net/http"
	"strings"

	"github.com/hanbitlee/furnimarket-backend/api/middleware"
	"github.com/hanbitlee/furnimarket-backend/api/responses"
	"github.com/hanbitlee/furnimarket-backend/api/validators"
	"github.com/hanbitlee/furnimarket-backend/internal/checkout"
	pkgerrors "github.com/hanbitlee/furnimarket-backend/pkg/errors"
	"github.com/hanbitlee/furnimarket-backend/pkg/logger"
)

// CheckoutDirect purchases a single product without touching the cart.
func CheckoutDirect(service checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input checkout.CheckoutInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.ProductID == nil || input.Quantity == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "product_id and quantity are required for direct checkout"))
			return
		}
		executeCheckout(service, logg, w, r, input)
	}
}

// CheckoutCart purchases the listed cart lines and prunes them from the cart.
func CheckoutCart(service checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input checkout.CheckoutInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(input.OrderItems) == 0 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "order_items are required for cart checkout"))
			return
		}
		executeCheckout(service, logg, w, r, input)
	}
}

func executeCheckout(service checkout.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request, input checkout.CheckoutInput) {
	input.IdempotencyKey = strings.TrimSpace(r.Header.Get("Idempotency-Key"))

	receipt, err := service.Execute(r.Context(), middleware.ActorIDFromContext(r.Context()), input)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
}

// CheckoutQuote prices a prospective direct purchase.
func CheckoutQuote(service checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, ok, err := validators.ParseQueryUUID(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "product_id is required"))
			return
		}
		quantity, err := validators.ParseQueryInt(r, "quantity", 1, 1, 1000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := service.Quote(r.Context(), productID, quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
