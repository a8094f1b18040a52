package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hanbitlee/furnimarket-backend/api/middleware"
	"github.com/hanbitlee/furnimarket-backend/api/responses"
	"github.com/hanbitlee/furnimarket-backend/api/validators"
	"github.com/hanbitlee/furnimarket-backend/internal/deliveries"
	"github.com/hanbitlee/furnimarket-backend/pkg/logger"
)

// SellerDeliveryList returns the seller's shipments newest first.
func SellerDeliveryList(service deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dtos, err := service.ListBySeller(r.Context(), middleware.ActorIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}

func SellerDeliveryDetail(service deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := service.GetByOrderID(r.Context(), middleware.ActorIDFromContext(r.Context()), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// SellerDeliveryUpdateStatus drives one transition of the shipment lifecycle.
func SellerDeliveryUpdateStatus(service deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input deliveries.UpdateStatusInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sellerID := middleware.ActorIDFromContext(r.Context())
		if err := service.UpdateStatus(r.Context(), sellerID, orderID, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": input.Status.String()})
	}
}
