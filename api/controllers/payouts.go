package controllers

import (
	"net/http"

	"github.com/hanbitlee/furnimarket-backend/api/middleware"
	"github.com/hanbitlee/furnimarket-backend/api/responses"
	"github.com/hanbitlee/furnimarket-backend/internal/payouts"
	"github.com/hanbitlee/furnimarket-backend/pkg/logger"
)

// SellerPayoutList returns the seller's settlement history.
func SellerPayoutList(service payouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dtos, err := service.ListBySeller(r.Context(), middleware.ActorIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}
