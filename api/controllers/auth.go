package controllers

import (
	"net/http"

	"github.com/hanbitlee/furnimarket-backend/api/responses"
	"github.com/hanbitlee/furnimarket-backend/api/validators"
	"github.com/hanbitlee/furnimarket-backend/internal/auth"
	"github.com/hanbitlee/furnimarket-backend/pkg/logger"
)

// AuthLogin exchanges customer or seller credentials for an access token.
func AuthLogin(service auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := service.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}
