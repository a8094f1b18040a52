package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/hanbitlee/furnimarket-backend/api/responses"
	"github.com/hanbitlee/furnimarket-backend/pkg/config"
	"github.com/hanbitlee/furnimarket-backend/pkg/db"
	"github.com/hanbitlee/furnimarket-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FurniMarket-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the hard dependencies and reports per-check status.
func HealthReady(cfg *config.Config, logg *logger.Logger, checks ...db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FurniMarket-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := "ready"
		for _, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Ping(ctx); err != nil {
				status = "degraded"
				if logg != nil {
					logg.Error(ctx, "health.dependency_unreachable", err)
				}
			}
		}

		if status != "ready" {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, map[string]string{"status": status})
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": status})
	}
}
