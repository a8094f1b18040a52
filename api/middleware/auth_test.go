package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/hanbitlee/furnimarket-backend/pkg/auth"
	"github.com/hanbitlee/furnimarket-backend/pkg/config"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "furnimarket-test",
	ExpirationMinutes: 5,
}

func mintToken(t *testing.T, actorID uuid.UUID, role enums.ActorRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testJWTConfig, time.Now(), pkgauth.AccessTokenPayload{
		ActorID: actorID,
		Role:    role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthSeedsActorContext(t *testing.T) {
	t.Parallel()

	actorID := uuid.New()
	var gotID uuid.UUID
	var gotRole enums.ActorRole

	handler := Auth(testJWTConfig, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = ActorIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, actorID, enums.ActorRoleCustomer))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != actorID || gotRole != enums.ActorRoleCustomer {
		t.Fatalf("expected actor seeded, got id=%s role=%s", gotID, gotRole)
	}
}

func TestAuthRejectsMissingAndGarbageTokens(t *testing.T) {
	t.Parallel()

	handler := Auth(testJWTConfig, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", rec.Code)
	}
}

func TestRequireRoleBlocksWrongRole(t *testing.T) {
	t.Parallel()

	handler := RequireRole(enums.ActorRoleSeller, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/seller/deliveries", nil)
	req = req.WithContext(WithActor(req.Context(), uuid.New(), enums.ActorRoleCustomer))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer on seller route, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/seller/deliveries", nil)
	req = req.WithContext(WithActor(req.Context(), uuid.New(), enums.ActorRoleSeller))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for seller, got %d", rec.Code)
	}
}
