package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hanbitlee/furnimarket-backend/pkg/config"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "furnimarket",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	actorID := uuid.New()
	now := time.Now()

	signed, err := MintAccessToken(cfg, now, AccessTokenPayload{
		ActorID: actorID,
		Role:    enums.ActorRoleSeller,
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.ActorID != actorID {
		t.Fatalf("unexpected actor id %s", claims.ActorID)
	}
	if claims.Role != enums.ActorRoleSeller {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	now := time.Now()

	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{ActorID: uuid.New(), Role: "admin"}); err == nil {
		t.Fatal("expected invalid role to error")
	}
	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{Role: enums.ActorRoleCustomer}); err == nil {
		t.Fatal("expected missing actor id to error")
	}

	cfg.Secret = ""
	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{ActorID: uuid.New(), Role: enums.ActorRoleCustomer}); err == nil {
		t.Fatal("expected missing secret to error")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		ActorID: uuid.New(),
		Role:    enums.ActorRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		ActorID: uuid.New(),
		Role:    enums.ActorRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected issuer mismatch to be rejected")
	}
}
