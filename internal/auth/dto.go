package auth

import (
	"github.com/google/uuid"

	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=customer seller"`
}

// ActorSummary describes the authenticated party returned after login.
type ActorSummary struct {
	ID    uuid.UUID       `json:"id"`
	Email string          `json:"email"`
	Name  string          `json:"name"`
	Role  enums.ActorRole `json:"role"`
}

// LoginResponse contains the token and actor produced by a successful login.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	Actor       ActorSummary `json:"actor"`
}
