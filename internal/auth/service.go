package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/hanbitlee/furnimarket-backend/pkg/auth"
	"github.com/hanbitlee/furnimarket-backend/pkg/config"
	"github.com/hanbitlee/furnimarket-backend/pkg/db/models"
	"github.com/hanbitlee/furnimarket-backend/pkg/enums"
	pkgerrors "github.com/hanbitlee/furnimarket-backend/pkg/errors"
	"github.com/hanbitlee/furnimarket-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type accountRepository interface {
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindSellerByEmail(ctx context.Context, email string) (*models.Seller, error)
	UpdateCustomerLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateSellerLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type service struct {
	accounts accountRepository
	jwtCfg   config.JWTConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(accounts accountRepository, jwtCfg config.JWTConfig) (Service, error) {
	if accounts == nil {
		return nil, fmt.Errorf("account repository is required")
	}
	return &service{accounts: accounts, jwtCfg: jwtCfg}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	role, err := enums.ParseActorRole(strings.TrimSpace(strings.ToLower(req.Role)))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be customer or seller")
	}

	actor, err := s.authenticate(ctx, role, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.recordLogin(ctx, role, actor.ID, now); err != nil {
		return nil, err
	}

	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		ActorID: actor.ID,
		Role:    role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{AccessToken: accessToken, Actor: *actor}, nil
}

func (s *service) authenticate(ctx context.Context, role enums.ActorRole, email, password string) (*ActorSummary, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	var (
		actor  ActorSummary
		hash   string
		active bool
	)
	switch role {
	case enums.ActorRoleCustomer:
		customer, err := s.accounts.FindCustomerByEmail(ctx, normalized)
		if err != nil {
			return nil, lookupError(err)
		}
		actor = ActorSummary{ID: customer.ID, Email: customer.Email, Name: customer.Name, Role: role}
		hash = customer.PasswordHash
		active = customer.IsActive
	case enums.ActorRoleSeller:
		seller, err := s.accounts.FindSellerByEmail(ctx, normalized)
		if err != nil {
			return nil, lookupError(err)
		}
		actor = ActorSummary{ID: seller.ID, Email: seller.Email, Name: seller.Name, Role: role}
		hash = seller.PasswordHash
		active = seller.IsActive
	}

	valid, err := security.VerifyPassword(password, hash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return &actor, nil
}

func (s *service) recordLogin(ctx context.Context, role enums.ActorRole, id uuid.UUID, at time.Time) error {
	var err error
	if role == enums.ActorRoleSeller {
		err = s.accounts.UpdateSellerLastLogin(ctx, id, at)
	} else {
		err = s.accounts.UpdateCustomerLastLogin(ctx, id, at)
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record login")
	}
	return nil
}

func lookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
}
