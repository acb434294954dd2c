package processor

import (
	"context"
	"errors"

	"revenue-server/internal/observability"
	"revenue-server/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=auth.go -destination=mocks_test.go -package=processor

// AuthStore defines the database operations required by AuthProcessor
type AuthStore interface {
	GetUserByID(ctx context.Context, tenantID, userID uuid.UUID) (store.User, error)
}

const issuer = "revenue-server"

var (
	ErrInvalidJWTToken = errors.New("invalid jwt token")
	ErrParseJWTToken   = errors.New("failed to parse jwt token")
	ErrExpiredToken    = errors.New("token expired")
	ErrNotAdmin        = errors.New("admin access required")
	ErrFailedSignIn    = errors.New("failed to sign token")
)

// AuthProcessor validates the bearer tokens admins use on the admin API.
// Tokens are issued by the dashboard; this service only verifies them.
type AuthProcessor struct {
	store     AuthStore
	jwtSecret string
	logger    *observability.Logger
}

func New(store AuthStore, jwtSecret string, logger *observability.Logger) AuthProcessor {
	return AuthProcessor{
		store:     store,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// BaseClaims are the claims carried by an admin token
type BaseClaims struct {
	ExpirationTime *jwt.NumericDate `json:"exp"`
	IssuedAt       *jwt.NumericDate `json:"iat"`
	NotBefore      *jwt.NumericDate `json:"nbf"`
	Issuer         string           `json:"iss"`
	Subject        string           `json:"sub"`
	Audience       jwt.ClaimStrings `json:"aud"`
	TenantID       string           `json:"tenant_id"`
	IsAdmin        bool             `json:"is_admin"`
}

// Admin is an authenticated tenant administrator
type Admin struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
}

// AuthenticateAdmin validates the token and confirms that its subject is still
// an admin of the tenant it names
func (p *AuthProcessor) AuthenticateAdmin(ctx context.Context, token string) (Admin, error) {
	claims, err := p.ValidateJWTToken(ctx, token)
	if err != nil {
		return Admin{}, err
	}
	if !claims.IsAdmin {
		return Admin{}, ErrNotAdmin
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Admin{}, ErrInvalidJWTToken
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return Admin{}, ErrInvalidJWTToken
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "user_id", Value: userID.String()},
		observability.Field{Key: "tenant_id", Value: tenantID.String()},
	)

	user, err := p.store.GetUserByID(ctx, tenantID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return Admin{}, ErrNotAdmin
	}
	if err != nil {
		p.logger.Error(ctx, "failed to load token subject", err)
		return Admin{}, err
	}
	if !user.IsAdmin {
		p.logger.Warn(ctx, "token claims admin for a non-admin user")
		return Admin{}, ErrNotAdmin
	}

	return Admin{UserID: user.ID, TenantID: user.TenantID}, nil
}
