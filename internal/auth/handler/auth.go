package handler

import (
	"context"
	"errors"
	"strings"

	"revenue-server/internal/apierrors"
	"revenue-server/internal/auth/processor"
	"revenue-server/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by the admin middleware
const (
	UserIDKey   = "User-ID"
	TenantIDKey = "Tenant-ID"
)

// Authenticator verifies admin bearer tokens
type Authenticator interface {
	AuthenticateAdmin(ctx context.Context, token string) (processor.Admin, error)
}

//go:generate go run go.uber.org/mock/mockgen@latest -source=auth.go -destination=mocks_test.go -package=handler

type Handler struct {
	authenticator Authenticator
	logger        *observability.Logger
}

func New(authenticator Authenticator, logger *observability.Logger) Handler {
	return Handler{authenticator: authenticator, logger: logger}
}

// HandleAdminMiddleware admits requests carrying a bearer token of a tenant admin
func (h *Handler) HandleAdminMiddleware(c *gin.Context) {
	ctx := c.Request.Context()
	tokenHeader := c.GetHeader("Authorization")

	if tokenHeader == "" || !strings.HasPrefix(tokenHeader, "Bearer ") {
		apierrors.Unauthorized(c, "Authorization token is missing or invalid")
		return
	}
	tokenString := strings.TrimPrefix(tokenHeader, "Bearer ")

	admin, err := h.authenticator.AuthenticateAdmin(ctx, tokenString)
	switch {
	case err == nil:
	case errors.Is(err, processor.ErrNotAdmin):
		apierrors.Forbidden(c, "Admin access required")
		return
	case errors.Is(err, processor.ErrExpiredToken):
		apierrors.Unauthorized(c, "Authorization token has expired")
		return
	case errors.Is(err, processor.ErrParseJWTToken), errors.Is(err, processor.ErrInvalidJWTToken):
		apierrors.Unauthorized(c, "Authorization token is missing or invalid")
		return
	default:
		apierrors.InternalError(c, err)
		return
	}

	c.Set(UserIDKey, admin.UserID.String())
	c.Set(TenantIDKey, admin.TenantID.String())
	c.Request = c.Request.WithContext(observability.WithFields(ctx,
		observability.Field{Key: "admin_id", Value: admin.UserID.String()},
		observability.Field{Key: "tenant_id", Value: admin.TenantID.String()},
	))
	c.Next()
}

// AdminFromContext returns the admin placed on the context by HandleAdminMiddleware
func AdminFromContext(c *gin.Context) (processor.Admin, bool) {
	userID, err := uuid.Parse(c.GetString(UserIDKey))
	if err != nil {
		return processor.Admin{}, false
	}
	tenantID, err := uuid.Parse(c.GetString(TenantIDKey))
	if err != nil {
		return processor.Admin{}, false
	}
	return processor.Admin{UserID: userID, TenantID: tenantID}, true
}
