package handler

import (
	"context"
	"net/http"

	"revenue-server/internal/apierrors"
	"revenue-server/internal/attribution"
	authHandler "revenue-server/internal/auth/handler"
	"revenue-server/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=handler.go -destination=mocks_test.go -package=handler

// Recalculator re-evaluates the inclusion flags of one contact
type Recalculator interface {
	Recalculate(ctx context.Context, tenantID, contactID uuid.UUID) ([]attribution.Change, error)
}

type Handler struct {
	resolver  Recalculator
	publisher *events.Publisher
}

func New(resolver Recalculator, publisher *events.Publisher) Handler {
	return Handler{resolver: resolver, publisher: publisher}
}

// RecalculateResponse lists the flags that changed
type RecalculateResponse struct {
	ContactID uuid.UUID            `json:"contactId"`
	Changes   []attribution.Change `json:"changes"`
}

// HandleRecalculate recomputes attribution for a contact on demand
func (h *Handler) HandleRecalculate(c *gin.Context) {
	ctx := c.Request.Context()
	admin, ok := authHandler.AdminFromContext(c)
	if !ok {
		apierrors.Unauthorized(c, "Admin not found in context")
		return
	}
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Invalid contact ID format")
		return
	}

	changes, err := h.resolver.Recalculate(ctx, admin.TenantID, contactID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	h.publisher.PublishAttributionChanged(ctx, admin.TenantID, contactID, changes)
	c.JSON(http.StatusOK, RecalculateResponse{ContactID: contactID, Changes: changes})
}
