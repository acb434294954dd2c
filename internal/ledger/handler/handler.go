package handler

import (
	"context"
	"net/http"

	"revenue-server/internal/apierrors"
	authHandler "revenue-server/internal/auth/handler"
	"revenue-server/internal/ledger"
	"revenue-server/internal/store"

	"github.com/gin-gonic/gin"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=handler.go -destination=mocks_test.go -package=handler

// EventLister reads the webhook ledger
type EventLister interface {
	ListEvents(ctx context.Context, filter ledger.ListEventsFilter) ([]store.WebhookEvent, error)
}

type Handler struct {
	ledger EventLister
}

func New(ledger EventLister) Handler {
	return Handler{ledger: ledger}
}

// ListEventsQuery filters the ledger listing
type ListEventsQuery struct {
	Processor  string `form:"processor" binding:"omitempty,max=50"`
	FailedOnly bool   `form:"failedOnly"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset     int    `form:"offset" binding:"omitempty,min=0"`
}

// HandleListEvents returns the admin tenant's webhook deliveries, newest first
func (h *Handler) HandleListEvents(c *gin.Context) {
	ctx := c.Request.Context()
	admin, ok := authHandler.AdminFromContext(c)
	if !ok {
		apierrors.Unauthorized(c, "Admin not found in context")
		return
	}

	var query ListEventsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	filter := ledger.ListEventsFilter{
		TenantID:   &admin.TenantID,
		FailedOnly: query.FailedOnly,
		Limit:      query.Limit,
		Offset:     query.Offset,
	}
	if query.Processor != "" {
		filter.Processor = &query.Processor
	}

	events, err := h.ledger.ListEvents(ctx, filter)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}
