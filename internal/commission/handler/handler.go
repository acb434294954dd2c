package handler

import (
	"context"
	"net/http"

	"revenue-server/internal/apierrors"
	authHandler "revenue-server/internal/auth/handler"
	"revenue-server/internal/commission"
	"revenue-server/internal/events"
	"revenue-server/internal/observability"
	"revenue-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=handler.go -destination=mocks_test.go -package=handler

// ReleaseService changes commission amounts and release status
type ReleaseService interface {
	Transition(ctx context.Context, tenantID, commissionID uuid.UUID, target string, releasedAmount *decimal.Decimal) (store.Commission, error)
	Override(ctx context.Context, tenantID, commissionID uuid.UUID, params commission.OverrideParams) (store.Commission, error)
}

type Handler struct {
	engine    ReleaseService
	publisher *events.Publisher
	logger    *observability.Logger
}

func New(engine ReleaseService, publisher *events.Publisher, logger *observability.Logger) Handler {
	return Handler{
		engine:    engine,
		publisher: publisher,
		logger:    logger,
	}
}

// OverrideRequest replaces the computed commission amount
type OverrideRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
	Reason string           `json:"reason" binding:"required,max=500"`
}

// TransitionRequest moves a commission along the release state machine
type TransitionRequest struct {
	Status         string           `json:"status" binding:"required,oneof=pending partial released paid"`
	ReleasedAmount *decimal.Decimal `json:"releasedAmount"`
}

var errorMappings = []apierrors.Mapping{
	{Err: commission.ErrCommissionNotFound, Status: http.StatusNotFound, Code: apierrors.CodeNotFound, Message: "Commission not found"},
	{Err: commission.ErrInvalidTransition, Status: http.StatusBadRequest, Code: apierrors.CodeInvalidTransition, Message: "Release status transition is not allowed"},
	{Err: commission.ErrInvalidReleasedAmount, Status: http.StatusBadRequest, Code: apierrors.CodeInvalidAmount, Message: "Released amount must be above the current released amount and below the total"},
	{Err: commission.ErrInvalidOverride, Status: http.StatusBadRequest, Code: apierrors.CodeInvalidAmount, Message: "Override requires a non-negative amount and a reason"},
	{Err: commission.ErrOverrideBelowReleased, Status: http.StatusBadRequest, Code: apierrors.CodeInvalidAmount, Message: "Override amount is below the amount already released"},
	{Err: commission.ErrCommissionPaid, Status: http.StatusConflict, Code: apierrors.CodeCommissionPaid, Message: "Commission is already paid out"},
	{Err: commission.ErrConcurrentUpdate, Status: http.StatusConflict, Code: apierrors.CodeConflict, Message: "Commission was modified concurrently, retry"},
}

func (h *Handler) commissionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Invalid commission ID format")
		return uuid.Nil, false
	}
	return id, true
}

// HandleOverride records an admin override of the commission amount
func (h *Handler) HandleOverride(c *gin.Context) {
	ctx := c.Request.Context()
	admin, ok := authHandler.AdminFromContext(c)
	if !ok {
		apierrors.Unauthorized(c, "Admin not found in context")
		return
	}
	commissionID, ok := h.commissionID(c)
	if !ok {
		return
	}

	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	updated, err := h.engine.Override(ctx, admin.TenantID, commissionID, commission.OverrideParams{
		Amount: *req.Amount,
		Reason: req.Reason,
		Actor:  &admin.UserID,
	})
	if err != nil {
		apierrors.RespondWithError(c, err, errorMappings...)
		return
	}

	h.publisher.PublishCommissionUpdated(ctx, updated)
	c.JSON(http.StatusOK, updated)
}

// HandleTransition moves the commission to the requested release status
func (h *Handler) HandleTransition(c *gin.Context) {
	ctx := c.Request.Context()
	admin, ok := authHandler.AdminFromContext(c)
	if !ok {
		apierrors.Unauthorized(c, "Admin not found in context")
		return
	}
	commissionID, ok := h.commissionID(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	updated, err := h.engine.Transition(ctx, admin.TenantID, commissionID, req.Status, req.ReleasedAmount)
	if err != nil {
		apierrors.RespondWithError(c, err, errorMappings...)
		return
	}

	h.publisher.PublishCommissionUpdated(ctx, updated)
	c.JSON(http.StatusOK, updated)
}
