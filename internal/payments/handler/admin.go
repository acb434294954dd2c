package handler

import (
	"net/http"

	"revenue-server/internal/apierrors"
	authHandler "revenue-server/internal/auth/handler"
	"revenue-server/internal/payments/processor"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BulkMatchRequest links processor payments to appointments
type BulkMatchRequest struct {
	Matches []processor.ManualMatch `json:"matches" binding:"required,min=1,max=100,dive"`
}

// BulkMatchResponse reports each pair of a bulk match in request order
type BulkMatchResponse struct {
	Results   []processor.ManualMatchResult `json:"results"`
	Succeeded int                           `json:"succeeded"`
	Failed    int                           `json:"failed"`
}

// ListUnmatchedQuery filters the review queue
type ListUnmatchedQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending matched"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

// HandleBulkMatch links every pair independently and reports per item
func (h *Handler) HandleBulkMatch(c *gin.Context) {
	ctx := c.Request.Context()
	admin, ok := authHandler.AdminFromContext(c)
	if !ok {
		apierrors.Unauthorized(c, "Admin not found in context")
		return
	}

	var req BulkMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	results := h.processor.MatchPayments(ctx, admin.TenantID, &admin.UserID, req.Matches)
	resp := BulkMatchResponse{Results: results}
	for _, r := range results {
		if r.Success {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	c.JSON(http.StatusOK, resp)
}

// HandleListUnmatched returns the tenant's review queue
func (h *Handler) HandleListUnmatched(c *gin.Context) {
	ctx := c.Request.Context()
	admin, ok := authHandler.AdminFromContext(c)
	if !ok {
		apierrors.Unauthorized(c, "Admin not found in context")
		return
	}

	var query ListUnmatchedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	payments, err := h.processor.ListUnmatchedPayments(ctx, admin.TenantID, query.Status, query.Limit, query.Offset)
	if err != nil {
		apierrors.RespondWithError(c, err, errorMappings...)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unmatchedPayments": payments, "count": len(payments)})
}

// HandleRematch runs the matching cascade again for a payment in the review
// queue, typically after its appointment arrived from the CRM
func (h *Handler) HandleRematch(c *gin.Context) {
	ctx := c.Request.Context()
	admin, ok := authHandler.AdminFromContext(c)
	if !ok {
		apierrors.Unauthorized(c, "Admin not found in context")
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Invalid sale ID format")
		return
	}

	result, err := h.processor.RematchPayment(ctx, admin.TenantID, saleID)
	if err != nil {
		apierrors.RespondWithError(c, err, errorMappings...)
		return
	}
	c.JSON(http.StatusOK, result)
}
