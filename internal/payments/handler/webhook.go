package handler

import (
	"io"
	"net/http"

	"revenue-server/internal/apierrors"
	"revenue-server/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79/webhook"
)

const (
	webhookSecretHeader   = "X-Webhook-Secret"
	stripeSignatureHeader = "Stripe-Signature"
	maxBodyBytes          = int64(1 << 20)
)

// HandlePaymentWebhook ingests a generic payment delivery. An optional tenantId
// query parameter scopes the delivery ahead of the body and its metadata.
func (h *Handler) HandlePaymentWebhook(c *gin.Context) {
	if h.webhookSecret != "" && !secretMatches(h.webhookSecret, c.GetHeader(webhookSecretHeader)) {
		apierrors.Unauthorized(c, "invalid webhook secret")
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "failed to read request body")
		return
	}

	tenantID, ok := tenantFromQuery(c)
	if !ok {
		return
	}

	result, err := h.processor.ProcessPaymentWebhook(c.Request.Context(), payload, tenantID)
	if err != nil {
		apierrors.RespondWithError(c, err, errorMappings...)
		return
	}

	c.JSON(statusFor(result.Outcome), result)
}

// HandleStripeWebhook verifies the Stripe signature and ingests the event. The
// tenantId query parameter scopes events of accounts without tenant metadata.
func (h *Handler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "failed to read request body")
		return
	}

	signatureHeader := c.GetHeader(stripeSignatureHeader)
	if signatureHeader == "" {
		apierrors.BadRequest(c, apierrors.CodeInvalidSignature, "missing Stripe-Signature header")
		return
	}
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, h.stripeSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidSignature, "invalid webhook signature")
		return
	}

	tenantID, ok := tenantFromQuery(c)
	if !ok {
		return
	}

	result, err := h.processor.ProcessStripeEvent(c.Request.Context(), payload, event, tenantID)
	if err != nil {
		apierrors.RespondWithError(c, err, errorMappings...)
		return
	}

	c.JSON(statusFor(result.Outcome), result)
}

// tenantFromQuery parses the optional tenantId query parameter. It answers 400
// and returns false when the value is malformed.
func tenantFromQuery(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("tenantId")
	if raw == "" {
		return nil, true
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Invalid tenantId format")
		return nil, false
	}
	ctx := observability.WithFields(c.Request.Context(), observability.Field{Key: "tenant_id", Value: raw})
	c.Request = c.Request.WithContext(ctx)
	return &parsed, true
}
