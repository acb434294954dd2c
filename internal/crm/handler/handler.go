package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"revenue-server/internal/apierrors"
	"revenue-server/internal/crm/processor"
	"revenue-server/internal/identity"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=handler.go -destination=mocks_test.go -package=handler

// AppointmentWebhookProcessor applies CRM appointment deliveries
type AppointmentWebhookProcessor interface {
	ProcessAppointmentWebhook(ctx context.Context, raw []byte, tenantID *uuid.UUID) (processor.Result, error)
}

type Handler struct {
	processor AppointmentWebhookProcessor
}

func New(processor AppointmentWebhookProcessor) Handler {
	return Handler{processor: processor}
}

const maxBodyBytes = int64(1 << 20)

// HandleAppointmentWebhook answers 200 for every delivery it could attribute to
// a tenant, including ones that failed downstream, so the CRM does not retry.
func (h *Handler) HandleAppointmentWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "failed to read request body")
		return
	}

	var tenantID *uuid.UUID
	if raw := c.Query("tenantId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Invalid tenantId format")
			return
		}
		tenantID = &parsed
	}

	result, err := h.processor.ProcessAppointmentWebhook(ctx, payload, tenantID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, processor.ErrInvalidPayload):
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Invalid JSON payload")
	case errors.Is(err, identity.ErrTenantUnresolved):
		apierrors.NotFound(c, "Tenant could not be resolved; delivery recorded")
	default:
		apierrors.InternalError(c, err)
	}
}
