package handler

import (
	"context"
	"crypto/subtle"
	"net/http"

	"revenue-server/internal/apierrors"
	"revenue-server/internal/identity"
	"revenue-server/internal/payments/processor"
	"revenue-server/internal/store"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=handler.go -destination=mocks_test.go -package=handler

// PaymentService is the processor surface the payment routes call
type PaymentService interface {
	ProcessPaymentWebhook(ctx context.Context, raw []byte, tenantID *uuid.UUID) (processor.PaymentResult, error)
	ProcessStripeEvent(ctx context.Context, raw []byte, event stripe.Event, tenantID *uuid.UUID) (processor.PaymentResult, error)
	MatchPayments(ctx context.Context, tenantID uuid.UUID, actor *uuid.UUID, pairs []processor.ManualMatch) []processor.ManualMatchResult
	ListUnmatchedPayments(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]store.UnmatchedPaymentWithSale, error)
	RematchPayment(ctx context.Context, tenantID, saleID uuid.UUID) (processor.PaymentResult, error)
}

// Handler serves the payment webhooks and the payment admin routes
type Handler struct {
	processor     PaymentService
	webhookSecret string
	stripeSecret  string
}

func New(processor PaymentService, webhookSecret, stripeSecret string) Handler {
	return Handler{
		processor:     processor,
		webhookSecret: webhookSecret,
		stripeSecret:  stripeSecret,
	}
}

// StripeEnabled reports whether a Stripe signing secret is configured
func (h *Handler) StripeEnabled() bool {
	return h.stripeSecret != ""
}

var errorMappings = []apierrors.Mapping{
	{Err: processor.ErrInvalidPayload, Status: http.StatusBadRequest, Code: apierrors.CodeInvalidInput, Message: "Invalid payment payload"},
	{Err: processor.ErrInvalidAmount, Status: http.StatusBadRequest, Code: apierrors.CodeInvalidAmount, Message: "Payment amount must be greater than zero"},
	{Err: processor.ErrInvalidStatus, Status: http.StatusBadRequest, Code: apierrors.CodeInvalidInput, Message: "Invalid status"},
	{Err: identity.ErrTenantUnresolved, Status: http.StatusBadRequest, Code: apierrors.CodeTenantNotFound, Message: "Tenant could not be resolved"},
	{Err: processor.ErrPaymentNotFound, Status: http.StatusNotFound, Code: apierrors.CodePaymentNotFound, Message: "Payment not found"},
	{Err: processor.ErrAlreadyMatched, Status: http.StatusConflict, Code: apierrors.CodeAlreadyMatched, Message: "Payment is already matched to another appointment"},
}

// statusFor maps an ingest outcome to the webhook response code. Unmatched
// payments are accepted for review.
func statusFor(outcome processor.Outcome) int {
	if outcome == processor.OutcomeUnmatched {
		return http.StatusAccepted
	}
	return http.StatusOK
}

func secretMatches(expected, got string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}
