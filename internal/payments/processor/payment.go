package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"revenue-server/internal/observability"
	"revenue-server/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// PaymentRequest is the generic payment webhook body
type PaymentRequest struct {
	Processor     string                 `json:"processor" validate:"required,max=50"`
	PaymentID     string                 `json:"paymentId" validate:"required,max=255"`
	Amount        decimal.Decimal        `json:"amount"`
	Currency      string                 `json:"currency" validate:"omitempty,len=3,alpha"`
	Status        string                 `json:"status" validate:"omitempty,oneof=paid refunded"`
	CustomerEmail string                 `json:"customerEmail" validate:"required,email"`
	CustomerName  string                 `json:"customerName" validate:"max=255"`
	ContactName   string                 `json:"contactName" validate:"max=255"`
	ContactPhone  string                 `json:"contactPhone" validate:"max=50"`
	CloserEmail   string                 `json:"closerEmail" validate:"omitempty,email"`
	AppointmentID string                 `json:"appointmentId" validate:"max=255"`
	PaidAt        *time.Time             `json:"paidAt"`
	Metadata      map[string]interface{} `json:"metadata"`
	TenantID      *uuid.UUID             `json:"tenantId"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their JSON name
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodePaymentRequest parses and validates a generic payment body
func DecodePaymentRequest(raw []byte) (PaymentInput, error) {
	var req PaymentRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return PaymentInput{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if err := validate.Struct(req); err != nil {
		return PaymentInput{}, err
	}
	return req.toInput(), nil
}

func (r PaymentRequest) toInput() PaymentInput {
	status := r.Status
	if status == "" {
		status = store.SaleStatusPaid
	}
	currency := strings.ToUpper(r.Currency)
	if currency == "" {
		currency = defaultCurrency
	}
	name := r.ContactName
	if name == "" {
		name = r.CustomerName
	}
	tenantID := r.TenantID
	if tenantID == nil {
		tenantID = metadataTenant(r.Metadata)
	}
	return PaymentInput{
		Processor:       r.Processor,
		PaymentID:       strings.TrimSpace(r.PaymentID),
		Amount:          r.Amount,
		Currency:        currency,
		Status:          status,
		Email:           r.CustomerEmail,
		Name:            name,
		Phone:           r.ContactPhone,
		CloserEmail:     r.CloserEmail,
		AppointmentHint: strings.TrimSpace(r.AppointmentID),
		PaidAt:          r.PaidAt,
		Metadata:        r.Metadata,
		TenantID:        tenantID,
	}
}

// metadataTenant reads a tenant id a payment link stored in the payment metadata
func metadataTenant(metadata map[string]interface{}) *uuid.UUID {
	for _, key := range []string{"tenantId", "tenant_id"} {
		raw, ok := metadata[key].(string)
		if !ok {
			continue
		}
		if id, err := uuid.Parse(strings.TrimSpace(raw)); err == nil {
			return &id
		}
	}
	return nil
}

// ProcessPaymentWebhook records a generic payment delivery in the ledger and
// runs it. The raw body is recorded before it is validated so rejected
// deliveries stay visible to operators. A tenantID from the webhook URL takes
// precedence over the body tenantId and then the metadata.
func (p *PaymentProcessor) ProcessPaymentWebhook(ctx context.Context, raw []byte, tenantID *uuid.UUID) (PaymentResult, error) {
	processorTag := gjson.GetBytes(raw, "processor").String()
	if processorTag == "" {
		processorTag = defaultProcessor
	}
	status := gjson.GetBytes(raw, "status").String()
	if status == "" {
		status = store.SaleStatusPaid
	}

	eventID, err := p.ledger.Record(ctx, processorTag, "payment."+status, raw)
	if err != nil {
		return PaymentResult{}, err
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "webhook_event_id", Value: eventID.String()})

	input, err := DecodePaymentRequest(raw)
	if err != nil {
		p.ledger.Complete(ctx, eventID, nil, err)
		return PaymentResult{}, err
	}
	if tenantID != nil {
		input.TenantID = tenantID
	}
	return p.ingest(ctx, eventID, input)
}
