package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"revenue-server/internal/observability"
	"revenue-server/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
)

const processorStripe = "stripe"

// Stripe metadata keys carrying reconciliation hints
const (
	metadataTenantID      = "tenant_id"
	metadataAppointmentID = "appointment_id"
	metadataCloserEmail   = "closer_email"
	metadataCustomerEmail = "customer_email"
	metadataCustomerName  = "customer_name"
	metadataCustomerPhone = "customer_phone"
)

// ProcessStripeEvent records a verified Stripe event and runs it. Only
// payment_intent.succeeded and full charge.refunded events change state; every
// other event is recorded and answered as ignored.
func (p *PaymentProcessor) ProcessStripeEvent(ctx context.Context, raw []byte, event stripe.Event, tenantID *uuid.UUID) (PaymentResult, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "stripe_event_id", Value: event.ID},
		observability.Field{Key: "stripe_event_type", Value: string(event.Type)},
	)

	eventID, err := p.ledger.Record(ctx, processorStripe, string(event.Type), raw)
	if err != nil {
		return PaymentResult{}, err
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "webhook_event_id", Value: eventID.String()})

	input, ok, err := paymentFromStripeEvent(event, tenantID)
	if err != nil {
		p.ledger.Complete(ctx, eventID, nil, err)
		return PaymentResult{}, err
	}
	if !ok {
		p.ledger.Complete(ctx, eventID, tenantID, nil)
		return PaymentResult{Outcome: OutcomeIgnored, EventID: eventID}, nil
	}
	return p.ingest(ctx, eventID, input)
}

func paymentFromStripeEvent(event stripe.Event, tenantID *uuid.UUID) (PaymentInput, bool, error) {
	if event.Data == nil {
		return PaymentInput{}, false, fmt.Errorf("%w: event has no data", ErrInvalidPayload)
	}

	switch string(event.Type) {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return PaymentInput{}, false, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		return paymentFromIntent(intent, tenantID), true, nil

	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return PaymentInput{}, false, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		// partial refunds leave the sale paid
		if !charge.Refunded {
			return PaymentInput{}, false, nil
		}
		return refundFromCharge(charge, tenantID), true, nil
	}
	return PaymentInput{}, false, nil
}

func paymentFromIntent(intent stripe.PaymentIntent, tenantID *uuid.UUID) PaymentInput {
	amount := intent.AmountReceived
	if amount == 0 {
		amount = intent.Amount
	}

	input := PaymentInput{
		Processor:       processorStripe,
		PaymentID:       intent.ID,
		Amount:          minorUnits(amount),
		Currency:        currencyCode(intent.Currency),
		Status:          store.SaleStatusPaid,
		Email:           firstNonEmpty(intent.ReceiptEmail, intent.Metadata[metadataCustomerEmail]),
		Name:            intent.Metadata[metadataCustomerName],
		Phone:           intent.Metadata[metadataCustomerPhone],
		CloserEmail:     intent.Metadata[metadataCloserEmail],
		AppointmentHint: intent.Metadata[metadataAppointmentID],
		Metadata:        metadataMap(intent.Metadata),
		TenantID:        tenantFromMetadata(tenantID, intent.Metadata),
	}
	if intent.Customer != nil {
		input.Email = firstNonEmpty(input.Email, intent.Customer.Email)
		input.Name = firstNonEmpty(input.Name, intent.Customer.Name)
		input.Phone = firstNonEmpty(input.Phone, intent.Customer.Phone)
	}
	if intent.Created > 0 {
		paidAt := time.Unix(intent.Created, 0).UTC()
		input.PaidAt = &paidAt
	}
	return input
}

// refundFromCharge keys the refund by the payment intent when there is one,
// since that is the id the original payment was recorded under
func refundFromCharge(charge stripe.Charge, tenantID *uuid.UUID) PaymentInput {
	paymentID := charge.ID
	if charge.PaymentIntent != nil && charge.PaymentIntent.ID != "" {
		paymentID = charge.PaymentIntent.ID
	}
	input := PaymentInput{
		Processor: processorStripe,
		PaymentID: paymentID,
		Amount:    minorUnits(charge.AmountRefunded),
		Currency:  currencyCode(charge.Currency),
		Status:    store.SaleStatusRefunded,
		Metadata:  metadataMap(charge.Metadata),
		TenantID:  tenantFromMetadata(tenantID, charge.Metadata),
	}
	if charge.BillingDetails != nil {
		input.Email = charge.BillingDetails.Email
		input.Name = charge.BillingDetails.Name
	}
	return input
}

func minorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}

func currencyCode(currency stripe.Currency) string {
	if currency == "" {
		return defaultCurrency
	}
	return strings.ToUpper(string(currency))
}

func tenantFromMetadata(tenantID *uuid.UUID, metadata map[string]string) *uuid.UUID {
	if tenantID != nil {
		return tenantID
	}
	id, err := uuid.Parse(metadata[metadataTenantID])
	if err != nil {
		return nil
	}
	return &id
}

func metadataMap(metadata map[string]string) map[string]interface{} {
	if len(metadata) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
