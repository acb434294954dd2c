package processor

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"revenue-server/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
)

func stripeEvent(t *testing.T, eventType string, object map[string]interface{}) ([]byte, stripe.Event) {
	t.Helper()
	data, err := json.Marshal(object)
	require.NoError(t, err)
	event := stripe.Event{
		ID:   "evt_" + uuid.NewString(),
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: data},
	}
	raw, err := json.Marshal(map[string]interface{}{"id": event.ID, "type": eventType, "data": map[string]interface{}{"object": object}})
	require.NoError(t, err)
	return raw, event
}

func TestProcessStripeEvent_PaymentIntentSucceeded(t *testing.T) {
	t.Parallel()
	f := newPaymentFixture(t)
	ctx := context.Background()
	contact := f.contact(t, "a@x.com")
	appointment := f.appointment(contact.ID, &f.closer.ID, time.Now())

	raw, event := stripeEvent(t, "payment_intent.succeeded", map[string]interface{}{
		"id":              "pi_123",
		"object":          "payment_intent",
		"amount":          50000,
		"amount_received": 50000,
		"currency":        "usd",
		"receipt_email":   "A@x.com",
		"created":         1767268800,
		"metadata": map[string]string{
			"closer_email":   "rep@x.com",
			"appointment_id": appointment.ID.String(),
		},
	})

	result, err := f.processor.ProcessStripeEvent(ctx, raw, event, &f.tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMatched, result.Outcome)
	assert.Equal(t, store.MatchedByExplicitHint, result.MatchedBy)

	sales := f.mem.Sales()
	require.Len(t, sales, 1)
	assert.Equal(t, "pi_123", sales[0].ExternalID)
	assert.Equal(t, "stripe", sales[0].Processor)
	assert.Equal(t, "USD", sales[0].Currency)
	assert.True(t, sales[0].Amount.Equal(decimal.NewFromInt(500)))
	require.NotNil(t, sales[0].PaidAt)
	assert.Equal(t, int64(1767268800), sales[0].PaidAt.Unix())

	commissions := f.mem.Commissions()
	require.Len(t, commissions, 1)
	assert.True(t, commissions[0].TotalAmount.Equal(decimal.NewFromInt(50)))

	rows := f.mem.WebhookEvents()
	require.Len(t, rows, 1)
	assert.Equal(t, "stripe", rows[0].Processor)
	assert.Equal(t, "payment_intent.succeeded", rows[0].EventType)
}

func TestProcessStripeEvent_ChargeRefunded(t *testing.T) {
	t.Parallel()
	f := newPaymentFixture(t)
	ctx := context.Background()

	raw, event := stripeEvent(t, "payment_intent.succeeded", map[string]interface{}{
		"id": "pi_9", "amount": 1999, "currency": "usd", "receipt_email": "b@x.com",
		"metadata": map[string]string{"tenant_id": f.tenant.ID.String()},
	})
	_, err := f.processor.ProcessStripeEvent(ctx, raw, event, nil)
	require.NoError(t, err)
	require.Len(t, f.mem.Sales(), 1)
	assert.True(t, f.mem.Sales()[0].Amount.Equal(decimal.RequireFromString("19.99")))

	// partial refunds are recorded but change nothing
	raw, event = stripeEvent(t, "charge.refunded", map[string]interface{}{
		"id": "ch_1", "payment_intent": "pi_9", "amount": 1999, "amount_refunded": 500, "refunded": false,
	})
	result, err := f.processor.ProcessStripeEvent(ctx, raw, event, nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, result.Outcome)
	assert.Equal(t, store.SaleStatusPaid, f.mem.Sales()[0].Status)

	raw, event = stripeEvent(t, "charge.refunded", map[string]interface{}{
		"id": "ch_1", "payment_intent": "pi_9", "amount": 1999, "amount_refunded": 1999, "refunded": true,
	})
	result, err = f.processor.ProcessStripeEvent(ctx, raw, event, nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRefunded, result.Outcome)
	assert.Equal(t, store.SaleStatusRefunded, f.mem.Sales()[0].Status)
	assert.Len(t, f.mem.WebhookEvents(), 3)
}

func TestProcessStripeEvent_UnhandledTypeIsIgnored(t *testing.T) {
	t.Parallel()
	f := newPaymentFixture(t)

	raw, event := stripeEvent(t, "customer.created", map[string]interface{}{"id": "cus_1"})
	result, err := f.processor.ProcessStripeEvent(context.Background(), raw, event, nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, result.Outcome)
	assert.Empty(t, f.mem.Sales())

	rows := f.mem.WebhookEvents()
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Processed)
}

func TestPaymentFromIntent_CustomerFallback(t *testing.T) {
	t.Parallel()
	tenantID := uuid.New()

	input := paymentFromIntent(stripe.PaymentIntent{
		ID:       "pi_1",
		Amount:   1000,
		Currency: "eur",
		Customer: &stripe.Customer{Email: "c@x.com", Name: "Cee", Phone: "5551234567"},
		Metadata: map[string]string{"tenant_id": "not-a-uuid"},
	}, &tenantID)

	assert.Equal(t, "c@x.com", input.Email)
	assert.Equal(t, "Cee", input.Name)
	assert.Equal(t, "5551234567", input.Phone)
	assert.Equal(t, "EUR", input.Currency)
	assert.Equal(t, tenantID, *input.TenantID)
	assert.True(t, input.Amount.Equal(decimal.NewFromInt(10)))
	assert.Nil(t, input.PaidAt)
}
