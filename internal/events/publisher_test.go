package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"revenue-server/internal/attribution"
	"revenue-server/internal/clients/kafka"
	"revenue-server/internal/observability"
	"revenue-server/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPublisher_SaleMatched(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	producer := NewMockProducer(ctrl)
	publisher := NewPublisher(producer, observability.NewNopLogger())
	publisher.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }

	appointmentID := uuid.New()
	matchedBy := store.MatchedByCloserContact
	sale := store.Sale{
		ID:              uuid.New(),
		TenantID:        uuid.New(),
		ExternalID:      "pay_1",
		Amount:          decimal.RequireFromString("500"),
		Currency:        "USD",
		AppointmentID:   &appointmentID,
		MatchedBy:       &matchedBy,
		MatchConfidence: decimal.NewNullDecimal(decimal.RequireFromString("0.6")),
	}

	var got kafka.EventMessage
	producer.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, event kafka.EventMessage) error {
		got = event
		return nil
	})

	publisher.PublishSaleMatched(context.Background(), sale)

	assert.Equal(t, TypeSaleMatched, got.Type)
	assert.Equal(t, sale.TenantID.String(), got.TenantID)
	assert.Equal(t, "2026-05-01T12:00:00Z", got.Timestamp)
	assert.Equal(t, "500.00", got.Data["amount"])
	assert.Equal(t, appointmentID.String(), got.Data["appointment_id"])
	assert.Equal(t, "0.6", got.Data["confidence"])
	assert.NotContains(t, got.Data, "closer_id")
}

func TestPublisher_ErrorsAreSwallowed(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	producer := NewMockProducer(ctrl)
	publisher := NewPublisher(producer, observability.NewNopLogger())

	producer.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	assert.NotPanics(t, func() {
		publisher.PublishCommissionCreated(context.Background(), store.Commission{ID: uuid.New()})
	})
}

func TestPublisher_Disabled(t *testing.T) {
	t.Parallel()

	var nilPublisher *Publisher
	assert.NotPanics(t, func() {
		nilPublisher.PublishSaleRefunded(context.Background(), store.Sale{})
		NewPublisher(nil, observability.NewNopLogger()).PublishSaleUnmatched(context.Background(), store.Sale{}, nil)
	})
}

func TestPublisher_AttributionChanged(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	producer := NewMockProducer(ctrl)
	publisher := NewPublisher(producer, observability.NewNopLogger())
	tenantID, contactID := uuid.New(), uuid.New()

	// no changes, no event
	publisher.PublishAttributionChanged(context.Background(), tenantID, contactID, nil)

	changes := []attribution.Change{{AppointmentID: uuid.New(), To: true}}
	producer.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, event kafka.EventMessage) error {
		require.Equal(t, TypeAttributionChanged, event.Type)
		assert.Equal(t, contactID.String(), event.Data["contact_id"])
		assert.Equal(t, changes, event.Data["changes"])
		return nil
	})
	publisher.PublishAttributionChanged(context.Background(), tenantID, contactID, changes)
}
