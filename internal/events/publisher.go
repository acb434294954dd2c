package events

import (
	"context"
	"time"

	"revenue-server/internal/attribution"
	"revenue-server/internal/clients/kafka"
	"revenue-server/internal/observability"
	"revenue-server/internal/store"

	"github.com/google/uuid"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=publisher.go -destination=mocks_test.go -package=events

// Event types written to the revenue topic
const (
	TypeSaleMatched        = "sale.matched"
	TypeSaleUnmatched      = "sale.unmatched"
	TypeSaleRefunded       = "sale.refunded"
	TypeCommissionCreated  = "commission.created"
	TypeCommissionUpdated  = "commission.updated"
	TypeAttributionChanged = "attribution.changed"
)

// Producer is the transport the publisher writes to
type Producer interface {
	PublishEvent(ctx context.Context, event kafka.EventMessage) error
}

// Publisher publishes revenue domain events for downstream notification and
// reporting services. Publishing is best effort: failures are logged and never
// returned to the caller, since the database write already happened.
type Publisher struct {
	producer Producer
	logger   *observability.Logger
	now      func() time.Time
}

// NewPublisher creates a new event publisher. A nil producer disables publishing.
func NewPublisher(producer Producer, logger *observability.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		logger:   logger,
		now:      time.Now,
	}
}

func (p *Publisher) publish(ctx context.Context, eventType string, tenantID uuid.UUID, data map[string]interface{}) {
	if p == nil || p.producer == nil {
		return
	}

	event := kafka.EventMessage{
		ID:        uuid.New().String(),
		Type:      eventType,
		TenantID:  tenantID.String(),
		Data:      data,
		Timestamp: p.now().UTC().Format(time.RFC3339),
	}
	if err := p.producer.PublishEvent(ctx, event); err != nil {
		ctx = observability.WithFields(ctx, observability.Field{Key: "event_type", Value: eventType})
		p.logger.WarnWithError(ctx, "failed to publish domain event", err)
	}
}

// PublishSaleMatched publishes a sale.matched event
func (p *Publisher) PublishSaleMatched(ctx context.Context, sale store.Sale) {
	data := map[string]interface{}{
		"sale_id":          sale.ID.String(),
		"external_id":      sale.ExternalID,
		"amount":           sale.Amount.StringFixed(2),
		"currency":         sale.Currency,
		"manually_matched": sale.ManuallyMatched,
	}
	if sale.AppointmentID != nil {
		data["appointment_id"] = sale.AppointmentID.String()
	}
	if sale.CloserID != nil {
		data["closer_id"] = sale.CloserID.String()
	}
	if sale.MatchedBy != nil {
		data["matched_by"] = *sale.MatchedBy
	}
	if sale.MatchConfidence.Valid {
		data["confidence"] = sale.MatchConfidence.Decimal.String()
	}
	p.publish(ctx, TypeSaleMatched, sale.TenantID, data)
}

// PublishSaleUnmatched publishes a sale.unmatched event for the review queue
func (p *Publisher) PublishSaleUnmatched(ctx context.Context, sale store.Sale, suggestions []uuid.UUID) {
	ids := make([]string, len(suggestions))
	for i, id := range suggestions {
		ids[i] = id.String()
	}
	p.publish(ctx, TypeSaleUnmatched, sale.TenantID, map[string]interface{}{
		"sale_id":     sale.ID.String(),
		"external_id": sale.ExternalID,
		"amount":      sale.Amount.StringFixed(2),
		"currency":    sale.Currency,
		"suggestions": ids,
	})
}

// PublishSaleRefunded publishes a sale.refunded event
func (p *Publisher) PublishSaleRefunded(ctx context.Context, sale store.Sale) {
	p.publish(ctx, TypeSaleRefunded, sale.TenantID, map[string]interface{}{
		"sale_id":     sale.ID.String(),
		"external_id": sale.ExternalID,
		"amount":      sale.Amount.StringFixed(2),
	})
}

func commissionData(commission store.Commission) map[string]interface{} {
	return map[string]interface{}{
		"commission_id":   commission.ID.String(),
		"sale_id":         commission.SaleID.String(),
		"closer_id":       commission.CloserID.String(),
		"total_amount":    commission.TotalAmount.StringFixed(2),
		"released_amount": commission.ReleasedAmount.StringFixed(2),
		"release_status":  commission.ReleaseStatus,
	}
}

// PublishCommissionCreated publishes a commission.created event
func (p *Publisher) PublishCommissionCreated(ctx context.Context, commission store.Commission) {
	p.publish(ctx, TypeCommissionCreated, commission.TenantID, commissionData(commission))
}

// PublishCommissionUpdated publishes a commission.updated event after a release
// transition or an override
func (p *Publisher) PublishCommissionUpdated(ctx context.Context, commission store.Commission) {
	data := commissionData(commission)
	if commission.OverrideReason != nil {
		data["override_reason"] = *commission.OverrideReason
	}
	p.publish(ctx, TypeCommissionUpdated, commission.TenantID, data)
}

// PublishAttributionChanged publishes the inclusion flag changes of one contact.
// Nothing is published when there are no changes.
func (p *Publisher) PublishAttributionChanged(ctx context.Context, tenantID, contactID uuid.UUID, changes []attribution.Change) {
	if len(changes) == 0 {
		return
	}
	p.publish(ctx, TypeAttributionChanged, tenantID, map[string]interface{}{
		"contact_id": contactID.String(),
		"changes":    changes,
	})
}
