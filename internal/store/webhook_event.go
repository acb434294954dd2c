package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// CreateWebhookEventParams represents parameters for recording an inbound webhook
type CreateWebhookEventParams struct {
	Processor  string
	EventType  string
	RawPayload []byte
}

const webhookEventColumns = `id, processor, event_type, raw_payload, tenant_id, processed, error, created_at, processed_at`

var sqlCreateWebhookEvent = `
INSERT INTO webhook_events (processor, event_type, raw_payload)
VALUES ($1, $2, $3)
RETURNING ` + webhookEventColumns

// CreateWebhookEvent records a webhook delivery before any processing happens
func (s *Store) CreateWebhookEvent(ctx context.Context, params CreateWebhookEventParams) (WebhookEvent, error) {
	var event WebhookEvent
	err := s.db.GetContext(ctx, &event, sqlCreateWebhookEvent, params.Processor, params.EventType, params.RawPayload)
	if err != nil {
		s.logger.Error(ctx, "failed to create webhook event", err)
		return WebhookEvent{}, fmt.Errorf("failed to create webhook event: %w", err)
	}
	return event, nil
}

const sqlMarkWebhookEventProcessed = `
UPDATE webhook_events
SET processed = TRUE,
    error = NULL,
    tenant_id = COALESCE($2, tenant_id),
    processed_at = CURRENT_TIMESTAMP
WHERE id = $1
`

// MarkWebhookEventProcessed completes a webhook event successfully
func (s *Store) MarkWebhookEventProcessed(ctx context.Context, eventID uuid.UUID, tenantID *uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, sqlMarkWebhookEventProcessed, eventID, tenantID)
	if err != nil {
		s.logger.Error(ctx, "failed to mark webhook event processed", err)
		return fmt.Errorf("failed to mark webhook event processed: %w", err)
	}
	return requireRowAffected(res)
}

const sqlMarkWebhookEventFailed = `
UPDATE webhook_events
SET processed = FALSE,
    error = $2,
    tenant_id = COALESCE($3, tenant_id),
    processed_at = CURRENT_TIMESTAMP
WHERE id = $1
`

// MarkWebhookEventFailed records the failure reason on a webhook event, attaching the tenant when known
func (s *Store) MarkWebhookEventFailed(ctx context.Context, eventID uuid.UUID, tenantID *uuid.UUID, errorMessage string) error {
	res, err := s.db.ExecContext(ctx, sqlMarkWebhookEventFailed, eventID, errorMessage, tenantID)
	if err != nil {
		s.logger.Error(ctx, "failed to mark webhook event failed", err)
		return fmt.Errorf("failed to mark webhook event failed: %w", err)
	}
	return requireRowAffected(res)
}

// ListWebhookEventsParams filters the webhook audit ledger
type ListWebhookEventsParams struct {
	TenantID   *uuid.UUID
	Processor  *string
	FailedOnly bool
	Limit      int
	Offset     int
}

var sqlListWebhookEvents = `
SELECT ` + webhookEventColumns + `
FROM webhook_events
WHERE ($1::uuid IS NULL OR tenant_id = $1)
  AND ($2::text IS NULL OR processor = $2)
  AND (NOT $3 OR error IS NOT NULL)
ORDER BY created_at DESC
LIMIT $4 OFFSET $5
`

// ListWebhookEvents returns ledger rows newest first
func (s *Store) ListWebhookEvents(ctx context.Context, params ListWebhookEventsParams) ([]WebhookEvent, error) {
	events := []WebhookEvent{}
	err := s.db.SelectContext(ctx, &events, sqlListWebhookEvents,
		params.TenantID,
		params.Processor,
		params.FailedOnly,
		params.Limit,
		params.Offset)
	if err != nil {
		s.logger.Error(ctx, "failed to list webhook events", err)
		return nil, fmt.Errorf("failed to list webhook events: %w", err)
	}
	return events, nil
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
