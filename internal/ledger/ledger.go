package ledger

//go:generate go run go.uber.org/mock/mockgen@latest -source=ledger.go -destination=mocks_test.go -package=ledger

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"revenue-server/internal/observability"
	"revenue-server/internal/store"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// EventStore defines the database operations required by the Ledger
type EventStore interface {
	CreateWebhookEvent(ctx context.Context, params store.CreateWebhookEventParams) (store.WebhookEvent, error)
	MarkWebhookEventProcessed(ctx context.Context, eventID uuid.UUID, tenantID *uuid.UUID) error
	MarkWebhookEventFailed(ctx context.Context, eventID uuid.UUID, tenantID *uuid.UUID, errorMessage string) error
	ListWebhookEvents(ctx context.Context, params store.ListWebhookEventsParams) ([]store.WebhookEvent, error)
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
	maxErrorLength   = 2000
)

var (
	ErrEmptyProcessor = errors.New("processor tag is required")
	ErrEventNotFound  = errors.New("webhook event not found")
	ErrThrottled      = errors.New("delivery refused by the webhook rate limiter")
)

// EventTypeThrottled tags deliveries the rate limiter refused
const EventTypeThrottled = "throttled"

// Ledger is the audit trail of inbound webhook deliveries. Every delivery is
// recorded before business logic runs and is closed by exactly one Mark call.
type Ledger struct {
	store  EventStore
	logger *observability.Logger
}

func New(store EventStore, logger *observability.Logger) Ledger {
	return Ledger{
		store:  store,
		logger: logger,
	}
}

// Record persists a raw webhook payload and returns its event id
func (l *Ledger) Record(ctx context.Context, processor, eventType string, rawPayload []byte) (uuid.UUID, error) {
	if processor == "" {
		return uuid.Nil, ErrEmptyProcessor
	}
	if eventType == "" {
		eventType = "unknown"
	}

	event, err := l.store.CreateWebhookEvent(ctx, store.CreateWebhookEventParams{
		Processor:  processor,
		EventType:  eventType,
		RawPayload: rawPayload,
	})
	if err != nil {
		l.logger.Error(ctx, "failed to record webhook event", err)
		return uuid.Nil, fmt.Errorf("failed to record webhook event: %w", err)
	}
	return event.ID, nil
}

// MarkProcessed closes an event successfully, attaching the tenant when known
func (l *Ledger) MarkProcessed(ctx context.Context, eventID uuid.UUID, tenantID *uuid.UUID) error {
	err := l.store.MarkWebhookEventProcessed(ctx, eventID, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEventNotFound
		}
		l.logger.Error(ctx, "failed to mark webhook event processed", err)
		return fmt.Errorf("failed to mark webhook event processed: %w", err)
	}
	return nil
}

// MarkFailed closes an event with the reason it could not be processed,
// attaching the tenant when it was resolved before the failure
func (l *Ledger) MarkFailed(ctx context.Context, eventID uuid.UUID, tenantID *uuid.UUID, errorMessage string) error {
	errorMessage = truncate(errorMessage, maxErrorLength)
	err := l.store.MarkWebhookEventFailed(ctx, eventID, tenantID, errorMessage)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEventNotFound
		}
		l.logger.Error(ctx, "failed to mark webhook event failed", err)
		return fmt.Errorf("failed to mark webhook event failed: %w", err)
	}
	return nil
}

// Complete calls MarkFailed when procErr is set and MarkProcessed otherwise.
// Ledger write failures are logged and swallowed so they never change the
// outcome reported to the webhook sender.
func (l *Ledger) Complete(ctx context.Context, eventID uuid.UUID, tenantID *uuid.UUID, procErr error) {
	var err error
	if procErr != nil {
		err = l.MarkFailed(ctx, eventID, tenantID, procErr.Error())
	} else {
		err = l.MarkProcessed(ctx, eventID, tenantID)
	}
	if err != nil {
		ctx = observability.WithFields(ctx, observability.Field{Key: "webhook_event_id", Value: eventID.String()})
		l.logger.Error(ctx, "failed to complete webhook event", err)
	}
}

// RecordThrottled keeps a delivery the rate limiter refused as a failed row.
// The body's processor tag wins over source. Ledger errors are logged only.
func (l *Ledger) RecordThrottled(ctx context.Context, source string, rawPayload []byte) {
	processor := gjson.GetBytes(rawPayload, "processor").String()
	if processor == "" {
		processor = source
	}
	eventID, err := l.Record(ctx, processor, EventTypeThrottled, rawPayload)
	if err != nil {
		return
	}
	l.Complete(ctx, eventID, nil, ErrThrottled)
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// ListEventsFilter narrows the ledger listing
type ListEventsFilter struct {
	TenantID   *uuid.UUID
	Processor  *string
	FailedOnly bool
	Limit      int
	Offset     int
}

// ListEvents returns ledger rows newest first
func (l *Ledger) ListEvents(ctx context.Context, filter ListEventsFilter) ([]store.WebhookEvent, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	events, err := l.store.ListWebhookEvents(ctx, store.ListWebhookEventsParams{
		TenantID:   filter.TenantID,
		Processor:  filter.Processor,
		FailedOnly: filter.FailedOnly,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		l.logger.Error(ctx, "failed to list webhook events", err)
		return nil, fmt.Errorf("failed to list webhook events: %w", err)
	}
	return events, nil
}
