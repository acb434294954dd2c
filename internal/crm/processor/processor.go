package processor

import (
	"context"
	"errors"
	"fmt"

	"revenue-server/internal/attribution"
	"revenue-server/internal/crm/normalize"
	"revenue-server/internal/events"
	"revenue-server/internal/identity"
	"revenue-server/internal/ledger"
	"revenue-server/internal/observability"
	"revenue-server/internal/store"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=processor.go -destination=mocks_test.go -package=processor

// AppointmentStore defines the database operations required by CRMProcessor
type AppointmentStore interface {
	GetAppointmentByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (store.Appointment, error)
	CreateAppointment(ctx context.Context, params store.CreateAppointmentParams) (store.Appointment, error)
	UpdateAppointment(ctx context.Context, tenantID, appointmentID uuid.UUID, params store.UpdateAppointmentParams) (store.Appointment, error)
}

const processorCRM = "crm"

var (
	ErrInvalidPayload      = errors.New("crm payload is not valid JSON")
	ErrUnrecognizedPayload = errors.New("crm payload layout not recognized")
	ErrMissingContact      = errors.New("crm payload carries no contact details")
	ErrMissingStartTime    = errors.New("new appointment has no start time")
)

// Outcome is the result of one CRM delivery
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeIgnored Outcome = "ignored"
	OutcomeFailed  Outcome = "failed"
)

// Result describes what happened to a CRM delivery
type Result struct {
	Outcome            Outcome    `json:"status"`
	EventID            uuid.UUID  `json:"eventId"`
	AppointmentID      *uuid.UUID `json:"appointmentId,omitempty"`
	ContactID          *uuid.UUID `json:"contactId,omitempty"`
	AttributionChanges int        `json:"attributionChanges"`
	Reason             string     `json:"reason,omitempty"`
}

// CRMProcessor applies CRM appointment webhooks: it records the delivery,
// normalizes the payload, resolves tenant, contact and closer, upserts the
// appointment and recomputes attribution for the contact.
type CRMProcessor struct {
	store       AppointmentStore
	ledger      ledger.Ledger
	identity    identity.Resolver
	attribution attribution.Resolver
	publisher   *events.Publisher
	logger      *observability.Logger
}

func New(
	store AppointmentStore,
	ledger ledger.Ledger,
	identity identity.Resolver,
	attribution attribution.Resolver,
	publisher *events.Publisher,
	logger *observability.Logger,
) CRMProcessor {
	return CRMProcessor{
		store:       store,
		ledger:      ledger,
		identity:    identity,
		attribution: attribution,
		publisher:   publisher,
		logger:      logger,
	}
}

// ProcessAppointmentWebhook handles one CRM delivery. Only invalid JSON and an
// unresolved tenant are returned as errors; every other failure is recorded on
// the ledger row and reported in the result so the CRM does not retry.
func (p *CRMProcessor) ProcessAppointmentWebhook(ctx context.Context, raw []byte, tenantID *uuid.UUID) (Result, error) {
	event := normalize.Normalize(raw)

	eventID, err := p.ledger.Record(ctx, processorCRM, event.EventType, raw)
	if err != nil {
		return Result{}, err
	}
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "webhook_event_id", Value: eventID.String()},
		observability.Field{Key: "crm_event_type", Value: event.EventType},
	)

	if event.Kind == normalize.KindUnrecognized {
		if !gjson.ValidBytes(raw) {
			p.ledger.Complete(ctx, eventID, nil, ErrInvalidPayload)
			return Result{}, ErrInvalidPayload
		}
		err := fmt.Errorf("%w: %s", ErrUnrecognizedPayload, event.Reason)
		p.logger.Warn(ctx, "unrecognized crm payload")
		p.ledger.Complete(ctx, eventID, nil, err)
		return Result{Outcome: OutcomeIgnored, EventID: eventID, Reason: err.Error()}, nil
	}

	appointment := event.Appointment
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "crm_extractor", Value: event.Extractor},
		observability.Field{Key: "appointment_external_id", Value: appointment.ExternalID},
	)

	resolvedTenant, err := p.identity.ResolveTenant(ctx, identity.TenantHints{
		TenantID:    tenantID,
		LocationID:  appointment.LocationHint,
		CloserEmail: appointment.CloserEmail,
	})
	if err != nil {
		p.ledger.Complete(ctx, eventID, nil, err)
		return Result{}, err
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "tenant_id", Value: resolvedTenant.String()})

	result, err := p.apply(ctx, resolvedTenant, appointment)
	result.EventID = eventID
	p.ledger.Complete(ctx, eventID, &resolvedTenant, err)
	if err != nil {
		p.logger.Error(ctx, "failed to apply crm appointment", err)
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
	}
	return result, nil
}

func (p *CRMProcessor) apply(ctx context.Context, tenantID uuid.UUID, event normalize.Appointment) (Result, error) {
	contactID, err := p.resolveContact(ctx, tenantID, event)
	if err != nil {
		return Result{}, err
	}
	closerID, err := p.resolveCloser(ctx, tenantID, event)
	if err != nil {
		return Result{}, err
	}
	rescheduledFrom, err := p.resolveReschedule(ctx, tenantID, event)
	if err != nil {
		return Result{}, err
	}

	appointment, created, err := p.upsert(ctx, tenantID, contactID, closerID, rescheduledFrom, event)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Outcome:       OutcomeUpdated,
		AppointmentID: &appointment.ID,
		ContactID:     &appointment.ContactID,
	}
	if created {
		result.Outcome = OutcomeCreated
	}

	// Attribution is derived data; a failure here never undoes the upsert.
	changes, err := p.attribution.Recalculate(ctx, tenantID, appointment.ContactID)
	if err != nil {
		p.logger.WarnWithError(ctx, "attribution recalculation failed", err)
		return result, nil
	}
	result.AttributionChanges = len(changes)
	p.publisher.PublishAttributionChanged(ctx, tenantID, appointment.ContactID, changes)
	return result, nil
}

// resolveContact resolves the payload contact. An update of a known appointment
// may omit contact details and keeps its contact.
func (p *CRMProcessor) resolveContact(ctx context.Context, tenantID uuid.UUID, event normalize.Appointment) (*uuid.UUID, error) {
	hints := identity.ContactHints{
		Email:      event.Contact.Email,
		Phone:      event.Contact.Phone,
		Name:       event.Contact.Name,
		ExternalID: event.ContactExternalID,
	}
	if hints == (identity.ContactHints{}) {
		return nil, nil
	}
	resolution, err := p.identity.ResolveContact(ctx, tenantID, hints)
	if err != nil {
		return nil, err
	}
	return &resolution.Contact.ID, nil
}

// resolveCloser tries the CRM user id, then the email. An unknown closer is
// logged and left unassigned.
func (p *CRMProcessor) resolveCloser(ctx context.Context, tenantID uuid.UUID, event normalize.Appointment) (*uuid.UUID, error) {
	if event.CloserExternalID != "" {
		closer, err := p.identity.ResolveCloserByExternalID(ctx, tenantID, event.CloserExternalID)
		if err == nil {
			return &closer.ID, nil
		}
		if !errors.Is(err, identity.ErrCloserNotFound) {
			return nil, err
		}
	}
	if event.CloserEmail != "" {
		closer, err := p.identity.ResolveCloser(ctx, tenantID, event.CloserEmail)
		if err == nil {
			return &closer.ID, nil
		}
		if !errors.Is(err, identity.ErrCloserNotFound) {
			return nil, err
		}
	}
	if event.CloserExternalID != "" || event.CloserEmail != "" {
		p.logger.Warn(ctx, "crm closer does not match a user")
	}
	return nil, nil
}

func (p *CRMProcessor) resolveReschedule(ctx context.Context, tenantID uuid.UUID, event normalize.Appointment) (*uuid.UUID, error) {
	if event.RescheduledFromExternalID == "" || event.RescheduledFromExternalID == event.ExternalID {
		return nil, nil
	}
	previous, err := p.store.GetAppointmentByExternalID(ctx, tenantID, event.RescheduledFromExternalID)
	if errors.Is(err, store.ErrNotFound) {
		p.logger.Warn(ctx, "rescheduled-from appointment is unknown")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &previous.ID, nil
}

// upsert updates the appointment with the same external id or creates it
func (p *CRMProcessor) upsert(ctx context.Context, tenantID uuid.UUID, contactID, closerID, rescheduledFrom *uuid.UUID, event normalize.Appointment) (store.Appointment, bool, error) {
	existing, err := p.store.GetAppointmentByExternalID(ctx, tenantID, event.ExternalID)
	if err == nil {
		updated, err := p.update(ctx, existing, contactID, closerID, rescheduledFrom, event)
		return updated, false, err
	}
	if !errors.Is(err, store.ErrNotFound) {
		return store.Appointment{}, false, err
	}

	if contactID == nil {
		return store.Appointment{}, false, ErrMissingContact
	}
	if event.StartTime == nil {
		return store.Appointment{}, false, ErrMissingStartTime
	}
	status := event.Status
	if status == "" {
		status = store.AppointmentStatusScheduled
	}
	externalID := event.ExternalID

	created, err := p.store.CreateAppointment(ctx, store.CreateAppointmentParams{
		TenantID:           tenantID,
		ContactID:          *contactID,
		CloserID:           closerID,
		ScheduledAt:        *event.StartTime,
		EndAt:              event.EndTime,
		Status:             status,
		ExternalID:         &externalID,
		CalendarExternalID: optional(event.CalendarExternalID),
		RescheduledFromID:  rescheduledFrom,
	})
	if errors.Is(err, store.ErrDuplicate) {
		// A concurrent delivery created it first
		existing, err = p.store.GetAppointmentByExternalID(ctx, tenantID, event.ExternalID)
		if err != nil {
			return store.Appointment{}, false, err
		}
		updated, err := p.update(ctx, existing, contactID, closerID, rescheduledFrom, event)
		return updated, false, err
	}
	if err != nil {
		return store.Appointment{}, false, err
	}
	p.logger.Info(ctx, "appointment created from crm")
	return created, true, nil
}

func (p *CRMProcessor) update(ctx context.Context, existing store.Appointment, contactID, closerID, rescheduledFrom *uuid.UUID, event normalize.Appointment) (store.Appointment, error) {
	params := store.UpdateAppointmentParams{
		ContactID:          contactID,
		CloserID:           closerID,
		ScheduledAt:        event.StartTime,
		EndAt:              event.EndTime,
		CalendarExternalID: optional(event.CalendarExternalID),
		RescheduledFromID:  rescheduledFrom,
	}
	if event.Status != "" {
		status := event.Status
		params.Status = &status
	}
	if rescheduledFrom != nil && *rescheduledFrom == existing.ID {
		params.RescheduledFromID = nil
	}

	updated, err := p.store.UpdateAppointment(ctx, existing.TenantID, existing.ID, params)
	if err != nil {
		return store.Appointment{}, err
	}
	p.logger.Info(ctx, "appointment updated from crm")
	return updated, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
