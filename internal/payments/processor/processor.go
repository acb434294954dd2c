package processor

import (
	"context"
	"errors"
	"time"

	"revenue-server/internal/commission"
	"revenue-server/internal/events"
	"revenue-server/internal/identity"
	"revenue-server/internal/ledger"
	"revenue-server/internal/matching"
	"revenue-server/internal/observability"
	"revenue-server/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStore defines the database operations required by PaymentProcessor
type PaymentStore interface {
	GetSaleByExternalID(ctx context.Context, externalID string) (store.Sale, error)
	GetSaleByID(ctx context.Context, tenantID, saleID uuid.UUID) (store.Sale, error)
	CreateSale(ctx context.Context, params store.CreateSaleParams) (store.Sale, error)
	UpdateSaleStatus(ctx context.Context, saleID uuid.UUID, status string) (store.Sale, error)
	LinkSaleToAppointment(ctx context.Context, params store.LinkSaleParams) (store.Sale, error)
	GetAppointmentByID(ctx context.Context, tenantID, appointmentID uuid.UUID) (store.Appointment, error)
	CreateUnmatchedPayment(ctx context.Context, tenantID, saleID uuid.UUID, suggestions []uuid.UUID) (store.UnmatchedPayment, error)
	GetUnmatchedPaymentBySaleID(ctx context.Context, saleID uuid.UUID) (store.UnmatchedPayment, error)
	UpdateUnmatchedPaymentSuggestions(ctx context.Context, saleID uuid.UUID, suggestions []uuid.UUID) (store.UnmatchedPayment, error)
	ListUnmatchedPayments(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]store.UnmatchedPaymentWithSale, error)
}

var (
	ErrInvalidPayload       = errors.New("invalid payment payload")
	ErrInvalidAmount        = errors.New("payment amount must be greater than zero")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrAlreadyMatched       = errors.New("payment is already matched to another appointment")
	ErrRefundUnknownPayment = errors.New("refund received for an unknown payment")
)

// Outcome is the result of ingesting one payment delivery
type Outcome string

const (
	OutcomeMatched   Outcome = "matched"
	OutcomeUnmatched Outcome = "unmatched"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeRefunded  Outcome = "refunded"
	OutcomeIgnored   Outcome = "ignored"
)

const (
	defaultCurrency  = "USD"
	defaultProcessor = "generic"
	maxSuggestions   = 5
	defaultPageSize  = 50
	maxPageSize      = 200
)

// PaymentInput is a payment normalized from any processor's webhook
type PaymentInput struct {
	Processor       string
	PaymentID       string
	Amount          decimal.Decimal
	Currency        string
	Status          string
	Email           string
	Name            string
	Phone           string
	CloserEmail     string
	AppointmentHint string
	PaidAt          *time.Time
	Metadata        map[string]interface{}
	TenantID        *uuid.UUID
}

// PaymentResult describes what happened to a payment delivery
type PaymentResult struct {
	Outcome       Outcome          `json:"status"`
	EventID       uuid.UUID        `json:"eventId"`
	SaleID        *uuid.UUID       `json:"saleId,omitempty"`
	AppointmentID *uuid.UUID       `json:"appointmentId,omitempty"`
	CommissionID  *uuid.UUID       `json:"commissionId,omitempty"`
	MatchedBy     string           `json:"matchedBy,omitempty"`
	Confidence    *decimal.Decimal `json:"confidence,omitempty"`
	UnmatchedID   *uuid.UUID       `json:"unmatchedPaymentId,omitempty"`
	Suggestions   []uuid.UUID      `json:"suggestedAppointmentIds,omitempty"`
}

// PaymentProcessor ingests payment webhooks: it records each delivery, resolves
// the tenant, contact and closer, matches the sale to an appointment and
// computes the commission, or queues the sale for manual review.
type PaymentProcessor struct {
	store       PaymentStore
	ledger      ledger.Ledger
	identity    identity.Resolver
	matcher     matching.Matcher
	commissions commission.Engine
	publisher   *events.Publisher
	logger      *observability.Logger
}

func New(
	store PaymentStore,
	ledger ledger.Ledger,
	identity identity.Resolver,
	matcher matching.Matcher,
	commissions commission.Engine,
	publisher *events.Publisher,
	logger *observability.Logger,
) PaymentProcessor {
	return PaymentProcessor{
		store:       store,
		ledger:      ledger,
		identity:    identity,
		matcher:     matcher,
		commissions: commissions,
		publisher:   publisher,
		logger:      logger,
	}
}

// ingest runs one normalized payment and closes its ledger row. A refund for a
// payment that was never recorded is answered as ignored but kept as a failed
// ledger row for operators.
func (p *PaymentProcessor) ingest(ctx context.Context, eventID uuid.UUID, input PaymentInput) (PaymentResult, error) {
	result, tenantID, err := p.process(ctx, input)
	if errors.Is(err, ErrRefundUnknownPayment) {
		p.logger.Warn(ctx, "refund received for unknown payment")
		p.ledger.Complete(ctx, eventID, nil, err)
		return PaymentResult{Outcome: OutcomeIgnored, EventID: eventID}, nil
	}
	p.ledger.Complete(ctx, eventID, tenantID, err)
	if err != nil {
		return PaymentResult{}, err
	}
	result.EventID = eventID
	return result, nil
}

func (p *PaymentProcessor) process(ctx context.Context, input PaymentInput) (PaymentResult, *uuid.UUID, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "payment_id", Value: input.PaymentID},
		observability.Field{Key: "processor", Value: input.Processor},
	)

	existing, err := p.store.GetSaleByExternalID(ctx, input.PaymentID)
	if err == nil {
		if input.Status == store.SaleStatusRefunded {
			result, err := p.applyRefund(ctx, existing)
			return result, &existing.TenantID, err
		}
		result, err := p.replay(ctx, existing)
		return result, &existing.TenantID, err
	}
	if !errors.Is(err, store.ErrNotFound) {
		return PaymentResult{}, nil, err
	}
	if input.Status == store.SaleStatusRefunded {
		return PaymentResult{}, nil, ErrRefundUnknownPayment
	}
	if !input.Amount.IsPositive() {
		return PaymentResult{}, nil, ErrInvalidAmount
	}

	tenantID, err := p.identity.ResolveTenant(ctx, identity.TenantHints{
		TenantID:    input.TenantID,
		CloserEmail: input.CloserEmail,
	})
	if err != nil {
		return PaymentResult{}, nil, err
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "tenant_id", Value: tenantID.String()})

	var contactID *uuid.UUID
	if input.Email != "" || input.Phone != "" || input.Name != "" {
		resolution, err := p.identity.ResolveContact(ctx, tenantID, identity.ContactHints{
			Email: input.Email,
			Phone: input.Phone,
			Name:  input.Name,
		})
		if err != nil {
			return PaymentResult{}, &tenantID, err
		}
		contactID = &resolution.Contact.ID
	}

	closerID, err := p.resolveCloser(ctx, tenantID, input.CloserEmail)
	if err != nil {
		return PaymentResult{}, &tenantID, err
	}

	sale, err := p.store.CreateSale(ctx, store.CreateSaleParams{
		TenantID:   tenantID,
		ExternalID: input.PaymentID,
		Processor:  input.Processor,
		Amount:     input.Amount.Round(2),
		Currency:   input.Currency,
		Status:     store.SaleStatusPaid,
		ContactID:  contactID,
		CloserID:   closerID,
		PaidAt:     input.PaidAt,
		Metadata:   input.Metadata,
	})
	if errors.Is(err, store.ErrDuplicate) {
		// a concurrent delivery of the same payment won the insert
		existing, err := p.store.GetSaleByExternalID(ctx, input.PaymentID)
		if err != nil {
			return PaymentResult{}, &tenantID, err
		}
		result, err := p.replay(ctx, existing)
		return result, &tenantID, err
	}
	if err != nil {
		return PaymentResult{}, &tenantID, err
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "sale_id", Value: sale.ID.String()})

	match, ok, err := p.matcher.Match(ctx, tenantID, matching.MatchInput{
		SaleStatus:      sale.Status,
		ContactID:       contactID,
		CloserID:        closerID,
		AppointmentHint: input.AppointmentHint,
	})
	if err != nil {
		return PaymentResult{}, &tenantID, err
	}
	if !ok {
		result, err := p.queueForReview(ctx, sale)
		return result, &tenantID, err
	}

	result, err := p.applyMatch(ctx, sale, match, closerID)
	return result, &tenantID, err
}

// resolveCloser returns nil when no email was given or it names nobody in the tenant
func (p *PaymentProcessor) resolveCloser(ctx context.Context, tenantID uuid.UUID, email string) (*uuid.UUID, error) {
	if email == "" {
		return nil, nil
	}
	closer, err := p.identity.ResolveCloser(ctx, tenantID, email)
	if errors.Is(err, identity.ErrCloserNotFound) {
		p.logger.Warn(ctx, "closer email does not match a user")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &closer.ID, nil
}

func (p *PaymentProcessor) applyMatch(ctx context.Context, sale store.Sale, match matching.MatchResult, closerID *uuid.UUID) (PaymentResult, error) {
	appointment := match.Appointment
	linkCloser := appointment.CloserID
	if linkCloser == nil {
		linkCloser = closerID
	}

	linked, err := p.store.LinkSaleToAppointment(ctx, store.LinkSaleParams{
		TenantID:      sale.TenantID,
		SaleID:        sale.ID,
		AppointmentID: appointment.ID,
		CloserID:      linkCloser,
		MatchedBy:     match.Strategy,
		Confidence:    match.Confidence,
	})
	if err != nil {
		return PaymentResult{}, err
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "appointment_id", Value: appointment.ID.String()},
		observability.Field{Key: "matched_by", Value: match.Strategy},
		observability.Field{Key: "confidence", Value: match.Confidence.String()},
	)
	p.logger.Info(ctx, "payment matched to appointment")

	earned, err := p.computeCommission(ctx, linked, &appointment, closerID, commission.PolicyAuto)
	if err != nil {
		return PaymentResult{}, err
	}
	p.publisher.PublishSaleMatched(ctx, linked)

	confidence := match.Confidence
	result := PaymentResult{
		Outcome:       OutcomeMatched,
		SaleID:        &linked.ID,
		AppointmentID: &appointment.ID,
		MatchedBy:     match.Strategy,
		Confidence:    &confidence,
	}
	if earned != nil {
		result.CommissionID = &earned.ID
	}
	return result, nil
}

// computeCommission returns nil without error when the sale has no closer
func (p *PaymentProcessor) computeCommission(ctx context.Context, sale store.Sale, appointment *store.Appointment, closerID *uuid.UUID, policy commission.Policy) (*store.Commission, error) {
	params := commission.ComputeParams{
		Sale:        sale,
		Appointment: appointment,
		Policy:      policy,
	}
	if appointment == nil || appointment.CloserID == nil {
		params.CloserID = closerID
	}

	earned, created, err := p.commissions.Compute(ctx, params)
	if errors.Is(err, commission.ErrNoCloser) {
		p.logger.Info(ctx, "sale has no closer, no commission created")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if created {
		p.publisher.PublishCommissionCreated(ctx, earned)
	}
	return &earned, nil
}

func (p *PaymentProcessor) queueForReview(ctx context.Context, sale store.Sale) (PaymentResult, error) {
	var suggestions []uuid.UUID
	if sale.ContactID != nil {
		var err error
		suggestions, err = p.matcher.Suggest(ctx, sale.TenantID, *sale.ContactID, maxSuggestions)
		if err != nil {
			return PaymentResult{}, err
		}
	}

	entry, err := p.store.CreateUnmatchedPayment(ctx, sale.TenantID, sale.ID, suggestions)
	if err != nil {
		return PaymentResult{}, err
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "suggestions", Value: len(entry.SuggestedAppointmentIDs)})
	p.logger.Info(ctx, "payment queued for manual review")
	p.publisher.PublishSaleUnmatched(ctx, sale, entry.SuggestedAppointmentIDs)

	return PaymentResult{
		Outcome:     OutcomeUnmatched,
		SaleID:      &sale.ID,
		UnmatchedID: &entry.ID,
		Suggestions: entry.SuggestedAppointmentIDs,
	}, nil
}

// replay answers a redelivered payment. It completes any step an earlier
// delivery did not finish: the review queue entry of an unmatched sale or the
// commission of a matched one.
func (p *PaymentProcessor) replay(ctx context.Context, sale store.Sale) (PaymentResult, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "sale_id", Value: sale.ID.String()})
	result := matchedResult(OutcomeDuplicate, sale)

	if !sale.IsMatched() {
		entry, err := p.store.GetUnmatchedPaymentBySaleID(ctx, sale.ID)
		if errors.Is(err, store.ErrNotFound) {
			queued, err := p.queueForReview(ctx, sale)
			if err != nil {
				return PaymentResult{}, err
			}
			result.UnmatchedID = queued.UnmatchedID
			return result, nil
		}
		if err != nil {
			return PaymentResult{}, err
		}
		result.UnmatchedID = &entry.ID
		return result, nil
	}

	if sale.Status != store.SaleStatusPaid {
		return result, nil
	}

	appointment, err := p.store.GetAppointmentByID(ctx, sale.TenantID, *sale.AppointmentID)
	if err != nil {
		return PaymentResult{}, err
	}
	policy := commission.PolicyAuto
	if sale.ManuallyMatched {
		policy = commission.PolicyManual
	}
	earned, err := p.computeCommission(ctx, sale, &appointment, sale.CloserID, policy)
	if err != nil {
		return PaymentResult{}, err
	}
	if earned != nil {
		result.CommissionID = &earned.ID
	}
	return result, nil
}

// matchedResult reports the match stored on the sale so every delivery of a
// payment answers with the same match
func matchedResult(outcome Outcome, sale store.Sale) PaymentResult {
	result := PaymentResult{
		Outcome:       outcome,
		SaleID:        &sale.ID,
		AppointmentID: sale.AppointmentID,
	}
	if sale.MatchedBy != nil {
		result.MatchedBy = *sale.MatchedBy
	}
	if sale.MatchConfidence.Valid {
		confidence := sale.MatchConfidence.Decimal
		result.Confidence = &confidence
	}
	return result
}

// applyRefund marks the sale refunded. The commission is left untouched; any
// clawback is an admin decision.
func (p *PaymentProcessor) applyRefund(ctx context.Context, sale store.Sale) (PaymentResult, error) {
	if sale.Status != store.SaleStatusRefunded {
		updated, err := p.store.UpdateSaleStatus(ctx, sale.ID, store.SaleStatusRefunded)
		if err != nil {
			return PaymentResult{}, err
		}
		sale = updated
		p.logger.Info(ctx, "sale marked refunded")
		p.publisher.PublishSaleRefunded(ctx, sale)
	}

	return PaymentResult{
		Outcome:       OutcomeRefunded,
		SaleID:        &sale.ID,
		AppointmentID: sale.AppointmentID,
	}, nil
}
