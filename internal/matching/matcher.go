package matching

import (
	"context"
	"fmt"

	"revenue-server/internal/observability"
	"revenue-server/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MatchStore defines the database operations required by the Matcher. All of
// them are reads; persisting a match is the caller's job.
type MatchStore interface {
	GetAppointmentByID(ctx context.Context, tenantID, appointmentID uuid.UUID) (store.Appointment, error)
	GetAppointmentByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (store.Appointment, error)
	ListRecentAppointmentsByContact(ctx context.Context, tenantID, contactID uuid.UUID, limit int) ([]store.Appointment, error)
}

// MaxCandidates bounds how many recent appointments a contact lookup considers
const MaxCandidates = 10

// Fixed confidences per strategy outcome
var (
	ConfidenceCertain     = decimal.NewFromInt(1)
	ConfidenceContact     = decimal.RequireFromString("0.6")
	ConfidenceContactOnly = decimal.RequireFromString("0.5")
)

// MatchInput is what the matcher knows about a payment
type MatchInput struct {
	SaleStatus string
	ContactID  *uuid.UUID
	// CloserID is the closer resolved from the payment, nil when none was.
	CloserID *uuid.UUID
	// AppointmentHint is an internal appointment id or a CRM appointment id.
	AppointmentHint string
}

// MatchResult is a successful match
type MatchResult struct {
	Appointment store.Appointment
	Confidence  decimal.Decimal
	Strategy    string
}

// Strategy is one step of the matching cascade
type Strategy interface {
	Name() string
	AttemptMatch(ctx context.Context, tenantID uuid.UUID, input MatchInput) (MatchResult, bool, error)
}

// Matcher runs strategies in order and stops at the first that matches
type Matcher struct {
	strategies []Strategy
	store      MatchStore
	logger     *observability.Logger
}

// New returns a Matcher with the default cascade:
// explicit hint, closer plus contact, contact only.
func New(store MatchStore, logger *observability.Logger) Matcher {
	return NewWithStrategies(store, logger,
		ExplicitHint{store: store},
		CloserContact{store: store},
		ContactOnly{store: store},
	)
}

// NewWithStrategies returns a Matcher running the given strategies in order
func NewWithStrategies(store MatchStore, logger *observability.Logger, strategies ...Strategy) Matcher {
	return Matcher{
		strategies: strategies,
		store:      store,
		logger:     logger,
	}
}

// Match returns the first strategy result. Refunded payments never match.
func (m *Matcher) Match(ctx context.Context, tenantID uuid.UUID, input MatchInput) (MatchResult, bool, error) {
	if input.SaleStatus == store.SaleStatusRefunded {
		return MatchResult{}, false, nil
	}

	for _, strategy := range m.strategies {
		result, ok, err := strategy.AttemptMatch(ctx, tenantID, input)
		if err != nil {
			ctx = observability.WithFields(ctx, observability.Field{Key: "strategy", Value: strategy.Name()})
			m.logger.Error(ctx, "match strategy failed", err)
			return MatchResult{}, false, fmt.Errorf("match strategy %s: %w", strategy.Name(), err)
		}
		if ok {
			return result, true, nil
		}
	}
	return MatchResult{}, false, nil
}

// Suggest returns up to limit candidate appointment ids for manual review,
// most recently scheduled first
func (m *Matcher) Suggest(ctx context.Context, tenantID, contactID uuid.UUID, limit int) ([]uuid.UUID, error) {
	if limit <= 0 || limit > MaxCandidates {
		limit = MaxCandidates
	}
	candidates, err := recentCandidates(ctx, m.store, tenantID, contactID)
	if err != nil {
		m.logger.Error(ctx, "failed to list suggestion candidates", err)
		return nil, err
	}

	ids := make([]uuid.UUID, 0, limit)
	for _, appointment := range candidates {
		if len(ids) == limit {
			break
		}
		ids = append(ids, appointment.ID)
	}
	return ids, nil
}

// recentCandidates lists the contact's recent appointments that a payment could
// belong to. Cancelled calls are never billed.
func recentCandidates(ctx context.Context, s MatchStore, tenantID, contactID uuid.UUID) ([]store.Appointment, error) {
	appointments, err := s.ListRecentAppointmentsByContact(ctx, tenantID, contactID, MaxCandidates)
	if err != nil {
		return nil, err
	}
	eligible := appointments[:0]
	for _, appointment := range appointments {
		if appointment.Status != store.AppointmentStatusCancelled {
			eligible = append(eligible, appointment)
		}
	}
	return eligible, nil
}

// unpaid drops appointments that already carry a sale. A second payment for the
// same call goes to review instead of earning a second commission.
func unpaid(appointments []store.Appointment) []store.Appointment {
	out := make([]store.Appointment, 0, len(appointments))
	for _, appointment := range appointments {
		if appointment.SaleID == nil {
			out = append(out, appointment)
		}
	}
	return out
}
