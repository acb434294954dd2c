package matching

import (
	"context"
	"errors"
	"strings"

	"revenue-server/internal/store"

	"github.com/google/uuid"
)

// ExplicitHint matches the appointment the payment names directly
type ExplicitHint struct {
	store MatchStore
}

func (ExplicitHint) Name() string { return store.MatchedByExplicitHint }

func (s ExplicitHint) AttemptMatch(ctx context.Context, tenantID uuid.UUID, input MatchInput) (MatchResult, bool, error) {
	hint := strings.TrimSpace(input.AppointmentHint)
	if hint == "" {
		return MatchResult{}, false, nil
	}

	var (
		appointment store.Appointment
		err         error
	)
	if id, parseErr := uuid.Parse(hint); parseErr == nil {
		appointment, err = s.store.GetAppointmentByID(ctx, tenantID, id)
		if errors.Is(err, store.ErrNotFound) {
			appointment, err = s.store.GetAppointmentByExternalID(ctx, tenantID, hint)
		}
	} else {
		appointment, err = s.store.GetAppointmentByExternalID(ctx, tenantID, hint)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return MatchResult{}, false, nil
		}
		return MatchResult{}, false, err
	}

	return MatchResult{
		Appointment: appointment,
		Confidence:  ConfidenceCertain,
		Strategy:    store.MatchedByExplicitHint,
	}, true, nil
}

// CloserContact prefers the contact's most recent appointment with the
// resolved closer and falls back to the contact's most recent appointment.
// Appointments another sale already paid for are skipped.
type CloserContact struct {
	store MatchStore
}

func (CloserContact) Name() string { return store.MatchedByCloserContact }

func (s CloserContact) AttemptMatch(ctx context.Context, tenantID uuid.UUID, input MatchInput) (MatchResult, bool, error) {
	if input.ContactID == nil || input.CloserID == nil {
		return MatchResult{}, false, nil
	}

	candidates, err := recentCandidates(ctx, s.store, tenantID, *input.ContactID)
	if err != nil {
		return MatchResult{}, false, err
	}
	candidates = unpaid(candidates)
	if len(candidates) == 0 {
		return MatchResult{}, false, nil
	}

	for _, appointment := range candidates {
		if appointment.CloserID != nil && *appointment.CloserID == *input.CloserID {
			return MatchResult{
				Appointment: appointment,
				Confidence:  ConfidenceCertain,
				Strategy:    store.MatchedByCloserContact,
			}, true, nil
		}
	}

	return MatchResult{
		Appointment: candidates[0],
		Confidence:  ConfidenceContact,
		Strategy:    store.MatchedByCloserContact,
	}, true, nil
}

// ContactOnly takes the contact's most recent unpaid appointment when no closer is known
type ContactOnly struct {
	store MatchStore
}

func (ContactOnly) Name() string { return store.MatchedByContactOnly }

func (s ContactOnly) AttemptMatch(ctx context.Context, tenantID uuid.UUID, input MatchInput) (MatchResult, bool, error) {
	if input.ContactID == nil || input.CloserID != nil {
		return MatchResult{}, false, nil
	}

	candidates, err := recentCandidates(ctx, s.store, tenantID, *input.ContactID)
	if err != nil {
		return MatchResult{}, false, err
	}
	candidates = unpaid(candidates)
	if len(candidates) == 0 {
		return MatchResult{}, false, nil
	}

	return MatchResult{
		Appointment: candidates[0],
		Confidence:  ConfidenceContactOnly,
		Strategy:    store.MatchedByContactOnly,
	}, true, nil
}
