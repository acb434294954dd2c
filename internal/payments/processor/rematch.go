package processor

import (
	"context"
	"errors"

	"revenue-server/internal/matching"
	"revenue-server/internal/observability"
	"revenue-server/internal/store"

	"github.com/google/uuid"
)

// RematchPayment runs the matching cascade again for a sale that is waiting in
// the review queue, for example once the CRM delivered its appointment. A match
// is applied with the automatic policy. Without one the review entry gets fresh
// suggestions. A sale that is already matched is answered with its match.
func (p *PaymentProcessor) RematchPayment(ctx context.Context, tenantID, saleID uuid.UUID) (PaymentResult, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "tenant_id", Value: tenantID.String()},
		observability.Field{Key: "sale_id", Value: saleID.String()},
	)

	sale, err := p.store.GetSaleByID(ctx, tenantID, saleID)
	if errors.Is(err, store.ErrNotFound) {
		return PaymentResult{}, ErrPaymentNotFound
	}
	if err != nil {
		return PaymentResult{}, err
	}
	if sale.IsMatched() {
		return matchedResult(OutcomeMatched, sale), nil
	}

	match, ok, err := p.matcher.Match(ctx, tenantID, matching.MatchInput{
		SaleStatus: sale.Status,
		ContactID:  sale.ContactID,
		CloserID:   sale.CloserID,
	})
	if err != nil {
		return PaymentResult{}, err
	}
	if ok {
		result, err := p.applyMatch(ctx, sale, match, sale.CloserID)
		if errors.Is(err, store.ErrConflict) {
			// a concurrent match won; report what it stored
			current, getErr := p.store.GetSaleByID(ctx, tenantID, saleID)
			if getErr != nil {
				return PaymentResult{}, getErr
			}
			return matchedResult(OutcomeMatched, current), nil
		}
		return result, err
	}

	return p.refreshSuggestions(ctx, sale)
}

// refreshSuggestions recomputes the candidates of a sale left in review
func (p *PaymentProcessor) refreshSuggestions(ctx context.Context, sale store.Sale) (PaymentResult, error) {
	if _, err := p.store.GetUnmatchedPaymentBySaleID(ctx, sale.ID); errors.Is(err, store.ErrNotFound) {
		return p.queueForReview(ctx, sale)
	} else if err != nil {
		return PaymentResult{}, err
	}

	var suggestions []uuid.UUID
	if sale.ContactID != nil {
		var err error
		suggestions, err = p.matcher.Suggest(ctx, sale.TenantID, *sale.ContactID, maxSuggestions)
		if err != nil {
			return PaymentResult{}, err
		}
	}

	entry, err := p.store.UpdateUnmatchedPaymentSuggestions(ctx, sale.ID, suggestions)
	if err != nil {
		return PaymentResult{}, err
	}
	p.logger.Info(ctx, "payment still unmatched, suggestions refreshed")

	return PaymentResult{
		Outcome:     OutcomeUnmatched,
		SaleID:      &sale.ID,
		UnmatchedID: &entry.ID,
		Suggestions: entry.SuggestedAppointmentIDs,
	}, nil
}
