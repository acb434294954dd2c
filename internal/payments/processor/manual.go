package processor

import (
	"context"
	"errors"

	"revenue-server/internal/commission"
	"revenue-server/internal/matching"
	"revenue-server/internal/observability"
	"revenue-server/internal/store"

	"github.com/google/uuid"
)

// ManualMatch pairs a processor payment id with an appointment
type ManualMatch struct {
	PaymentID     string    `json:"paymentId" binding:"required"`
	AppointmentID uuid.UUID `json:"appointmentId" binding:"required"`
}

// ManualMatchResult is the outcome of one pair of a bulk match
type ManualMatchResult struct {
	PaymentID     string     `json:"paymentId"`
	AppointmentID uuid.UUID  `json:"appointmentId"`
	Success       bool       `json:"success"`
	SaleID        *uuid.UUID `json:"saleId,omitempty"`
	CommissionID  *uuid.UUID `json:"commissionId,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// MatchPayments links each payment to its appointment. Pairs are processed in
// order and independently: a failing pair is reported in its result and does not
// stop the rest.
func (p *PaymentProcessor) MatchPayments(ctx context.Context, tenantID uuid.UUID, actor *uuid.UUID, pairs []ManualMatch) []ManualMatchResult {
	results := make([]ManualMatchResult, 0, len(pairs))
	for _, pair := range pairs {
		result, err := p.MatchPayment(ctx, tenantID, actor, pair)
		if err != nil {
			result = ManualMatchResult{
				PaymentID:     pair.PaymentID,
				AppointmentID: pair.AppointmentID,
				Error:         matchErrorMessage(err),
			}
		}
		results = append(results, result)
	}
	return results
}

// MatchPayment links one payment to an appointment chosen by an admin. The
// commission is computed with the manual policy and the review entry, if any,
// is resolved by the actor.
func (p *PaymentProcessor) MatchPayment(ctx context.Context, tenantID uuid.UUID, actor *uuid.UUID, pair ManualMatch) (ManualMatchResult, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "tenant_id", Value: tenantID.String()},
		observability.Field{Key: "payment_id", Value: pair.PaymentID},
		observability.Field{Key: "appointment_id", Value: pair.AppointmentID.String()},
	)

	sale, err := p.store.GetSaleByExternalID(ctx, pair.PaymentID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && sale.TenantID != tenantID) {
		return ManualMatchResult{}, ErrPaymentNotFound
	}
	if err != nil {
		return ManualMatchResult{}, err
	}

	appointment, err := p.store.GetAppointmentByID(ctx, tenantID, pair.AppointmentID)
	if errors.Is(err, store.ErrNotFound) {
		return ManualMatchResult{}, ErrAppointmentNotFound
	}
	if err != nil {
		return ManualMatchResult{}, err
	}

	linkCloser := appointment.CloserID
	if linkCloser == nil {
		linkCloser = sale.CloserID
	}
	linked, err := p.store.LinkSaleToAppointment(ctx, store.LinkSaleParams{
		TenantID:      tenantID,
		SaleID:        sale.ID,
		AppointmentID: appointment.ID,
		CloserID:      linkCloser,
		MatchedBy:     store.MatchedByManual,
		Confidence:    matching.ConfidenceCertain,
		Manual:        true,
		ResolvedBy:    actor,
	})
	switch {
	case errors.Is(err, store.ErrConflict):
		return ManualMatchResult{}, ErrAlreadyMatched
	case errors.Is(err, store.ErrNotFound):
		return ManualMatchResult{}, ErrAppointmentNotFound
	case err != nil:
		return ManualMatchResult{}, err
	}
	p.logger.Info(ctx, "payment matched manually")

	result := ManualMatchResult{
		PaymentID:     pair.PaymentID,
		AppointmentID: appointment.ID,
		Success:       true,
		SaleID:        &linked.ID,
	}

	earned, err := p.computeCommission(ctx, linked, &appointment, sale.CloserID, commission.PolicyManual)
	if err != nil {
		return ManualMatchResult{}, err
	}
	if earned != nil {
		result.CommissionID = &earned.ID
	}
	p.publisher.PublishSaleMatched(ctx, linked)
	return result, nil
}

func matchErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrPaymentNotFound), errors.Is(err, ErrAppointmentNotFound), errors.Is(err, ErrAlreadyMatched):
		return err.Error()
	}
	return "internal error"
}

// ListUnmatchedPayments returns the review queue of a tenant, newest first.
// An empty status lists pending entries.
func (p *PaymentProcessor) ListUnmatchedPayments(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]store.UnmatchedPaymentWithSale, error) {
	if status == "" {
		status = store.UnmatchedPaymentStatusPending
	}
	if status != store.UnmatchedPaymentStatusPending && status != store.UnmatchedPaymentStatusMatched {
		return nil, ErrInvalidStatus
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return p.store.ListUnmatchedPayments(ctx, tenantID, status, limit, offset)
}
