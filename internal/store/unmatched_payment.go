package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const unmatchedPaymentColumns = `id, sale_id, tenant_id, suggested_appointment_ids, status, resolved_by, resolved_at, created_at`

var sqlCreateUnmatchedPayment = `
INSERT INTO unmatched_payments (sale_id, tenant_id, suggested_appointment_ids)
VALUES ($1, $2, $3)
ON CONFLICT (sale_id) DO NOTHING
RETURNING ` + unmatchedPaymentColumns

// CreateUnmatchedPayment queues a sale for review. Queuing the same sale twice
// returns the existing entry.
func (s *Store) CreateUnmatchedPayment(ctx context.Context, tenantID, saleID uuid.UUID, suggestions []uuid.UUID) (UnmatchedPayment, error) {
	var payment UnmatchedPayment
	err := s.db.GetContext(ctx, &payment, sqlCreateUnmatchedPayment, saleID, tenantID, UUIDArray(suggestions))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.GetUnmatchedPaymentBySaleID(ctx, saleID)
		}
		s.logger.Error(ctx, "failed to create unmatched payment", err)
		return UnmatchedPayment{}, fmt.Errorf("failed to create unmatched payment: %w", err)
	}
	return payment, nil
}

var sqlGetUnmatchedPaymentBySaleID = `
SELECT ` + unmatchedPaymentColumns + `
FROM unmatched_payments
WHERE sale_id = $1
`

// GetUnmatchedPaymentBySaleID retrieves the review entry of a sale
func (s *Store) GetUnmatchedPaymentBySaleID(ctx context.Context, saleID uuid.UUID) (UnmatchedPayment, error) {
	var payment UnmatchedPayment
	err := s.db.GetContext(ctx, &payment, sqlGetUnmatchedPaymentBySaleID, saleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UnmatchedPayment{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get unmatched payment", err)
		return UnmatchedPayment{}, fmt.Errorf("failed to get unmatched payment: %w", err)
	}
	return payment, nil
}

var sqlUpdateUnmatchedPaymentSuggestions = `
UPDATE unmatched_payments
SET suggested_appointment_ids = $2
WHERE sale_id = $1 AND status = 'pending'
RETURNING ` + unmatchedPaymentColumns

// UpdateUnmatchedPaymentSuggestions replaces the candidates of a pending review
// entry. Returns ErrNotFound when the sale has no pending entry.
func (s *Store) UpdateUnmatchedPaymentSuggestions(ctx context.Context, saleID uuid.UUID, suggestions []uuid.UUID) (UnmatchedPayment, error) {
	var payment UnmatchedPayment
	err := s.db.GetContext(ctx, &payment, sqlUpdateUnmatchedPaymentSuggestions, saleID, UUIDArray(suggestions))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UnmatchedPayment{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update unmatched payment suggestions", err)
		return UnmatchedPayment{}, fmt.Errorf("failed to update unmatched payment suggestions: %w", err)
	}
	return payment, nil
}

const sqlListUnmatchedPayments = `
SELECT up.id, up.sale_id, up.tenant_id, up.suggested_appointment_ids, up.status, up.resolved_by, up.resolved_at, up.created_at,
       s.external_id, s.amount, s.currency, s.contact_id, c.email AS contact_email
FROM unmatched_payments up
JOIN sales s ON s.id = up.sale_id
LEFT JOIN contacts c ON c.id = s.contact_id
WHERE up.tenant_id = $1 AND up.status = $2
ORDER BY up.created_at DESC
LIMIT $3 OFFSET $4
`

// ListUnmatchedPayments returns the review queue of a tenant
func (s *Store) ListUnmatchedPayments(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]UnmatchedPaymentWithSale, error) {
	payments := []UnmatchedPaymentWithSale{}
	err := s.db.SelectContext(ctx, &payments, sqlListUnmatchedPayments, tenantID, status, limit, offset)
	if err != nil {
		s.logger.Error(ctx, "failed to list unmatched payments", err)
		return nil, fmt.Errorf("failed to list unmatched payments: %w", err)
	}
	return payments, nil
}
