package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const saleColumns = `id, tenant_id, external_id, processor, amount, currency, status, contact_id, appointment_id, closer_id, matched_by, match_confidence, manually_matched, paid_at, metadata, created_at, updated_at`

// CreateSaleParams represents parameters for creating a sale
type CreateSaleParams struct {
	TenantID   uuid.UUID
	ExternalID string
	Processor  string
	Amount     decimal.Decimal
	Currency   string
	Status     string
	ContactID  *uuid.UUID
	CloserID   *uuid.UUID
	PaidAt     *time.Time
	Metadata   JSONB
}

var sqlCreateSale = `
INSERT INTO sales (tenant_id, external_id, processor, amount, currency, status, contact_id, closer_id, paid_at, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + saleColumns

// CreateSale inserts a sale. A second insert for the same external id returns ErrDuplicate.
func (s *Store) CreateSale(ctx context.Context, params CreateSaleParams) (Sale, error) {
	var sale Sale
	err := s.db.GetContext(ctx, &sale, sqlCreateSale,
		params.TenantID,
		params.ExternalID,
		params.Processor,
		params.Amount,
		params.Currency,
		params.Status,
		params.ContactID,
		params.CloserID,
		params.PaidAt,
		params.Metadata)
	if err != nil {
		if isUniqueViolation(err) {
			return Sale{}, ErrDuplicate
		}
		s.logger.Error(ctx, "failed to create sale", err)
		return Sale{}, fmt.Errorf("failed to create sale: %w", err)
	}
	return sale, nil
}

var sqlGetSaleByExternalID = `
SELECT ` + saleColumns + `
FROM sales
WHERE external_id = $1
`

// GetSaleByExternalID retrieves a sale by its processor payment id
func (s *Store) GetSaleByExternalID(ctx context.Context, externalID string) (Sale, error) {
	var sale Sale
	err := s.db.GetContext(ctx, &sale, sqlGetSaleByExternalID, externalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Sale{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get sale", err)
		return Sale{}, fmt.Errorf("failed to get sale: %w", err)
	}
	return sale, nil
}

var sqlGetSaleByID = `
SELECT ` + saleColumns + `
FROM sales
WHERE tenant_id = $1 AND id = $2
`

// GetSaleByID retrieves a sale of a tenant
func (s *Store) GetSaleByID(ctx context.Context, tenantID, saleID uuid.UUID) (Sale, error) {
	var sale Sale
	err := s.db.GetContext(ctx, &sale, sqlGetSaleByID, tenantID, saleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Sale{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get sale", err)
		return Sale{}, fmt.Errorf("failed to get sale: %w", err)
	}
	return sale, nil
}

var sqlUpdateSaleStatus = `
UPDATE sales
SET status = $2,
    updated_at = CURRENT_TIMESTAMP
WHERE id = $1
RETURNING ` + saleColumns

// UpdateSaleStatus changes the payment status of a sale
func (s *Store) UpdateSaleStatus(ctx context.Context, saleID uuid.UUID, status string) (Sale, error) {
	var sale Sale
	err := s.db.GetContext(ctx, &sale, sqlUpdateSaleStatus, saleID, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Sale{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update sale status", err)
		return Sale{}, fmt.Errorf("failed to update sale status: %w", err)
	}
	return sale, nil
}

// LinkSaleParams describes how a sale was matched to an appointment
type LinkSaleParams struct {
	TenantID      uuid.UUID
	SaleID        uuid.UUID
	AppointmentID uuid.UUID
	CloserID      *uuid.UUID
	MatchedBy     string
	Confidence    decimal.Decimal
	Manual        bool
	ResolvedBy    *uuid.UUID
}

var sqlLinkSale = `
UPDATE sales
SET appointment_id = $3,
    closer_id = COALESCE($4, closer_id),
    matched_by = $5,
    match_confidence = $6,
    manually_matched = $7,
    updated_at = CURRENT_TIMESTAMP
WHERE tenant_id = $1 AND id = $2 AND (appointment_id IS NULL OR appointment_id = $3)
RETURNING ` + saleColumns

// the first sale to pay for an appointment keeps the back-reference
const sqlLinkAppointmentSale = `
UPDATE appointments
SET sale_id = COALESCE(sale_id, $3),
    updated_at = CURRENT_TIMESTAMP
WHERE tenant_id = $1 AND id = $2
`

const sqlResolveUnmatchedPayment = `
UPDATE unmatched_payments
SET status = 'matched',
    resolved_by = $2,
    resolved_at = CURRENT_TIMESTAMP
WHERE sale_id = $1 AND status = 'pending'
`

// LinkSaleToAppointment records the match on the sale, back-references it from the
// appointment and resolves any pending review entry, all in one transaction.
// Returns ErrConflict when the sale is already linked to a different appointment.
func (s *Store) LinkSaleToAppointment(ctx context.Context, params LinkSaleParams) (Sale, error) {
	var sale Sale
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &sale, sqlLinkSale,
			params.TenantID,
			params.SaleID,
			params.AppointmentID,
			params.CloserID,
			params.MatchedBy,
			params.Confidence,
			params.Manual)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrConflict
			}
			return fmt.Errorf("failed to link sale: %w", err)
		}

		res, err := tx.ExecContext(ctx, sqlLinkAppointmentSale, params.TenantID, params.AppointmentID, params.SaleID)
		if err != nil {
			return fmt.Errorf("failed to link appointment: %w", err)
		}
		if err := requireRowAffected(res); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, sqlResolveUnmatchedPayment, params.SaleID, params.ResolvedBy); err != nil {
			return fmt.Errorf("failed to resolve unmatched payment: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrConflict) && !errors.Is(err, ErrNotFound) {
			s.logger.Error(ctx, "failed to link sale to appointment", err)
		}
		return Sale{}, err
	}
	return sale, nil
}
