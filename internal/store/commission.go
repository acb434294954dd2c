package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const commissionColumns = `id, sale_id, tenant_id, closer_id, gross_amount, rate, total_amount, released_amount, release_status, override_amount, override_reason, overridden_by, created_at, updated_at`

// CreateCommissionParams represents parameters for creating a commission
type CreateCommissionParams struct {
	SaleID         uuid.UUID
	TenantID       uuid.UUID
	CloserID       uuid.UUID
	GrossAmount    decimal.Decimal
	Rate           decimal.Decimal
	TotalAmount    decimal.Decimal
	ReleasedAmount decimal.Decimal
	ReleaseStatus  string
}

var sqlCreateCommission = `
INSERT INTO commissions (sale_id, tenant_id, closer_id, gross_amount, rate, total_amount, released_amount, release_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + commissionColumns

// CreateCommission inserts a commission. A second commission for the same sale returns ErrDuplicate.
func (s *Store) CreateCommission(ctx context.Context, params CreateCommissionParams) (Commission, error) {
	var commission Commission
	err := s.db.GetContext(ctx, &commission, sqlCreateCommission,
		params.SaleID,
		params.TenantID,
		params.CloserID,
		params.GrossAmount,
		params.Rate,
		params.TotalAmount,
		params.ReleasedAmount,
		params.ReleaseStatus)
	if err != nil {
		if isUniqueViolation(err) {
			return Commission{}, ErrDuplicate
		}
		s.logger.Error(ctx, "failed to create commission", err)
		return Commission{}, fmt.Errorf("failed to create commission: %w", err)
	}
	return commission, nil
}

var sqlGetCommissionBySaleID = `
SELECT ` + commissionColumns + `
FROM commissions
WHERE sale_id = $1
`

// GetCommissionBySaleID retrieves the commission of a sale
func (s *Store) GetCommissionBySaleID(ctx context.Context, saleID uuid.UUID) (Commission, error) {
	return s.getCommission(ctx, sqlGetCommissionBySaleID, saleID)
}

var sqlGetCommissionByID = `
SELECT ` + commissionColumns + `
FROM commissions
WHERE tenant_id = $1 AND id = $2
`

// GetCommissionByID retrieves a commission within a tenant
func (s *Store) GetCommissionByID(ctx context.Context, tenantID, commissionID uuid.UUID) (Commission, error) {
	return s.getCommission(ctx, sqlGetCommissionByID, tenantID, commissionID)
}

func (s *Store) getCommission(ctx context.Context, query string, args ...interface{}) (Commission, error) {
	var commission Commission
	err := s.db.GetContext(ctx, &commission, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Commission{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get commission", err)
		return Commission{}, fmt.Errorf("failed to get commission: %w", err)
	}
	return commission, nil
}

// UpdateCommissionReleaseParams moves a commission through its release lifecycle
type UpdateCommissionReleaseParams struct {
	ReleaseStatus  string
	ReleasedAmount decimal.Decimal
	// ExpectedStatus guards against concurrent transitions.
	ExpectedStatus string
}

var sqlUpdateCommissionRelease = `
UPDATE commissions
SET release_status = $3,
    released_amount = $4,
    updated_at = CURRENT_TIMESTAMP
WHERE tenant_id = $1 AND id = $2 AND release_status = $5
RETURNING ` + commissionColumns

// UpdateCommissionRelease writes a release transition. Returns ErrConflict when the
// commission is no longer in the expected status.
func (s *Store) UpdateCommissionRelease(ctx context.Context, tenantID, commissionID uuid.UUID, params UpdateCommissionReleaseParams) (Commission, error) {
	var commission Commission
	err := s.db.GetContext(ctx, &commission, sqlUpdateCommissionRelease,
		tenantID,
		commissionID,
		params.ReleaseStatus,
		params.ReleasedAmount,
		params.ExpectedStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Commission{}, ErrConflict
		}
		s.logger.Error(ctx, "failed to update commission release", err)
		return Commission{}, fmt.Errorf("failed to update commission release: %w", err)
	}
	return commission, nil
}

// UpdateCommissionOverrideParams records an admin override
type UpdateCommissionOverrideParams struct {
	Amount         decimal.Decimal
	Reason         string
	OverriddenBy   *uuid.UUID
	ReleaseStatus  string
	ExpectedStatus string
}

var sqlUpdateCommissionOverride = `
UPDATE commissions
SET override_amount = $3,
    override_reason = $4,
    overridden_by = $5,
    total_amount = $3,
    release_status = $6,
    updated_at = CURRENT_TIMESTAMP
WHERE tenant_id = $1 AND id = $2 AND release_status = $7 AND released_amount <= $3
RETURNING ` + commissionColumns

// UpdateCommissionOverride replaces the total with an admin amount. released_amount is
// never touched. Returns ErrConflict when the row changed underneath the caller.
func (s *Store) UpdateCommissionOverride(ctx context.Context, tenantID, commissionID uuid.UUID, params UpdateCommissionOverrideParams) (Commission, error) {
	var commission Commission
	err := s.db.GetContext(ctx, &commission, sqlUpdateCommissionOverride,
		tenantID,
		commissionID,
		params.Amount,
		params.Reason,
		params.OverriddenBy,
		params.ReleaseStatus,
		params.ExpectedStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Commission{}, ErrConflict
		}
		s.logger.Error(ctx, "failed to override commission", err)
		return Commission{}, fmt.Errorf("failed to override commission: %w", err)
	}
	return commission, nil
}
