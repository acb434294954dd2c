package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const sqlGetTenantByID = `
SELECT id, name, crm_location_id, fallback_commission_rate, created_at
FROM tenants
WHERE id = $1
`

// GetTenantByID retrieves a tenant by ID
func (s *Store) GetTenantByID(ctx context.Context, tenantID uuid.UUID) (Tenant, error) {
	var tenant Tenant
	err := s.db.GetContext(ctx, &tenant, sqlGetTenantByID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tenant{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get tenant", err)
		return Tenant{}, fmt.Errorf("failed to get tenant: %w", err)
	}
	return tenant, nil
}

const sqlGetTenantByLocationID = `
SELECT id, name, crm_location_id, fallback_commission_rate, created_at
FROM tenants
WHERE crm_location_id = $1
`

// GetTenantByLocationID retrieves the tenant that owns a CRM location
func (s *Store) GetTenantByLocationID(ctx context.Context, locationID string) (Tenant, error) {
	var tenant Tenant
	err := s.db.GetContext(ctx, &tenant, sqlGetTenantByLocationID, locationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tenant{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get tenant by location", err)
		return Tenant{}, fmt.Errorf("failed to get tenant by location: %w", err)
	}
	return tenant, nil
}

const sqlGetTenantIDsByUserEmail = `
SELECT DISTINCT tenant_id
FROM users
WHERE lower(email) = lower($1)
`

// GetTenantIDsByUserEmail returns every tenant that has a user with the given email
func (s *Store) GetTenantIDsByUserEmail(ctx context.Context, email string) ([]uuid.UUID, error) {
	var tenantIDs []uuid.UUID
	err := s.db.SelectContext(ctx, &tenantIDs, sqlGetTenantIDsByUserEmail, email)
	if err != nil {
		s.logger.Error(ctx, "failed to get tenants by user email", err)
		return nil, fmt.Errorf("failed to get tenants by user email: %w", err)
	}
	return tenantIDs, nil
}
