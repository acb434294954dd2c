package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const userColumns = `id, tenant_id, email, name, crm_user_id, commission_role_id, custom_commission_rate, is_admin, created_at`

var sqlGetUserByID = `
SELECT ` + userColumns + `
FROM users
WHERE tenant_id = $1 AND id = $2
`

// GetUserByID retrieves a user within a tenant
func (s *Store) GetUserByID(ctx context.Context, tenantID, userID uuid.UUID) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, sqlGetUserByID, tenantID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get user", err)
		return User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

var sqlGetUserByEmail = `
SELECT ` + userColumns + `
FROM users
WHERE tenant_id = $1 AND lower(email) = lower($2)
`

// GetUserByEmail retrieves a user by case-insensitive email within a tenant
func (s *Store) GetUserByEmail(ctx context.Context, tenantID uuid.UUID, email string) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, sqlGetUserByEmail, tenantID, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get user by email", err)
		return User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

var sqlGetUserByCRMID = `
SELECT ` + userColumns + `
FROM users
WHERE tenant_id = $1 AND crm_user_id = $2
`

// GetUserByCRMID retrieves a user by their CRM user id within a tenant
func (s *Store) GetUserByCRMID(ctx context.Context, tenantID uuid.UUID, crmUserID string) (User, error) {
	var user User
	err := s.db.GetContext(ctx, &user, sqlGetUserByCRMID, tenantID, crmUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get user by crm id", err)
		return User{}, fmt.Errorf("failed to get user by crm id: %w", err)
	}
	return user, nil
}

const sqlGetCommissionRoleByID = `
SELECT id, tenant_id, name, default_rate
FROM commission_roles
WHERE tenant_id = $1 AND id = $2
`

// GetCommissionRoleByID retrieves a commission role within a tenant
func (s *Store) GetCommissionRoleByID(ctx context.Context, tenantID, roleID uuid.UUID) (CommissionRole, error) {
	var role CommissionRole
	err := s.db.GetContext(ctx, &role, sqlGetCommissionRoleByID, tenantID, roleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CommissionRole{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get commission role", err)
		return CommissionRole{}, fmt.Errorf("failed to get commission role: %w", err)
	}
	return role, nil
}
