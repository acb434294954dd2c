//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Fixtures provides factory functions for creating test data.
// All factory methods use testify/require to fail fast on errors.
type Fixtures struct {
	t      *testing.T
	testDB *TestDB
	ctx    context.Context
}

// NewFixtures creates a new Fixtures instance for test data generation.
func NewFixtures(t *testing.T, testDB *TestDB) *Fixtures {
	t.Helper()
	return &Fixtures{
		t:      t,
		testDB: testDB,
		ctx:    context.Background(),
	}
}

// --- Tenant Fixtures ---

// CreateTenant inserts a tenant. Tenants have no store write method so raw SQL is used.
func (f *Fixtures) CreateTenant(locationID *string) Tenant {
	f.t.Helper()
	var tenant Tenant
	query := `INSERT INTO tenants (name, crm_location_id) VALUES ($1, $2)
RETURNING id, name, crm_location_id, fallback_commission_rate, created_at`
	err := f.testDB.GetDB().GetContext(f.ctx, &tenant, query, "Acme "+uuid.NewString()[:8], locationID)
	require.NoError(f.t, err, "failed to create test tenant")
	return tenant
}

// --- User Fixtures ---

// UserOpts customizes user creation.
type UserOpts struct {
	Email      string
	CRMUserID  *string
	CustomRate *decimal.Decimal
	IsAdmin    bool
}

// CreateUser creates a closer inside the tenant.
func (f *Fixtures) CreateUser(tenantID uuid.UUID, opts ...func(*UserOpts)) User {
	f.t.Helper()
	o := UserOpts{Email: uuid.NewString()[:8] + "@closer.test"}
	for _, fn := range opts {
		fn(&o)
	}

	var rate decimal.NullDecimal
	if o.CustomRate != nil {
		rate = decimal.NewNullDecimal(*o.CustomRate)
	}

	var user User
	query := `INSERT INTO users (tenant_id, email, name, crm_user_id, custom_commission_rate, is_admin)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, tenant_id, email, name, crm_user_id, commission_role_id, custom_commission_rate, is_admin, created_at`
	err := f.testDB.GetDB().GetContext(f.ctx, &user, query, tenantID, o.Email, "Closer", o.CRMUserID, rate, o.IsAdmin)
	require.NoError(f.t, err, "failed to create test user")
	return user
}

// --- Contact Fixtures ---

// CreateContact creates a contact with the given email.
func (f *Fixtures) CreateContact(tenantID uuid.UUID, email string) Contact {
	f.t.Helper()
	contact, err := f.testDB.Store.CreateContact(f.ctx, CreateContactParams{
		TenantID: tenantID,
		Email:    &email,
	})
	require.NoError(f.t, err, "failed to create test contact")
	return contact
}

// --- Appointment Fixtures ---

// CreateAppointment creates a scheduled appointment for the contact.
func (f *Fixtures) CreateAppointment(tenantID, contactID uuid.UUID, closerID *uuid.UUID, at time.Time) Appointment {
	f.t.Helper()
	appointment, err := f.testDB.Store.CreateAppointment(f.ctx, CreateAppointmentParams{
		TenantID:    tenantID,
		ContactID:   contactID,
		CloserID:    closerID,
		ScheduledAt: at,
		Status:      AppointmentStatusScheduled,
	})
	require.NoError(f.t, err, "failed to create test appointment")
	return appointment
}

// --- Sale Fixtures ---

// CreateSale creates a paid sale for the contact.
func (f *Fixtures) CreateSale(tenantID uuid.UUID, contactID *uuid.UUID, amount string) Sale {
	f.t.Helper()
	sale, err := f.testDB.Store.CreateSale(f.ctx, CreateSaleParams{
		TenantID:   tenantID,
		ExternalID: "pay_" + uuid.NewString(),
		Processor:  "stripe",
		Amount:     decimal.RequireFromString(amount),
		Currency:   "USD",
		Status:     SaleStatusPaid,
		ContactID:  contactID,
	})
	require.NoError(f.t, err, "failed to create test sale")
	return sale
}
