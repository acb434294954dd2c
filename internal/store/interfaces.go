package store

import (
	"context"

	"github.com/google/uuid"
)

// Storer defines all public methods available on the Store
type Storer interface {
	// Tenant operations
	GetTenantByID(ctx context.Context, tenantID uuid.UUID) (Tenant, error)
	GetTenantByLocationID(ctx context.Context, locationID string) (Tenant, error)
	GetTenantIDsByUserEmail(ctx context.Context, email string) ([]uuid.UUID, error)

	// User and commission role operations
	GetUserByID(ctx context.Context, tenantID, userID uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, tenantID uuid.UUID, email string) (User, error)
	GetUserByCRMID(ctx context.Context, tenantID uuid.UUID, crmUserID string) (User, error)
	GetCommissionRoleByID(ctx context.Context, tenantID, roleID uuid.UUID) (CommissionRole, error)

	// Webhook event ledger operations
	CreateWebhookEvent(ctx context.Context, params CreateWebhookEventParams) (WebhookEvent, error)
	MarkWebhookEventProcessed(ctx context.Context, eventID uuid.UUID, tenantID *uuid.UUID) error
	MarkWebhookEventFailed(ctx context.Context, eventID uuid.UUID, tenantID *uuid.UUID, errorMessage string) error
	ListWebhookEvents(ctx context.Context, params ListWebhookEventsParams) ([]WebhookEvent, error)

	// Contact operations
	CreateContact(ctx context.Context, params CreateContactParams) (Contact, error)
	GetContactByID(ctx context.Context, tenantID, contactID uuid.UUID) (Contact, error)
	GetContactByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (Contact, error)
	GetContactByEmail(ctx context.Context, tenantID uuid.UUID, email string) (Contact, error)
	GetContactByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (Contact, error)
	EnrichContact(ctx context.Context, contactID uuid.UUID, params EnrichContactParams) (Contact, error)

	// Appointment operations
	CreateAppointment(ctx context.Context, params CreateAppointmentParams) (Appointment, error)
	UpdateAppointment(ctx context.Context, tenantID, appointmentID uuid.UUID, params UpdateAppointmentParams) (Appointment, error)
	GetAppointmentByID(ctx context.Context, tenantID, appointmentID uuid.UUID) (Appointment, error)
	GetAppointmentByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (Appointment, error)
	ListRecentAppointmentsByContact(ctx context.Context, tenantID, contactID uuid.UUID, limit int) ([]Appointment, error)
	ListAppointmentsByContact(ctx context.Context, tenantID, contactID uuid.UUID) ([]Appointment, error)
	SetAppointmentInclusionFlag(ctx context.Context, tenantID, appointmentID uuid.UUID, flag *bool) error
	ListContactIDsWithAppointments(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error)

	// Sale operations
	CreateSale(ctx context.Context, params CreateSaleParams) (Sale, error)
	GetSaleByExternalID(ctx context.Context, externalID string) (Sale, error)
	GetSaleByID(ctx context.Context, tenantID, saleID uuid.UUID) (Sale, error)
	UpdateSaleStatus(ctx context.Context, saleID uuid.UUID, status string) (Sale, error)
	LinkSaleToAppointment(ctx context.Context, params LinkSaleParams) (Sale, error)

	// Unmatched payment operations
	CreateUnmatchedPayment(ctx context.Context, tenantID, saleID uuid.UUID, suggestions []uuid.UUID) (UnmatchedPayment, error)
	GetUnmatchedPaymentBySaleID(ctx context.Context, saleID uuid.UUID) (UnmatchedPayment, error)
	UpdateUnmatchedPaymentSuggestions(ctx context.Context, saleID uuid.UUID, suggestions []uuid.UUID) (UnmatchedPayment, error)
	ListUnmatchedPayments(ctx context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]UnmatchedPaymentWithSale, error)

	// Commission operations
	CreateCommission(ctx context.Context, params CreateCommissionParams) (Commission, error)
	GetCommissionBySaleID(ctx context.Context, saleID uuid.UUID) (Commission, error)
	GetCommissionByID(ctx context.Context, tenantID, commissionID uuid.UUID) (Commission, error)
	UpdateCommissionRelease(ctx context.Context, tenantID, commissionID uuid.UUID, params UpdateCommissionReleaseParams) (Commission, error)
	UpdateCommissionOverride(ctx context.Context, tenantID, commissionID uuid.UUID, params UpdateCommissionOverrideParams) (Commission, error)
}

var _ Storer = (*Store)(nil)
