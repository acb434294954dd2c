package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const appointmentColumns = `id, tenant_id, contact_id, closer_id, scheduled_at, end_at, status, external_id, calendar_external_id, sale_id, rescheduled_from_id, inclusion_flag, created_at, updated_at`

// CreateAppointmentParams represents parameters for creating an appointment
type CreateAppointmentParams struct {
	TenantID           uuid.UUID
	ContactID          uuid.UUID
	CloserID           *uuid.UUID
	ScheduledAt        time.Time
	EndAt              *time.Time
	Status             string
	ExternalID         *string
	CalendarExternalID *string
	RescheduledFromID  *uuid.UUID
}

var sqlCreateAppointment = `
INSERT INTO appointments (tenant_id, contact_id, closer_id, scheduled_at, end_at, status, external_id, calendar_external_id, rescheduled_from_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + appointmentColumns

// CreateAppointment creates a new appointment
func (s *Store) CreateAppointment(ctx context.Context, params CreateAppointmentParams) (Appointment, error) {
	var appointment Appointment
	err := s.db.GetContext(ctx, &appointment, sqlCreateAppointment,
		params.TenantID,
		params.ContactID,
		params.CloserID,
		params.ScheduledAt,
		params.EndAt,
		params.Status,
		params.ExternalID,
		params.CalendarExternalID,
		params.RescheduledFromID)
	if err != nil {
		if isUniqueViolation(err) {
			return Appointment{}, ErrDuplicate
		}
		s.logger.Error(ctx, "failed to create appointment", err)
		return Appointment{}, fmt.Errorf("failed to create appointment: %w", err)
	}
	return appointment, nil
}

// UpdateAppointmentParams holds the mutable appointment fields; nil leaves a field unchanged
type UpdateAppointmentParams struct {
	ContactID          *uuid.UUID
	CloserID           *uuid.UUID
	ScheduledAt        *time.Time
	EndAt              *time.Time
	Status             *string
	CalendarExternalID *string
	RescheduledFromID  *uuid.UUID
}

var sqlUpdateAppointment = `
UPDATE appointments
SET contact_id = COALESCE($3, contact_id),
    closer_id = COALESCE($4, closer_id),
    scheduled_at = COALESCE($5, scheduled_at),
    end_at = COALESCE($6, end_at),
    status = COALESCE($7, status),
    calendar_external_id = COALESCE($8, calendar_external_id),
    rescheduled_from_id = COALESCE($9, rescheduled_from_id),
    updated_at = CURRENT_TIMESTAMP
WHERE tenant_id = $1 AND id = $2
RETURNING ` + appointmentColumns

// UpdateAppointment updates an appointment
func (s *Store) UpdateAppointment(ctx context.Context, tenantID, appointmentID uuid.UUID, params UpdateAppointmentParams) (Appointment, error) {
	var appointment Appointment
	err := s.db.GetContext(ctx, &appointment, sqlUpdateAppointment,
		tenantID,
		appointmentID,
		params.ContactID,
		params.CloserID,
		params.ScheduledAt,
		params.EndAt,
		params.Status,
		params.CalendarExternalID,
		params.RescheduledFromID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Appointment{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update appointment", err)
		return Appointment{}, fmt.Errorf("failed to update appointment: %w", err)
	}
	return appointment, nil
}

var sqlGetAppointmentByID = `
SELECT ` + appointmentColumns + `
FROM appointments
WHERE tenant_id = $1 AND id = $2
`

// GetAppointmentByID retrieves an appointment within a tenant
func (s *Store) GetAppointmentByID(ctx context.Context, tenantID, appointmentID uuid.UUID) (Appointment, error) {
	return s.getAppointment(ctx, sqlGetAppointmentByID, tenantID, appointmentID)
}

var sqlGetAppointmentByExternalID = `
SELECT ` + appointmentColumns + `
FROM appointments
WHERE tenant_id = $1 AND external_id = $2
`

// GetAppointmentByExternalID retrieves an appointment by its CRM id within a tenant
func (s *Store) GetAppointmentByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (Appointment, error) {
	return s.getAppointment(ctx, sqlGetAppointmentByExternalID, tenantID, externalID)
}

func (s *Store) getAppointment(ctx context.Context, query string, args ...interface{}) (Appointment, error) {
	var appointment Appointment
	err := s.db.GetContext(ctx, &appointment, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Appointment{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get appointment", err)
		return Appointment{}, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appointment, nil
}

var sqlListRecentAppointmentsByContact = `
SELECT ` + appointmentColumns + `
FROM appointments
WHERE tenant_id = $1 AND contact_id = $2
ORDER BY scheduled_at DESC, created_at DESC
LIMIT $3
`

// ListRecentAppointmentsByContact returns up to limit appointments, most recently scheduled first
func (s *Store) ListRecentAppointmentsByContact(ctx context.Context, tenantID, contactID uuid.UUID, limit int) ([]Appointment, error) {
	appointments := []Appointment{}
	err := s.db.SelectContext(ctx, &appointments, sqlListRecentAppointmentsByContact, tenantID, contactID, limit)
	if err != nil {
		s.logger.Error(ctx, "failed to list recent appointments", err)
		return nil, fmt.Errorf("failed to list recent appointments: %w", err)
	}
	return appointments, nil
}

var sqlListAppointmentsByContact = `
SELECT ` + appointmentColumns + `
FROM appointments
WHERE tenant_id = $1 AND contact_id = $2
ORDER BY scheduled_at ASC, created_at ASC
`

// ListAppointmentsByContact returns every appointment for a contact in schedule order
func (s *Store) ListAppointmentsByContact(ctx context.Context, tenantID, contactID uuid.UUID) ([]Appointment, error) {
	appointments := []Appointment{}
	err := s.db.SelectContext(ctx, &appointments, sqlListAppointmentsByContact, tenantID, contactID)
	if err != nil {
		s.logger.Error(ctx, "failed to list appointments by contact", err)
		return nil, fmt.Errorf("failed to list appointments by contact: %w", err)
	}
	return appointments, nil
}

const sqlSetAppointmentInclusionFlag = `
UPDATE appointments
SET inclusion_flag = $3,
    updated_at = CURRENT_TIMESTAMP
WHERE tenant_id = $1 AND id = $2
`

// SetAppointmentInclusionFlag writes the attribution flag of an appointment
func (s *Store) SetAppointmentInclusionFlag(ctx context.Context, tenantID, appointmentID uuid.UUID, flag *bool) error {
	res, err := s.db.ExecContext(ctx, sqlSetAppointmentInclusionFlag, tenantID, appointmentID, flag)
	if err != nil {
		s.logger.Error(ctx, "failed to set inclusion flag", err)
		return fmt.Errorf("failed to set inclusion flag: %w", err)
	}
	return requireRowAffected(res)
}

const sqlListContactIDsWithAppointments = `
SELECT DISTINCT contact_id
FROM appointments
WHERE tenant_id = $1
`

// ListContactIDsWithAppointments returns the contacts of a tenant that have at least one appointment
func (s *Store) ListContactIDsWithAppointments(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error) {
	var contactIDs []uuid.UUID
	err := s.db.SelectContext(ctx, &contactIDs, sqlListContactIDsWithAppointments, tenantID)
	if err != nil {
		s.logger.Error(ctx, "failed to list contacts with appointments", err)
		return nil, fmt.Errorf("failed to list contacts with appointments: %w", err)
	}
	return contactIDs, nil
}
