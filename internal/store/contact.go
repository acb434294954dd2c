package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const contactColumns = `id, tenant_id, name, email, phone, external_id, created_at, updated_at`

// CreateContactParams represents parameters for creating a contact
type CreateContactParams struct {
	TenantID   uuid.UUID
	Name       *string
	Email      *string
	Phone      *string
	ExternalID *string
}

var sqlCreateContact = `
INSERT INTO contacts (tenant_id, name, email, phone, external_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + contactColumns

// CreateContact creates a new contact
func (s *Store) CreateContact(ctx context.Context, params CreateContactParams) (Contact, error) {
	var contact Contact
	err := s.db.GetContext(ctx, &contact, sqlCreateContact,
		params.TenantID,
		params.Name,
		params.Email,
		params.Phone,
		params.ExternalID)
	if err != nil {
		if isUniqueViolation(err) {
			return Contact{}, ErrDuplicate
		}
		s.logger.Error(ctx, "failed to create contact", err)
		return Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

var sqlGetContactByID = `
SELECT ` + contactColumns + `
FROM contacts
WHERE tenant_id = $1 AND id = $2
`

// GetContactByID retrieves a contact within a tenant
func (s *Store) GetContactByID(ctx context.Context, tenantID, contactID uuid.UUID) (Contact, error) {
	return s.getContact(ctx, sqlGetContactByID, tenantID, contactID)
}

var sqlGetContactByExternalID = `
SELECT ` + contactColumns + `
FROM contacts
WHERE tenant_id = $1 AND external_id = $2
`

// GetContactByExternalID retrieves a contact by its CRM id within a tenant
func (s *Store) GetContactByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (Contact, error) {
	return s.getContact(ctx, sqlGetContactByExternalID, tenantID, externalID)
}

var sqlGetContactByEmail = `
SELECT ` + contactColumns + `
FROM contacts
WHERE tenant_id = $1 AND lower(email) = lower($2)
ORDER BY created_at ASC
LIMIT 1
`

// GetContactByEmail retrieves the oldest contact with a case-insensitive email match
func (s *Store) GetContactByEmail(ctx context.Context, tenantID uuid.UUID, email string) (Contact, error) {
	return s.getContact(ctx, sqlGetContactByEmail, tenantID, email)
}

var sqlGetContactByPhone = `
SELECT ` + contactColumns + `
FROM contacts
WHERE tenant_id = $1 AND phone = $2
ORDER BY created_at ASC
LIMIT 1
`

// GetContactByPhone retrieves the oldest contact with the given normalized phone
func (s *Store) GetContactByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (Contact, error) {
	return s.getContact(ctx, sqlGetContactByPhone, tenantID, phone)
}

func (s *Store) getContact(ctx context.Context, query string, args ...interface{}) (Contact, error) {
	var contact Contact
	err := s.db.GetContext(ctx, &contact, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Contact{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get contact", err)
		return Contact{}, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

// EnrichContactParams carries fields that are only written when the contact lacks them
type EnrichContactParams struct {
	Name       *string
	Email      *string
	Phone      *string
	ExternalID *string
}

var sqlEnrichContact = `
UPDATE contacts
SET name = COALESCE(NULLIF(name, ''), $2),
    email = COALESCE(NULLIF(email, ''), $3),
    phone = COALESCE(NULLIF(phone, ''), $4),
    external_id = COALESCE(NULLIF(external_id, ''), $5),
    updated_at = CURRENT_TIMESTAMP
WHERE id = $1
RETURNING ` + contactColumns

// EnrichContact fills empty contact fields without overwriting existing values
func (s *Store) EnrichContact(ctx context.Context, contactID uuid.UUID, params EnrichContactParams) (Contact, error) {
	var contact Contact
	err := s.db.GetContext(ctx, &contact, sqlEnrichContact,
		contactID,
		params.Name,
		params.Email,
		params.Phone,
		params.ExternalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Contact{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to enrich contact", err)
		return Contact{}, fmt.Errorf("failed to enrich contact: %w", err)
	}
	return contact, nil
}
