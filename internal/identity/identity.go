package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"revenue-server/internal/observability"
	"revenue-server/internal/store"

	"github.com/google/uuid"
)

// IdentityStore defines the database operations required by the Resolver
type IdentityStore interface {
	GetTenantByID(ctx context.Context, tenantID uuid.UUID) (store.Tenant, error)
	GetTenantByLocationID(ctx context.Context, locationID string) (store.Tenant, error)
	GetTenantIDsByUserEmail(ctx context.Context, email string) ([]uuid.UUID, error)

	GetContactByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (store.Contact, error)
	GetContactByEmail(ctx context.Context, tenantID uuid.UUID, email string) (store.Contact, error)
	GetContactByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (store.Contact, error)
	CreateContact(ctx context.Context, params store.CreateContactParams) (store.Contact, error)
	EnrichContact(ctx context.Context, contactID uuid.UUID, params store.EnrichContactParams) (store.Contact, error)

	GetUserByEmail(ctx context.Context, tenantID uuid.UUID, email string) (store.User, error)
	GetUserByCRMID(ctx context.Context, tenantID uuid.UUID, crmUserID string) (store.User, error)
}

var (
	ErrTenantUnresolved = errors.New("tenant could not be resolved")
	ErrContactNotFound  = errors.New("contact not found")
	ErrCloserNotFound   = errors.New("closer not found")
)

// Resolver maps webhook identifiers onto tenants, contacts and closers.
// Every lookup below tenant resolution is scoped by an explicit tenant id.
type Resolver struct {
	store  IdentityStore
	logger *observability.Logger
}

func New(store IdentityStore, logger *observability.Logger) Resolver {
	return Resolver{
		store:  store,
		logger: logger,
	}
}

// TenantHints carries the tenant identifiers a webhook may supply
type TenantHints struct {
	TenantID    *uuid.UUID
	LocationID  string
	CloserEmail string
}

// ResolveTenant picks the owning tenant. An explicit id must exist; otherwise the
// CRM location id is tried, then a closer email owned by exactly one tenant.
func (r *Resolver) ResolveTenant(ctx context.Context, hints TenantHints) (uuid.UUID, error) {
	if hints.TenantID != nil {
		tenant, err := r.store.GetTenantByID(ctx, *hints.TenantID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return uuid.Nil, fmt.Errorf("%w: unknown tenant id %s", ErrTenantUnresolved, hints.TenantID)
			}
			r.logger.Error(ctx, "failed to get tenant", err)
			return uuid.Nil, err
		}
		return tenant.ID, nil
	}

	if locationID := strings.TrimSpace(hints.LocationID); locationID != "" {
		tenant, err := r.store.GetTenantByLocationID(ctx, locationID)
		if err == nil {
			return tenant.ID, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			r.logger.Error(ctx, "failed to get tenant by location", err)
			return uuid.Nil, err
		}
	}

	if email := normalizeEmail(hints.CloserEmail); email != "" {
		tenantIDs, err := r.store.GetTenantIDsByUserEmail(ctx, email)
		if err != nil {
			r.logger.Error(ctx, "failed to get tenants by closer email", err)
			return uuid.Nil, err
		}
		switch len(tenantIDs) {
		case 1:
			return tenantIDs[0], nil
		case 0:
		default:
			ctx = observability.WithFields(ctx, observability.Field{Key: "tenant_count", Value: len(tenantIDs)})
			r.logger.Warn(ctx, "closer email belongs to several tenants")
			return uuid.Nil, fmt.Errorf("%w: closer email is shared by %d tenants", ErrTenantUnresolved, len(tenantIDs))
		}
	}

	return uuid.Nil, ErrTenantUnresolved
}

// ContactHints carries the contact details a webhook may supply. Empty strings
// mean absent.
type ContactHints struct {
	Email      string
	Phone      string
	Name       string
	ExternalID string
}

func (h ContactHints) normalized() ContactHints {
	return ContactHints{
		Email:      normalizeEmail(h.Email),
		Phone:      NormalizePhone(h.Phone),
		Name:       strings.TrimSpace(h.Name),
		ExternalID: strings.TrimSpace(h.ExternalID),
	}
}

func (h ContactHints) empty() bool {
	return h.Email == "" && h.Phone == "" && h.Name == "" && h.ExternalID == ""
}

// ContactResolution is the outcome of ResolveContact
type ContactResolution struct {
	Contact store.Contact
	// Created is true when no existing contact matched and a new one was inserted.
	Created bool
}

// ResolveContact finds the canonical contact for the hints or creates one.
// Found contacts gain any fields they were missing; nothing is overwritten.
func (r *Resolver) ResolveContact(ctx context.Context, tenantID uuid.UUID, hints ContactHints) (ContactResolution, error) {
	hints = hints.normalized()

	contact, err := r.findContact(ctx, tenantID, hints)
	if err == nil {
		contact, err = r.enrich(ctx, contact, hints)
		if err != nil {
			return ContactResolution{}, err
		}
		return ContactResolution{Contact: contact}, nil
	}
	if !errors.Is(err, ErrContactNotFound) {
		return ContactResolution{}, err
	}

	contact, err = r.store.CreateContact(ctx, store.CreateContactParams{
		TenantID:   tenantID,
		Name:       optional(hints.Name),
		Email:      optional(hints.Email),
		Phone:      optional(hints.Phone),
		ExternalID: optional(hints.ExternalID),
	})
	if err != nil {
		// Lost a race with a concurrent delivery carrying the same external id.
		if errors.Is(err, store.ErrDuplicate) && hints.ExternalID != "" {
			contact, err = r.store.GetContactByExternalID(ctx, tenantID, hints.ExternalID)
			if err == nil {
				return ContactResolution{Contact: contact}, nil
			}
		}
		r.logger.Error(ctx, "failed to create contact", err)
		return ContactResolution{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return ContactResolution{Contact: contact, Created: true}, nil
}

// FindContact looks a contact up without creating one
func (r *Resolver) FindContact(ctx context.Context, tenantID uuid.UUID, hints ContactHints) (store.Contact, error) {
	return r.findContact(ctx, tenantID, hints.normalized())
}

func (r *Resolver) findContact(ctx context.Context, tenantID uuid.UUID, hints ContactHints) (store.Contact, error) {
	if hints.empty() {
		return store.Contact{}, ErrContactNotFound
	}

	lookups := []struct {
		value string
		get   func(context.Context, uuid.UUID, string) (store.Contact, error)
	}{
		{hints.ExternalID, r.store.GetContactByExternalID},
		{hints.Email, r.store.GetContactByEmail},
		{hints.Phone, r.store.GetContactByPhone},
	}
	for _, lookup := range lookups {
		if lookup.value == "" {
			continue
		}
		contact, err := lookup.get(ctx, tenantID, lookup.value)
		if err == nil {
			return contact, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			r.logger.Error(ctx, "failed to look up contact", err)
			return store.Contact{}, err
		}
	}
	return store.Contact{}, ErrContactNotFound
}

func (r *Resolver) enrich(ctx context.Context, contact store.Contact, hints ContactHints) (store.Contact, error) {
	params := store.EnrichContactParams{
		Name:       missing(contact.Name, hints.Name),
		Email:      missing(contact.Email, hints.Email),
		Phone:      missing(contact.Phone, hints.Phone),
		ExternalID: missing(contact.ExternalID, hints.ExternalID),
	}
	if params.Name == nil && params.Email == nil && params.Phone == nil && params.ExternalID == nil {
		return contact, nil
	}

	enriched, err := r.store.EnrichContact(ctx, contact.ID, params)
	if err != nil {
		r.logger.Error(ctx, "failed to enrich contact", err)
		return store.Contact{}, fmt.Errorf("failed to enrich contact: %w", err)
	}
	return enriched, nil
}

// ResolveCloser finds a closer by email inside the tenant
func (r *Resolver) ResolveCloser(ctx context.Context, tenantID uuid.UUID, email string) (store.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return store.User{}, ErrCloserNotFound
	}
	user, err := r.store.GetUserByEmail(ctx, tenantID, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, ErrCloserNotFound
		}
		r.logger.Error(ctx, "failed to get closer by email", err)
		return store.User{}, err
	}
	return user, nil
}

// ResolveCloserByExternalID finds a closer by CRM user id inside the tenant
func (r *Resolver) ResolveCloserByExternalID(ctx context.Context, tenantID uuid.UUID, crmUserID string) (store.User, error) {
	crmUserID = strings.TrimSpace(crmUserID)
	if crmUserID == "" {
		return store.User{}, ErrCloserNotFound
	}
	user, err := r.store.GetUserByCRMID(ctx, tenantID, crmUserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, ErrCloserNotFound
		}
		r.logger.Error(ctx, "failed to get closer by crm id", err)
		return store.User{}, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// missing returns candidate only when current is empty
func missing(current *string, candidate string) *string {
	if candidate == "" || (current != nil && *current != "") {
		return nil
	}
	return &candidate
}
