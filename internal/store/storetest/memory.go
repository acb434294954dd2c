// Package storetest provides an in-memory implementation of store.Storer for
// processor tests that need real read-after-write behaviour across many calls.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"revenue-server/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Memory is a goroutine safe in-memory store. Rows are kept by value and
// copies are returned, so callers cannot mutate stored state.
type Memory struct {
	mu sync.Mutex

	now func() time.Time

	tenants      map[uuid.UUID]store.Tenant
	users        map[uuid.UUID]store.User
	roles        map[uuid.UUID]store.CommissionRole
	events       map[uuid.UUID]store.WebhookEvent
	contacts     map[uuid.UUID]store.Contact
	appointments map[uuid.UUID]store.Appointment
	sales        map[uuid.UUID]store.Sale
	unmatched    map[uuid.UUID]store.UnmatchedPayment
	commissions  map[uuid.UUID]store.Commission
}

var _ store.Storer = (*Memory)(nil)

// New returns an empty store whose clock advances one millisecond per write,
// keeping created_at ordering deterministic.
func New() *Memory {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &Memory{
		now: func() time.Time {
			clock = clock.Add(time.Millisecond)
			return clock
		},
		tenants:      map[uuid.UUID]store.Tenant{},
		users:        map[uuid.UUID]store.User{},
		roles:        map[uuid.UUID]store.CommissionRole{},
		events:       map[uuid.UUID]store.WebhookEvent{},
		contacts:     map[uuid.UUID]store.Contact{},
		appointments: map[uuid.UUID]store.Appointment{},
		sales:        map[uuid.UUID]store.Sale{},
		unmatched:    map[uuid.UUID]store.UnmatchedPayment{},
		commissions:  map[uuid.UUID]store.Commission{},
	}
}

// --- Seeding ---

// AddTenant stores a tenant, assigning an id when missing.
func (m *Memory) AddTenant(t store.Tenant) store.Tenant {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = m.now()
	}
	m.tenants[t.ID] = t
	return t
}

// AddUser stores a user, assigning an id when missing.
func (m *Memory) AddUser(u store.User) store.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = m.now()
	}
	m.users[u.ID] = u
	return u
}

// AddCommissionRole stores a commission role, assigning an id when missing.
func (m *Memory) AddCommissionRole(r store.CommissionRole) store.CommissionRole {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	m.roles[r.ID] = r
	return r
}

// AddAppointment stores an appointment as-is, keeping a caller supplied CreatedAt.
func (m *Memory) AddAppointment(a store.Appointment) store.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = m.now()
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	if a.Status == "" {
		a.Status = store.AppointmentStatusScheduled
	}
	m.appointments[a.ID] = a
	return a
}

// --- Inspection ---

// Sales returns every stored sale ordered by creation.
func (m *Memory) Sales() []store.Sale {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.Sale, 0, len(m.sales))
	for _, s := range m.sales {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Commissions returns every stored commission ordered by creation.
func (m *Memory) Commissions() []store.Commission {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.Commission, 0, len(m.commissions))
	for _, c := range m.commissions {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// UnmatchedPayments returns every review entry ordered by creation.
func (m *Memory) UnmatchedPayments() []store.UnmatchedPayment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.UnmatchedPayment, 0, len(m.unmatched))
	for _, u := range m.unmatched {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// WebhookEvents returns every ledger row ordered by creation.
func (m *Memory) WebhookEvents() []store.WebhookEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.WebhookEvent, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Contacts returns every contact of a tenant ordered by creation.
func (m *Memory) Contacts(tenantID uuid.UUID) []store.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []store.Contact{}
	for _, c := range m.contacts {
		if c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// --- Tenants and users ---

func (m *Memory) GetTenantByID(_ context.Context, tenantID uuid.UUID) (store.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[tenantID]
	if !ok {
		return store.Tenant{}, store.ErrNotFound
	}
	return t, nil
}

func (m *Memory) GetTenantByLocationID(_ context.Context, locationID string) (store.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tenants {
		if t.CRMLocationID != nil && *t.CRMLocationID == locationID {
			return t, nil
		}
	}
	return store.Tenant{}, store.ErrNotFound
}

func (m *Memory) GetTenantIDsByUserEmail(_ context.Context, email string) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[uuid.UUID]bool{}
	ids := []uuid.UUID{}
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) && !seen[u.TenantID] {
			seen[u.TenantID] = true
			ids = append(ids, u.TenantID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (m *Memory) GetUserByID(_ context.Context, tenantID, userID uuid.UUID) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.TenantID != tenantID {
		return store.User{}, store.ErrNotFound
	}
	return u, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, tenantID uuid.UUID, email string) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.TenantID == tenantID && strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return store.User{}, store.ErrNotFound
}

func (m *Memory) GetUserByCRMID(_ context.Context, tenantID uuid.UUID, crmUserID string) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.TenantID == tenantID && u.CRMUserID != nil && *u.CRMUserID == crmUserID {
			return u, nil
		}
	}
	return store.User{}, store.ErrNotFound
}

func (m *Memory) GetCommissionRoleByID(_ context.Context, tenantID, roleID uuid.UUID) (store.CommissionRole, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roles[roleID]
	if !ok || r.TenantID != tenantID {
		return store.CommissionRole{}, store.ErrNotFound
	}
	return r, nil
}

// --- Webhook events ---

func (m *Memory) CreateWebhookEvent(_ context.Context, params store.CreateWebhookEventParams) (store.WebhookEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := store.WebhookEvent{
		ID:         uuid.New(),
		Processor:  params.Processor,
		EventType:  params.EventType,
		RawPayload: append([]byte(nil), params.RawPayload...),
		CreatedAt:  m.now(),
	}
	m.events[e.ID] = e
	return e, nil
}

func (m *Memory) MarkWebhookEventProcessed(_ context.Context, eventID uuid.UUID, tenantID *uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[eventID]
	if !ok {
		return store.ErrNotFound
	}
	now := m.now()
	e.Processed = true
	e.Error = nil
	if tenantID != nil {
		e.TenantID = copyUUID(tenantID)
	}
	e.ProcessedAt = &now
	m.events[eventID] = e
	return nil
}

func (m *Memory) MarkWebhookEventFailed(_ context.Context, eventID uuid.UUID, tenantID *uuid.UUID, errorMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[eventID]
	if !ok {
		return store.ErrNotFound
	}
	now := m.now()
	e.Processed = false
	e.Error = &errorMessage
	if tenantID != nil {
		e.TenantID = copyUUID(tenantID)
	}
	e.ProcessedAt = &now
	m.events[eventID] = e
	return nil
}

func (m *Memory) ListWebhookEvents(_ context.Context, params store.ListWebhookEventsParams) ([]store.WebhookEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []store.WebhookEvent{}
	for _, e := range m.events {
		if params.TenantID != nil && (e.TenantID == nil || *e.TenantID != *params.TenantID) {
			continue
		}
		if params.Processor != nil && e.Processor != *params.Processor {
			continue
		}
		if params.FailedOnly && e.Error == nil {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, params.Limit, params.Offset), nil
}

// --- Contacts ---

func (m *Memory) CreateContact(_ context.Context, params store.CreateContactParams) (store.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if params.ExternalID != nil {
		for _, c := range m.contacts {
			if c.TenantID == params.TenantID && c.ExternalID != nil && *c.ExternalID == *params.ExternalID {
				return store.Contact{}, store.ErrDuplicate
			}
		}
	}
	now := m.now()
	c := store.Contact{
		ID:         uuid.New(),
		TenantID:   params.TenantID,
		Name:       copyString(params.Name),
		Email:      copyString(params.Email),
		Phone:      copyString(params.Phone),
		ExternalID: copyString(params.ExternalID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.contacts[c.ID] = c
	return c, nil
}

func (m *Memory) GetContactByID(_ context.Context, tenantID, contactID uuid.UUID) (store.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contacts[contactID]
	if !ok || c.TenantID != tenantID {
		return store.Contact{}, store.ErrNotFound
	}
	return c, nil
}

func (m *Memory) GetContactByExternalID(_ context.Context, tenantID uuid.UUID, externalID string) (store.Contact, error) {
	return m.firstContact(tenantID, func(c store.Contact) bool {
		return c.ExternalID != nil && *c.ExternalID == externalID
	})
}

func (m *Memory) GetContactByEmail(_ context.Context, tenantID uuid.UUID, email string) (store.Contact, error) {
	return m.firstContact(tenantID, func(c store.Contact) bool {
		return c.Email != nil && strings.EqualFold(*c.Email, email)
	})
}

func (m *Memory) GetContactByPhone(_ context.Context, tenantID uuid.UUID, phone string) (store.Contact, error) {
	return m.firstContact(tenantID, func(c store.Contact) bool {
		return c.Phone != nil && *c.Phone == phone
	})
}

// firstContact returns the oldest contact of the tenant satisfying match.
func (m *Memory) firstContact(tenantID uuid.UUID, match func(store.Contact) bool) (store.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found *store.Contact
	for _, c := range m.contacts {
		if c.TenantID != tenantID || !match(c) {
			continue
		}
		if found == nil || c.CreatedAt.Before(found.CreatedAt) {
			c := c
			found = &c
		}
	}
	if found == nil {
		return store.Contact{}, store.ErrNotFound
	}
	return *found, nil
}

func (m *Memory) EnrichContact(_ context.Context, contactID uuid.UUID, params store.EnrichContactParams) (store.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contacts[contactID]
	if !ok {
		return store.Contact{}, store.ErrNotFound
	}
	c.Name = fillEmpty(c.Name, params.Name)
	c.Email = fillEmpty(c.Email, params.Email)
	c.Phone = fillEmpty(c.Phone, params.Phone)
	c.ExternalID = fillEmpty(c.ExternalID, params.ExternalID)
	c.UpdatedAt = m.now()
	m.contacts[contactID] = c
	return c, nil
}

// --- Appointments ---

func (m *Memory) CreateAppointment(_ context.Context, params store.CreateAppointmentParams) (store.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if params.ExternalID != nil {
		for _, a := range m.appointments {
			if a.TenantID == params.TenantID && a.ExternalID != nil && *a.ExternalID == *params.ExternalID {
				return store.Appointment{}, store.ErrDuplicate
			}
		}
	}
	now := m.now()
	a := store.Appointment{
		ID:                 uuid.New(),
		TenantID:           params.TenantID,
		ContactID:          params.ContactID,
		CloserID:           copyUUID(params.CloserID),
		ScheduledAt:        params.ScheduledAt,
		EndAt:              params.EndAt,
		Status:             params.Status,
		ExternalID:         copyString(params.ExternalID),
		CalendarExternalID: copyString(params.CalendarExternalID),
		RescheduledFromID:  copyUUID(params.RescheduledFromID),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	m.appointments[a.ID] = a
	return a, nil
}

func (m *Memory) UpdateAppointment(_ context.Context, tenantID, appointmentID uuid.UUID, params store.UpdateAppointmentParams) (store.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[appointmentID]
	if !ok || a.TenantID != tenantID {
		return store.Appointment{}, store.ErrNotFound
	}
	if params.ContactID != nil {
		a.ContactID = *params.ContactID
	}
	if params.CloserID != nil {
		a.CloserID = copyUUID(params.CloserID)
	}
	if params.ScheduledAt != nil {
		a.ScheduledAt = *params.ScheduledAt
	}
	if params.EndAt != nil {
		a.EndAt = params.EndAt
	}
	if params.Status != nil {
		a.Status = *params.Status
	}
	if params.CalendarExternalID != nil {
		a.CalendarExternalID = copyString(params.CalendarExternalID)
	}
	if params.RescheduledFromID != nil {
		a.RescheduledFromID = copyUUID(params.RescheduledFromID)
	}
	a.UpdatedAt = m.now()
	m.appointments[appointmentID] = a
	return a, nil
}

func (m *Memory) GetAppointmentByID(_ context.Context, tenantID, appointmentID uuid.UUID) (store.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[appointmentID]
	if !ok || a.TenantID != tenantID {
		return store.Appointment{}, store.ErrNotFound
	}
	return a, nil
}

func (m *Memory) GetAppointmentByExternalID(_ context.Context, tenantID uuid.UUID, externalID string) (store.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.appointments {
		if a.TenantID == tenantID && a.ExternalID != nil && *a.ExternalID == externalID {
			return a, nil
		}
	}
	return store.Appointment{}, store.ErrNotFound
}

func (m *Memory) ListRecentAppointmentsByContact(_ context.Context, tenantID, contactID uuid.UUID, limit int) ([]store.Appointment, error) {
	out := m.appointmentsOf(tenantID, contactID)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.After(out[j].ScheduledAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, limit, 0), nil
}

func (m *Memory) ListAppointmentsByContact(_ context.Context, tenantID, contactID uuid.UUID) ([]store.Appointment, error) {
	out := m.appointmentsOf(tenantID, contactID)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.Before(out[j].ScheduledAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) appointmentsOf(tenantID, contactID uuid.UUID) []store.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []store.Appointment{}
	for _, a := range m.appointments {
		if a.TenantID == tenantID && a.ContactID == contactID {
			out = append(out, a)
		}
	}
	return out
}

func (m *Memory) SetAppointmentInclusionFlag(_ context.Context, tenantID, appointmentID uuid.UUID, flag *bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[appointmentID]
	if !ok || a.TenantID != tenantID {
		return store.ErrNotFound
	}
	if flag != nil {
		v := *flag
		a.InclusionFlag = &v
	} else {
		a.InclusionFlag = nil
	}
	a.UpdatedAt = m.now()
	m.appointments[appointmentID] = a
	return nil
}

func (m *Memory) ListContactIDsWithAppointments(_ context.Context, tenantID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[uuid.UUID]bool{}
	ids := []uuid.UUID{}
	for _, a := range m.appointments {
		if a.TenantID == tenantID && !seen[a.ContactID] {
			seen[a.ContactID] = true
			ids = append(ids, a.ContactID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

// --- Sales ---

func (m *Memory) CreateSale(_ context.Context, params store.CreateSaleParams) (store.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sales {
		if s.ExternalID == params.ExternalID {
			return store.Sale{}, store.ErrDuplicate
		}
	}
	now := m.now()
	s := store.Sale{
		ID:         uuid.New(),
		TenantID:   params.TenantID,
		ExternalID: params.ExternalID,
		Processor:  params.Processor,
		Amount:     params.Amount.Round(2),
		Currency:   params.Currency,
		Status:     params.Status,
		ContactID:  copyUUID(params.ContactID),
		CloserID:   copyUUID(params.CloserID),
		PaidAt:     params.PaidAt,
		Metadata:   params.Metadata,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.sales[s.ID] = s
	return s, nil
}

func (m *Memory) GetSaleByExternalID(_ context.Context, externalID string) (store.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sales {
		if s.ExternalID == externalID {
			return s, nil
		}
	}
	return store.Sale{}, store.ErrNotFound
}

func (m *Memory) GetSaleByID(_ context.Context, tenantID, saleID uuid.UUID) (store.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[saleID]
	if !ok || s.TenantID != tenantID {
		return store.Sale{}, store.ErrNotFound
	}
	return s, nil
}

func (m *Memory) UpdateSaleStatus(_ context.Context, saleID uuid.UUID, status string) (store.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[saleID]
	if !ok {
		return store.Sale{}, store.ErrNotFound
	}
	s.Status = status
	s.UpdatedAt = m.now()
	m.sales[saleID] = s
	return s, nil
}

func (m *Memory) LinkSaleToAppointment(_ context.Context, params store.LinkSaleParams) (store.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[params.SaleID]
	if !ok || s.TenantID != params.TenantID {
		return store.Sale{}, store.ErrConflict
	}
	if s.AppointmentID != nil && *s.AppointmentID != params.AppointmentID {
		return store.Sale{}, store.ErrConflict
	}
	a, ok := m.appointments[params.AppointmentID]
	if !ok || a.TenantID != params.TenantID {
		return store.Sale{}, store.ErrNotFound
	}

	now := m.now()
	matchedBy := params.MatchedBy
	s.AppointmentID = copyUUID(&params.AppointmentID)
	if params.CloserID != nil {
		s.CloserID = copyUUID(params.CloserID)
	}
	s.MatchedBy = &matchedBy
	s.MatchConfidence = decimal.NewNullDecimal(params.Confidence)
	s.ManuallyMatched = params.Manual
	s.UpdatedAt = now
	m.sales[s.ID] = s

	if a.SaleID == nil {
		a.SaleID = copyUUID(&s.ID)
	}
	a.UpdatedAt = now
	m.appointments[a.ID] = a

	for id, u := range m.unmatched {
		if u.SaleID == s.ID && u.Status == store.UnmatchedPaymentStatusPending {
			u.Status = store.UnmatchedPaymentStatusMatched
			u.ResolvedBy = copyUUID(params.ResolvedBy)
			u.ResolvedAt = &now
			m.unmatched[id] = u
		}
	}
	return s, nil
}

// --- Unmatched payments ---

func (m *Memory) CreateUnmatchedPayment(_ context.Context, tenantID, saleID uuid.UUID, suggestions []uuid.UUID) (store.UnmatchedPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.unmatched {
		if u.SaleID == saleID {
			return u, nil
		}
	}
	u := store.UnmatchedPayment{
		ID:                      uuid.New(),
		SaleID:                  saleID,
		TenantID:                tenantID,
		SuggestedAppointmentIDs: append(store.UUIDArray{}, suggestions...),
		Status:                  store.UnmatchedPaymentStatusPending,
		CreatedAt:               m.now(),
	}
	m.unmatched[u.ID] = u
	return u, nil
}

func (m *Memory) GetUnmatchedPaymentBySaleID(_ context.Context, saleID uuid.UUID) (store.UnmatchedPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.unmatched {
		if u.SaleID == saleID {
			return u, nil
		}
	}
	return store.UnmatchedPayment{}, store.ErrNotFound
}

func (m *Memory) UpdateUnmatchedPaymentSuggestions(_ context.Context, saleID uuid.UUID, suggestions []uuid.UUID) (store.UnmatchedPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.unmatched {
		if u.SaleID == saleID && u.Status == store.UnmatchedPaymentStatusPending {
			u.SuggestedAppointmentIDs = append(store.UUIDArray{}, suggestions...)
			m.unmatched[id] = u
			return u, nil
		}
	}
	return store.UnmatchedPayment{}, store.ErrNotFound
}

func (m *Memory) ListUnmatchedPayments(_ context.Context, tenantID uuid.UUID, status string, limit, offset int) ([]store.UnmatchedPaymentWithSale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []store.UnmatchedPaymentWithSale{}
	for _, u := range m.unmatched {
		if u.TenantID != tenantID || u.Status != status {
			continue
		}
		row := store.UnmatchedPaymentWithSale{UnmatchedPayment: u}
		if s, ok := m.sales[u.SaleID]; ok {
			row.ExternalID = s.ExternalID
			row.Amount = s.Amount
			row.Currency = s.Currency
			row.ContactID = copyUUID(s.ContactID)
			if s.ContactID != nil {
				if c, ok := m.contacts[*s.ContactID]; ok {
					row.ContactEmail = copyString(c.Email)
				}
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

// --- Commissions ---

func (m *Memory) CreateCommission(_ context.Context, params store.CreateCommissionParams) (store.Commission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.commissions {
		if c.SaleID == params.SaleID {
			return store.Commission{}, store.ErrDuplicate
		}
	}
	now := m.now()
	c := store.Commission{
		ID:             uuid.New(),
		SaleID:         params.SaleID,
		TenantID:       params.TenantID,
		CloserID:       params.CloserID,
		GrossAmount:    params.GrossAmount,
		Rate:           params.Rate,
		TotalAmount:    params.TotalAmount,
		ReleasedAmount: params.ReleasedAmount,
		ReleaseStatus:  params.ReleaseStatus,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.commissions[c.ID] = c
	return c, nil
}

func (m *Memory) GetCommissionBySaleID(_ context.Context, saleID uuid.UUID) (store.Commission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.commissions {
		if c.SaleID == saleID {
			return c, nil
		}
	}
	return store.Commission{}, store.ErrNotFound
}

func (m *Memory) GetCommissionByID(_ context.Context, tenantID, commissionID uuid.UUID) (store.Commission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.commissions[commissionID]
	if !ok || c.TenantID != tenantID {
		return store.Commission{}, store.ErrNotFound
	}
	return c, nil
}

func (m *Memory) UpdateCommissionRelease(_ context.Context, tenantID, commissionID uuid.UUID, params store.UpdateCommissionReleaseParams) (store.Commission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.commissions[commissionID]
	if !ok || c.TenantID != tenantID || c.ReleaseStatus != params.ExpectedStatus {
		return store.Commission{}, store.ErrConflict
	}
	c.ReleaseStatus = params.ReleaseStatus
	c.ReleasedAmount = params.ReleasedAmount
	c.UpdatedAt = m.now()
	m.commissions[commissionID] = c
	return c, nil
}

func (m *Memory) UpdateCommissionOverride(_ context.Context, tenantID, commissionID uuid.UUID, params store.UpdateCommissionOverrideParams) (store.Commission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.commissions[commissionID]
	if !ok || c.TenantID != tenantID || c.ReleaseStatus != params.ExpectedStatus ||
		c.ReleasedAmount.GreaterThan(params.Amount) {
		return store.Commission{}, store.ErrConflict
	}
	reason := params.Reason
	c.OverrideAmount = decimal.NewNullDecimal(params.Amount)
	c.OverrideReason = &reason
	c.OverriddenBy = copyUUID(params.OverriddenBy)
	c.TotalAmount = params.Amount
	c.ReleaseStatus = params.ReleaseStatus
	c.UpdatedAt = m.now()
	m.commissions[commissionID] = c
	return c, nil
}

// --- helpers ---

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return rows[:0]
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func fillEmpty(current, candidate *string) *string {
	if current != nil && *current != "" {
		return current
	}
	if candidate == nil {
		return current
	}
	return copyString(candidate)
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
