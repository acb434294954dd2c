package store

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JSONB is a custom type for JSONB fields
type JSONB map[string]interface{}

// Value implements the driver.Valuer interface for JSONB
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface for JSONB
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("incompatible type for JSONB")
	}

	if len(bytes) == 0 || string(bytes) == "null" {
		*j = make(JSONB)
		return nil
	}

	result := make(JSONB)
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*j = result
	return nil
}

// UUIDArray is a custom type for PostgreSQL uuid[] arrays
type UUIDArray []uuid.UUID

// Value implements the driver.Valuer interface for UUIDArray
func (a UUIDArray) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	strVals := make([]string, len(a))
	for i, v := range a {
		strVals[i] = v.String()
	}
	return "{" + strings.Join(strVals, ",") + "}", nil
}

// Scan implements the sql.Scanner interface for UUIDArray
func (a *UUIDArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	var str string
	switch v := value.(type) {
	case []byte:
		str = string(v)
	case string:
		str = v
	default:
		return fmt.Errorf("unsupported type for UUIDArray: %T", value)
	}

	str = strings.Trim(str, "{}")
	if str == "" {
		*a = UUIDArray{}
		return nil
	}

	parts := strings.Split(str, ",")
	result := make(UUIDArray, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.Trim(p, `"`))
		if err != nil {
			return fmt.Errorf("invalid uuid in array: %w", err)
		}
		result = append(result, id)
	}
	*a = result
	return nil
}

// Tenant is a company whose sales ledger is kept separately from every other.
type Tenant struct {
	ID                     uuid.UUID           `db:"id" json:"id"`
	Name                   string              `db:"name" json:"name"`
	CRMLocationID          *string             `db:"crm_location_id" json:"crm_location_id,omitempty"`
	FallbackCommissionRate decimal.NullDecimal `db:"fallback_commission_rate" json:"fallback_commission_rate"`
	CreatedAt              time.Time           `db:"created_at" json:"created_at"`
}

// WebhookEvent is the audit row written for every inbound webhook delivery.
type WebhookEvent struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Processor   string     `db:"processor" json:"processor"`
	EventType   string     `db:"event_type" json:"event_type"`
	RawPayload  []byte     `db:"raw_payload" json:"-"`
	TenantID    *uuid.UUID `db:"tenant_id" json:"tenant_id,omitempty"`
	Processed   bool       `db:"processed" json:"processed"`
	Error       *string    `db:"error" json:"error,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	ProcessedAt *time.Time `db:"processed_at" json:"processed_at,omitempty"`
}

// Contact is a prospect or customer scoped to a tenant.
type Contact struct {
	ID         uuid.UUID `db:"id" json:"id"`
	TenantID   uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name       *string   `db:"name" json:"name,omitempty"`
	Email      *string   `db:"email" json:"email,omitempty"`
	Phone      *string   `db:"phone" json:"phone,omitempty"`
	ExternalID *string   `db:"external_id" json:"external_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// User is a closer or admin inside a tenant.
type User struct {
	ID                   uuid.UUID           `db:"id" json:"id"`
	TenantID             uuid.UUID           `db:"tenant_id" json:"tenant_id"`
	Email                string              `db:"email" json:"email"`
	Name                 string              `db:"name" json:"name"`
	CRMUserID            *string             `db:"crm_user_id" json:"crm_user_id,omitempty"`
	CommissionRoleID     *uuid.UUID          `db:"commission_role_id" json:"commission_role_id,omitempty"`
	CustomCommissionRate decimal.NullDecimal `db:"custom_commission_rate" json:"custom_commission_rate"`
	IsAdmin              bool                `db:"is_admin" json:"is_admin"`
	CreatedAt            time.Time           `db:"created_at" json:"created_at"`
}

// CommissionRole carries the default rate for the closers assigned to it.
type CommissionRole struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	TenantID    uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	Name        string          `db:"name" json:"name"`
	DefaultRate decimal.Decimal `db:"default_rate" json:"default_rate"`
}

// Appointment is a scheduled sales call.
type Appointment struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	TenantID           uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	ContactID          uuid.UUID  `db:"contact_id" json:"contact_id"`
	CloserID           *uuid.UUID `db:"closer_id" json:"closer_id,omitempty"`
	ScheduledAt        time.Time  `db:"scheduled_at" json:"scheduled_at"`
	EndAt              *time.Time `db:"end_at" json:"end_at,omitempty"`
	Status             string     `db:"status" json:"status"`
	ExternalID         *string    `db:"external_id" json:"external_id,omitempty"`
	CalendarExternalID *string    `db:"calendar_external_id" json:"calendar_external_id,omitempty"`
	SaleID             *uuid.UUID `db:"sale_id" json:"sale_id,omitempty"`
	RescheduledFromID  *uuid.UUID `db:"rescheduled_from_id" json:"rescheduled_from_id,omitempty"`
	// InclusionFlag is nil while unset, true when included, false when excluded.
	InclusionFlag *bool     `db:"inclusion_flag" json:"inclusion_flag"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Sale is a payment received from a payment processor.
type Sale struct {
	ID              uuid.UUID           `db:"id" json:"id"`
	TenantID        uuid.UUID           `db:"tenant_id" json:"tenant_id"`
	ExternalID      string              `db:"external_id" json:"external_id"`
	Processor       string              `db:"processor" json:"processor"`
	Amount          decimal.Decimal     `db:"amount" json:"amount"`
	Currency        string              `db:"currency" json:"currency"`
	Status          string              `db:"status" json:"status"`
	ContactID       *uuid.UUID          `db:"contact_id" json:"contact_id,omitempty"`
	AppointmentID   *uuid.UUID          `db:"appointment_id" json:"appointment_id,omitempty"`
	CloserID        *uuid.UUID          `db:"closer_id" json:"closer_id,omitempty"`
	MatchedBy       *string             `db:"matched_by" json:"matched_by,omitempty"`
	MatchConfidence decimal.NullDecimal `db:"match_confidence" json:"match_confidence"`
	ManuallyMatched bool                `db:"manually_matched" json:"manually_matched"`
	PaidAt          *time.Time          `db:"paid_at" json:"paid_at,omitempty"`
	Metadata        JSONB               `db:"metadata" json:"metadata,omitempty"`
	CreatedAt       time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `db:"updated_at" json:"updated_at"`
}

// IsMatched reports whether the sale is linked to an appointment.
func (s Sale) IsMatched() bool {
	return s.AppointmentID != nil
}

// UnmatchedPayment queues a sale that could not be matched automatically.
type UnmatchedPayment struct {
	ID                      uuid.UUID  `db:"id" json:"id"`
	SaleID                  uuid.UUID  `db:"sale_id" json:"sale_id"`
	TenantID                uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	SuggestedAppointmentIDs UUIDArray  `db:"suggested_appointment_ids" json:"suggested_appointment_ids"`
	Status                  string     `db:"status" json:"status"`
	ResolvedBy              *uuid.UUID `db:"resolved_by" json:"resolved_by,omitempty"`
	ResolvedAt              *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt               time.Time  `db:"created_at" json:"created_at"`
}

// UnmatchedPaymentWithSale is the review queue projection joined with its sale.
type UnmatchedPaymentWithSale struct {
	UnmatchedPayment
	ExternalID   string          `db:"external_id" json:"external_id"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	Currency     string          `db:"currency" json:"currency"`
	ContactID    *uuid.UUID      `db:"contact_id" json:"contact_id,omitempty"`
	ContactEmail *string         `db:"contact_email" json:"contact_email,omitempty"`
}

// Commission is the payout owed to a closer for one sale.
type Commission struct {
	ID             uuid.UUID           `db:"id" json:"id"`
	SaleID         uuid.UUID           `db:"sale_id" json:"sale_id"`
	TenantID       uuid.UUID           `db:"tenant_id" json:"tenant_id"`
	CloserID       uuid.UUID           `db:"closer_id" json:"closer_id"`
	GrossAmount    decimal.Decimal     `db:"gross_amount" json:"gross_amount"`
	Rate           decimal.Decimal     `db:"rate" json:"rate"`
	TotalAmount    decimal.Decimal     `db:"total_amount" json:"total_amount"`
	ReleasedAmount decimal.Decimal     `db:"released_amount" json:"released_amount"`
	ReleaseStatus  string              `db:"release_status" json:"release_status"`
	OverrideAmount decimal.NullDecimal `db:"override_amount" json:"override_amount"`
	OverrideReason *string             `db:"override_reason" json:"override_reason,omitempty"`
	OverriddenBy   *uuid.UUID          `db:"overridden_by" json:"overridden_by,omitempty"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `db:"updated_at" json:"updated_at"`
}
