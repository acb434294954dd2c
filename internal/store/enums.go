package store

// Appointment ENUMs
const (
	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusShowed    = "showed"
	AppointmentStatusNoShow    = "no_show"
	AppointmentStatusCancelled = "cancelled"
	AppointmentStatusSigned    = "signed"
)

// Sale ENUMs
const (
	SaleStatusPaid     = "paid"
	SaleStatusRefunded = "refunded"
)

// Unmatched Payment ENUMs
const (
	UnmatchedPaymentStatusPending = "pending"
	UnmatchedPaymentStatusMatched = "matched"
)

// Commission ENUMs
const (
	ReleaseStatusPending  = "pending"
	ReleaseStatusPartial  = "partial"
	ReleaseStatusReleased = "released"
	ReleaseStatusPaid     = "paid"
)

// Match strategy tags stored in sales.matched_by
const (
	MatchedByExplicitHint  = "explicit_hint"
	MatchedByCloserContact = "closer_contact"
	MatchedByContactOnly   = "contact_only"
	MatchedByManual        = "manual"
)

// IsValidAppointmentStatus reports whether s is a known appointment status.
func IsValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusShowed, AppointmentStatusNoShow,
		AppointmentStatusCancelled, AppointmentStatusSigned:
		return true
	}
	return false
}

// IsValidReleaseStatus reports whether s is a known commission release status.
func IsValidReleaseStatus(s string) bool {
	switch s {
	case ReleaseStatusPending, ReleaseStatusPartial, ReleaseStatusReleased, ReleaseStatusPaid:
		return true
	}
	return false
}
