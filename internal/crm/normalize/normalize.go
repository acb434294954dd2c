// Package normalize turns the many CRM appointment webhook layouts into one
// canonical appointment record.
package normalize

import (
	"strings"
	"time"

	"revenue-server/internal/store"

	"github.com/tidwall/gjson"
)

// Kind tags the variant a payload normalized to
type Kind string

const (
	KindAppointment  Kind = "appointment"
	KindUnrecognized Kind = "unrecognized"
)

const defaultEventType = "appointment"

// Contact holds the contact details carried by a CRM payload
type Contact struct {
	Email string
	Phone string
	Name  string
}

// Appointment is the canonical CRM appointment record. Empty strings and nil
// times mean the payload did not carry the field.
type Appointment struct {
	ExternalID                string
	ContactExternalID         string
	CloserExternalID          string
	CloserEmail               string
	CalendarExternalID        string
	StartTime                 *time.Time
	EndTime                   *time.Time
	Status                    string
	LocationHint              string
	RescheduledFromExternalID string
	Contact                   Contact
}

// Event is the result of normalizing one payload. Appointment is set only when
// Kind is KindAppointment; Reason only when Kind is KindUnrecognized.
type Event struct {
	Kind        Kind
	Extractor   string
	EventType   string
	Appointment Appointment
	Reason      string
}

// Extractor recognizes one payload layout
type Extractor struct {
	Name    string
	Extract func(doc gjson.Result) (Appointment, bool)
}

// Extractors is the fixed priority order payloads are tried in
var Extractors = []Extractor{
	{Name: "nested_appointment", Extract: nestedAppointment},
	{Name: "calendar_event", Extract: calendarEvent},
	{Name: "flat", Extract: flatAppointment},
}

// Normalize runs Extractors against raw
func Normalize(raw []byte) Event {
	return NormalizeWith(raw, Extractors)
}

// NormalizeWith tries each extractor in order and returns the first match
func NormalizeWith(raw []byte, extractors []Extractor) Event {
	if !gjson.ValidBytes(raw) {
		return Event{Kind: KindUnrecognized, EventType: defaultEventType, Reason: "payload is not valid JSON"}
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return Event{Kind: KindUnrecognized, EventType: defaultEventType, Reason: "payload is not a JSON object"}
	}
	eventType := EventType(doc)

	for _, extractor := range extractors {
		appointment, ok := extractor.Extract(doc)
		if !ok {
			continue
		}
		appointment.Status = CanonicalStatus(appointment.Status)
		return Event{
			Kind:        KindAppointment,
			Extractor:   extractor.Name,
			EventType:   eventType,
			Appointment: appointment,
		}
	}
	return Event{Kind: KindUnrecognized, EventType: eventType, Reason: "no extractor recognized the payload"}
}

// EventType reads the delivery's event name, if the CRM sent one
func EventType(doc gjson.Result) string {
	if t := str(doc, "type", "event", "eventType", "event_type"); t != "" {
		return t
	}
	return defaultEventType
}

// CanonicalStatus maps CRM status vocabularies onto appointment statuses.
// Unknown values map to the empty string.
func CanonicalStatus(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	switch s {
	case "scheduled", "booked", "confirmed", "new", "rescheduled":
		return store.AppointmentStatusScheduled
	case "showed", "show", "showed_up", "completed", "attended":
		return store.AppointmentStatusShowed
	case "no_show", "noshow", "no_showed":
		return store.AppointmentStatusNoShow
	case "cancelled", "canceled", "invalid", "deleted":
		return store.AppointmentStatusCancelled
	case "signed", "won", "closed_won":
		return store.AppointmentStatusSigned
	}
	return ""
}

// nestedAppointment reads payloads carrying an appointment object, with contact
// and user details in sibling objects
func nestedAppointment(doc gjson.Result) (Appointment, bool) {
	a := doc.Get("appointment")
	if !a.IsObject() {
		return Appointment{}, false
	}
	id := str(a, "id", "appointmentId")
	if id == "" {
		return Appointment{}, false
	}
	contact := doc.Get("contact")
	return Appointment{
		ExternalID:                id,
		ContactExternalID:         firstNonEmpty(str(a, "contactId"), str(contact, "id")),
		CloserExternalID:          firstNonEmpty(str(a, "assignedUserId", "userId"), str(doc, "user.id")),
		CloserEmail:               firstNonEmpty(str(a, "assignedUserEmail"), str(doc, "user.email")),
		CalendarExternalID:        str(a, "calendarId"),
		StartTime:                 timestamp(a, "startTime", "start_time"),
		EndTime:                   timestamp(a, "endTime", "end_time"),
		Status:                    str(a, "appointmentStatus", "status"),
		LocationHint:              firstNonEmpty(str(doc, "locationId", "location.id"), str(a, "locationId")),
		RescheduledFromExternalID: str(a, "rescheduledFrom", "originalAppointmentId"),
		Contact: Contact{
			Email: firstNonEmpty(str(contact, "email"), str(a, "email")),
			Phone: firstNonEmpty(str(contact, "phone"), str(a, "phone")),
			Name:  firstNonEmpty(fullName(contact), str(a, "title")),
		},
	}, true
}

// calendarEvent reads workflow payloads where the appointment lives under a
// calendar object and the contact fields sit at the top level
func calendarEvent(doc gjson.Result) (Appointment, bool) {
	cal := doc.Get("calendar")
	if !cal.IsObject() {
		return Appointment{}, false
	}
	id := str(cal, "appointmentId", "appointment_id")
	if id == "" {
		return Appointment{}, false
	}
	return Appointment{
		ExternalID:                id,
		ContactExternalID:         str(doc, "contact_id", "contactId"),
		CloserExternalID:          firstNonEmpty(str(cal, "assignedUserId"), str(doc, "user.id")),
		CloserEmail:               str(doc, "user.email"),
		CalendarExternalID:        str(cal, "id", "calendarId"),
		StartTime:                 timestamp(cal, "startTime", "start_time"),
		EndTime:                   timestamp(cal, "endTime", "end_time"),
		Status:                    str(cal, "appoinmentStatus", "appointmentStatus", "status"),
		LocationHint:              str(doc, "location.id", "locationId", "location_id"),
		RescheduledFromExternalID: str(cal, "rescheduledFrom"),
		Contact: Contact{
			Email: str(doc, "email"),
			Phone: str(doc, "phone"),
			Name:  fullName(doc),
		},
	}, true
}

// flatAppointment reads payloads with every field at the top level. A bare id
// only counts when a start time is present too.
func flatAppointment(doc gjson.Result) (Appointment, bool) {
	start := timestamp(doc, "startTime", "start_time")
	id := str(doc, "appointmentId", "appointment_id")
	if id == "" && start != nil {
		id = str(doc, "id")
	}
	if id == "" {
		return Appointment{}, false
	}
	return Appointment{
		ExternalID:                id,
		ContactExternalID:         str(doc, "contactId", "contact_id"),
		CloserExternalID:          str(doc, "assignedUserId", "userId", "closerId", "closer_id"),
		CloserEmail:               str(doc, "closerEmail", "closer_email"),
		CalendarExternalID:        str(doc, "calendarId", "calendar_id"),
		StartTime:                 start,
		EndTime:                   timestamp(doc, "endTime", "end_time"),
		Status:                    str(doc, "appointmentStatus", "status"),
		LocationHint:              str(doc, "locationId", "location_id"),
		RescheduledFromExternalID: str(doc, "rescheduledFrom", "rescheduled_from"),
		Contact: Contact{
			Email: str(doc, "email"),
			Phone: str(doc, "phone"),
			Name:  fullName(doc),
		},
	}, true
}

// str returns the first non-empty string at any of paths
func str(doc gjson.Result, paths ...string) string {
	for _, path := range paths {
		if v := strings.TrimSpace(doc.Get(path).String()); v != "" {
			return v
		}
	}
	return ""
}

func fullName(doc gjson.Result) string {
	if name := str(doc, "name", "full_name", "fullName"); name != "" {
		return name
	}
	first := str(doc, "firstName", "first_name")
	last := str(doc, "lastName", "last_name")
	return strings.TrimSpace(first + " " + last)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// timestamp parses RFC 3339 strings, zone-less strings as UTC and unix
// seconds or milliseconds
func timestamp(doc gjson.Result, paths ...string) *time.Time {
	for _, path := range paths {
		v := doc.Get(path)
		switch v.Type {
		case gjson.Number:
			n := v.Int()
			if n <= 0 {
				continue
			}
			t := time.Unix(n, 0).UTC()
			if n > 1e12 {
				t = time.UnixMilli(n).UTC()
			}
			return &t
		case gjson.String:
			s := strings.TrimSpace(v.String())
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					t = t.UTC()
					return &t
				}
			}
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
