package identity

import "strings"

// NormalizePhone strips formatting from a phone number. North American numbers
// are written as +1 followed by the last ten digits so that "555-123-4567",
// "1 (555) 123-4567" and "+15551234567" compare equal. Other numbers keep a
// leading + when one was given.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case digits == "":
		return ""
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && digits[0] == '1':
		return "+" + digits
	case strings.HasPrefix(phone, "+"):
		return "+" + digits
	default:
		return digits
	}
}
