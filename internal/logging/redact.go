package logging

import (
	"regexp"
	"strings"
)

// Field names whose values never reach a log line.
var sensitiveFields = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"apikey",
	"authorization",
	"message",
	"phone",
	"whatsapp",
}

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@([A-Za-z0-9.\-]+\.[A-Za-z]{2,})`)
	phonePattern = regexp.MustCompile(`\+?\d[\d \-]{7,}\d`)
	bearerToken  = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._\-]{20,}`)
)

// RedactedValue is the replacement for sensitive values.
const RedactedValue = "[REDACTED]"

// MaskEmail keeps the domain of an address and hides the local part.
// Input that is not an address is fully redacted.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return RedactedValue
	}
	return email[:1] + "***" + email[at:]
}

// MaskPhone keeps the last two digits of a phone number.
func MaskPhone(phone string) string {
	digits := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}
	if len(digits) < 4 {
		return RedactedValue
	}
	return strings.Repeat("*", len(digits)-2) + string(digits[len(digits)-2:])
}

// Redact masks email addresses, phone numbers and bearer tokens in free text.
func Redact(s string) string {
	s = bearerToken.ReplaceAllString(s, RedactedValue)
	s = emailPattern.ReplaceAllStringFunc(s, MaskEmail)
	return phonePattern.ReplaceAllStringFunc(s, MaskPhone)
}

// RedactMap redacts sensitive fields in a map, recursing into nested maps.
func RedactMap(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case map[string]any:
			result[k] = RedactMap(val)
		case string:
			if IsSensitiveField(k) {
				result[k] = RedactedValue
			} else {
				result[k] = Redact(val)
			}
		default:
			if IsSensitiveField(k) {
				result[k] = RedactedValue
			} else {
				result[k] = v
			}
		}
	}
	return result
}

// IsSensitiveField checks if a field name is considered sensitive.
func IsSensitiveField(name string) bool {
	lowerName := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lowerName, field) {
			return true
		}
	}
	return false
}
