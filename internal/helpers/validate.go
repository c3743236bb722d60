package helpers

import (
	"regexp"
	"strings"
)

var (
	emailRe       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	studentCodeRe = regexp.MustCompile(`^[A-Z0-9]{6,10}$`)
	courseCodeRe  = regexp.MustCompile(`[^A-Z0-9]`)
)

// IsValidEmail reports whether s looks like an email address. Structural
// check only, no MX or deliverability verification.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsValidStudentCode reports whether s is a 6-10 character uppercase
// alphanumeric institutional code.
func IsValidStudentCode(s string) bool {
	return studentCodeRe.MatchString(s)
}

// FormatCourseCode normalizes a course code to uppercase alphanumerics.
// Fails open: if nothing survives normalization the original input is
// returned unchanged.
func FormatCourseCode(s string) string {
	formatted := courseCodeRe.ReplaceAllString(strings.ToUpper(strings.TrimSpace(s)), "")
	if formatted == "" {
		return s
	}
	return formatted
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// SanitizeInput HTML-entity-escapes & < > " ' / for rendering user input
// into HTML contexts. The replacement is a single pass, so applying it twice
// re-escapes the ampersands of already-produced entities. That is expected,
// not a bug: sanitize exactly once at the rendering boundary.
func SanitizeInput(s string) string {
	return htmlEscaper.Replace(s)
}

// ValidateRequiredFields checks that every required key is present and
// non-empty in data. Empty or whitespace-only strings, nil values, zero
// numbers and false are all treated as missing.
func ValidateRequiredFields(data map[string]interface{}, requiredFields []string) (bool, []string) {
	var missing []string

	for _, field := range requiredFields {
		value, ok := data[field]
		if !ok || isMissing(value) {
			missing = append(missing, field)
		}
	}

	return len(missing) == 0, missing
}

func isMissing(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	case int:
		return v == 0
	case int64:
		return v == 0
	case float64:
		return v == 0
	default:
		return false
	}
}
