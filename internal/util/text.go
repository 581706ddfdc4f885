package util

import "strings"

// SanitizePostgresText strips bytes Postgres rejects in text columns,
// invalid UTF-8 sequences and NUL bytes.
func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}

// SanitizeOptionalText sanitizes a nullable text field in place.
func SanitizeOptionalText(value *string) *string {
	if value == nil {
		return nil
	}
	sanitized := SanitizePostgresText(*value)
	return &sanitized
}
