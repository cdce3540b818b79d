package errors

import (
	"strings"
	"unicode"
)

// MaxNameLength is the longest record name accepted by ValidateName.
const MaxNameLength = 128

// ValidateName validates a record name for save and load requests.
// Names double as file names and storage keys, so the rules reject anything
// that could escape a directory or break a key:
//   - No empty or whitespace-only names
//   - No control characters or null bytes
//   - No path separators or parent directory sequences
//   - Maximum length of MaxNameLength characters
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "Please Enter a valid filename")
	}

	if len(name) > MaxNameLength {
		return New(ErrCodeInvalidName, "name too long (max %d characters)", MaxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateFormat checks that format is one of the allowed values.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of: %s)", format, strings.Join(allowed, ", "))
}
