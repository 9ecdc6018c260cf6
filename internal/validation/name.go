package validation

import (
	"strings"
	"unicode/utf8"
)

// ValidateName validates the user's display name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return fieldError("name", "name is required")
	}

	if utf8.RuneCountInString(trimmed) > 100 {
		return fieldError("name", "name is too long (max 100 characters)")
	}

	return nil
}
