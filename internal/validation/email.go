package validation

import (
	"regexp"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail validates email format and length
func ValidateEmail(email string) error {
	if email == "" {
		return fieldError("email", "email address is required")
	}

	// RFC 5321: total max 254 with @
	if len(email) > 254 {
		return fieldError("email", "email address is too long (max 254 characters)")
	}

	if !emailPattern.MatchString(email) {
		return fieldError("email", "invalid email format")
	}

	return nil
}
