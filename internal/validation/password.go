package validation

import (
	"strings"
	"unicode"
)

const specialCharacters = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// ValidatePassword validates password strength: 8 to 72 characters with at
// least one uppercase letter, one lowercase letter, one digit and one special
// character.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fieldError("password", "password must be at least 8 characters long")
	}

	// bcrypt silently truncates anything past 72 bytes
	if len(password) > 72 {
		return fieldError("password", "password must not exceed 72 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialCharacters, r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return fieldError("password", "password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fieldError("password", "password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return fieldError("password", "password must contain at least one number")
	}
	if !hasSpecial {
		return fieldError("password", "password must contain at least one special character")
	}

	return nil
}
