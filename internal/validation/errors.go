package validation

import (
	"errors"
	"strings"
)

// FieldError describes why a single field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Message
}

// Errors is a collection of field errors produced by struct validation.
type Errors []FieldError

func (e Errors) Error() string {
	messages := make([]string, 0, len(e))
	for _, fe := range e {
		messages = append(messages, fe.Message)
	}
	return strings.Join(messages, "; ")
}

func fieldError(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

// IsValidationError reports whether err (or anything it wraps) came from
// this package.
func IsValidationError(err error) bool {
	var fe *FieldError
	if errors.As(err, &fe) {
		return true
	}
	var errs Errors
	return errors.As(err, &errs)
}

// Details flattens a validation error into field errors for API responses.
func Details(err error) []FieldError {
	var errs Errors
	if errors.As(err, &errs) {
		return errs
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return []FieldError{*fe}
	}
	return nil
}
