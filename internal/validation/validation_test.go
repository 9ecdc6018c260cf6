package validation

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "user@example.com", false},
		{"subdomain", "a.b@mail.example.co", false},
		{"empty", "", true},
		{"no at", "userexample.com", true},
		{"no domain dot", "user@example", true},
		{"whitespace", "us er@example.com", true},
		{"double at", "a@b@example.com", true},
		{"too long", strings.Repeat("a", 250) + "@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantMsg  string
	}{
		{"valid", "Secret1!x", ""},
		{"too short", "Se1!", "at least 8 characters"},
		{"too long", "Aa1!" + strings.Repeat("x", 69), "must not exceed 72"},
		{"no upper", "secret1!x", "uppercase"},
		{"no lower", "SECRET1!X", "lowercase"},
		{"no digit", "Secret!!x", "number"},
		{"no special", "Secret12x", "special"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Ada"))
	assert.Error(t, ValidateName("   "))
	assert.Error(t, ValidateName(strings.Repeat("n", 101)))
}

func TestValidateGoalFields(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateGoalType("running"))
	assert.Error(t, ValidateGoalType(""))

	assert.NoError(t, ValidateTarget(10))
	assert.Error(t, ValidateTarget(0))
	assert.Error(t, ValidateTarget(-3))

	assert.NoError(t, ValidateDeadline(now.Add(time.Hour), now))
	assert.Error(t, ValidateDeadline(now, now))
	assert.Error(t, ValidateDeadline(now.Add(-time.Hour), now))
	assert.Error(t, ValidateDeadline(time.Time{}, now))

	assert.NoError(t, ValidateProgress(0))
	assert.Error(t, ValidateProgress(-1))
}

func TestFieldErrorCarriesField(t *testing.T) {
	err := ValidateTarget(0)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "target", fe.Field)
	assert.Equal(t, []FieldError{*fe}, Details(err))
}

func TestIsValidationErrorThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create goal: %w", ValidateGoalType(""))
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(errors.New("boom")))
}

type signupRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Name     string  `json:"name" validate:"required,max=100"`
	Target   float64 `json:"target" validate:"gt=0"`
	Internal string  `json:"-"`
}

func TestStruct(t *testing.T) {
	err := Struct(signupRequest{Email: "a@example.com", Name: "Ada", Target: 1})
	assert.NoError(t, err)

	err = Struct(signupRequest{Email: "nope"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	details := Details(err)
	fields := make([]string, 0, len(details))
	for _, d := range details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"email", "name", "target"}, fields)
}
