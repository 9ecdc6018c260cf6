// Package auth issues and verifies bearer tokens. Each login method is a
// Provider; the password provider checks stored bcrypt hashes and the OAuth
// providers exchange authorization codes for a verified email address. All
// of them hand out the same HS256 JWT.
package auth

import (
	"context"
	"errors"

	"github.com/templui/fitgoals/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnsupported        = errors.New("operation not supported by provider")
	ErrUnknownProvider    = errors.New("unknown auth provider")
	ErrNoEmail            = errors.New("provider returned no email address")
)

type Provider interface {
	Name() string
	// Authenticate checks credentials and returns a fresh token.
	Authenticate(ctx context.Context, email, password string) (*model.AuthToken, error)
	GenerateToken(ctx context.Context, user *model.User) (*model.AuthToken, error)
	// VerifyToken resolves a token back to the user it was issued for.
	VerifyToken(ctx context.Context, token string) (*model.User, error)
}
