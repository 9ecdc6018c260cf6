package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/templui/fitgoals/internal/model"
	"github.com/templui/fitgoals/internal/repository"
)

const PasswordProviderName = "password"

func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// PasswordProvider authenticates email/password pairs against the user store.
type PasswordProvider struct {
	users  repository.UserRepository
	tokens *JWTIssuer
}

func NewPasswordProvider(users repository.UserRepository, tokens *JWTIssuer) *PasswordProvider {
	return &PasswordProvider{users: users, tokens: tokens}
}

func (p *PasswordProvider) Name() string {
	return PasswordProviderName
}

func (p *PasswordProvider) Authenticate(ctx context.Context, email, password string) (*model.AuthToken, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := p.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// OAuth-only accounts have no password to compare against
	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	err = ComparePassword(password, *user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return p.tokens.Issue(user)
}

func (p *PasswordProvider) GenerateToken(_ context.Context, user *model.User) (*model.AuthToken, error) {
	return p.tokens.Issue(user)
}

func (p *PasswordProvider) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	return verifyWithStore(ctx, p.tokens, p.users, token)
}

func verifyWithStore(ctx context.Context, tokens *JWTIssuer, users repository.UserRepository, token string) (*model.User, error) {
	claims, err := tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := users.ByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
