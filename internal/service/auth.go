package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/templui/fitgoals/internal/auth"
	"github.com/templui/fitgoals/internal/model"
	"github.com/templui/fitgoals/internal/repository"
	"github.com/templui/fitgoals/internal/validation"
)

type AuthService struct {
	userRepository repository.UserRepository
	provider       auth.Provider
	providers      *auth.Registry
	emailService   *EmailService
}

// NewAuthService wires the provider used for password login and bearer
// verification, plus the registry used for OAuth code exchanges.
func NewAuthService(
	userRepository repository.UserRepository,
	provider auth.Provider,
	providers *auth.Registry,
	emailService *EmailService,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		provider:       provider,
		providers:      providers,
		emailService:   emailService,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// Register validates everything before touching the store, then creates the
// user and issues a token. The welcome email is best effort.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*model.User, *model.AuthToken, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, nil, err
	}
	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, nil, err
	}
	err = validation.ValidateName(name)
	if err != nil {
		return nil, nil, err
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: &hashedPassword,
		Name:         name,
		Progress:     model.ProgressLog{},
		Goals:        []*model.Goal{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.provider.GenerateToken(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate token: %w", err)
	}

	err = s.emailService.SendWelcomeEmail(ctx, user.Email, user.Name)
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login authenticates through the configured provider and confirms the
// token's user still exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, *model.AuthToken, error) {
	token, err := s.provider.Authenticate(ctx, normalizeEmail(email), password)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepository.ByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, auth.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.Goals = []*model.Goal{}

	slog.Info("user logged in", "user_id", user.ID, "provider", s.provider.Name())
	return user, token, nil
}

// Logout verifies the token. Tokens are stateless, so nothing is revoked.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrMissingToken
	}

	user, err := s.provider.VerifyToken(ctx, token)
	if err != nil {
		return err
	}

	slog.Info("user logged out", "user_id", user.ID)
	return nil
}

func (s *AuthService) UserByToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	return s.provider.VerifyToken(ctx, token)
}

// OAuthURL returns the consent screen URL for the named provider.
func (s *AuthService) OAuthURL(providerName, state string) (string, error) {
	p, err := s.providers.OAuth(providerName)
	if err != nil {
		return "", err
	}
	return p.AuthCodeURL(state), nil
}

// AuthenticateOAuth exchanges the code for a verified email, creates the user
// on first login and issues a token.
func (s *AuthService) AuthenticateOAuth(ctx context.Context, providerName, code string) (*model.User, *model.AuthToken, error) {
	p, err := s.providers.OAuth(providerName)
	if err != nil {
		return nil, nil, err
	}

	email, err := p.Exchange(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	err = validation.ValidateEmail(email)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, fmt.Errorf("failed to lookup user: %w", err)
		}

		now := time.Now().UTC()
		user = &model.User{
			ID:        uuid.New().String(),
			Email:     email,
			Name:      nameFromEmail(email),
			Progress:  model.ProgressLog{},
			CreatedAt: now,
			UpdatedAt: now,
			// password_hash is NULL for OAuth accounts
		}

		err = s.userRepository.Create(ctx, user)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create user: %w", err)
		}

		err = s.emailService.SendWelcomeEmail(ctx, user.Email, user.Name)
		if err != nil {
			slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
		}

		slog.Info("new OAuth user created", "email", email, "user_id", user.ID, "provider", providerName)
	}

	user.Goals = []*model.Goal{}

	token, err := p.GenerateToken(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("user authenticated via OAuth", "user_id", user.ID, "provider", providerName)
	return user, token, nil
}

func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return email
	}
	return local
}
