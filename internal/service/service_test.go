package service

import (
	"time"

	"github.com/templui/fitgoals/internal/auth"
	"github.com/templui/fitgoals/internal/repository/mocks"
)

func devEmail() *EmailService {
	return NewEmailService("", "noreply@example.com", "http://localhost:8090", "FitGoals", true)
}

func testIssuer() *auth.JWTIssuer {
	return auth.NewJWTIssuer("test-secret", "fitgoals", time.Hour)
}

func newAuthService(users *mocks.MockUserRepository, extra ...auth.Provider) *AuthService {
	password := auth.NewPasswordProvider(users, testIssuer())
	registry := auth.NewRegistry(append([]auth.Provider{password}, extra...)...)
	return NewAuthService(users, password, registry, devEmail())
}
