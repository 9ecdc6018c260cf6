package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/templui/fitgoals/internal/auth"
	"github.com/templui/fitgoals/internal/model"
	"github.com/templui/fitgoals/internal/repository"
	"github.com/templui/fitgoals/internal/repository/mocks"
	"github.com/templui/fitgoals/internal/validation"
)

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "ada@example.com" && u.Name == "Ada" && u.HasPassword() && *u.PasswordHash != "Secret1!x"
		})).Return(nil)

		user, token, err := newAuthService(users).Register(ctx, " Ada@Example.com ", "Secret1!x", " Ada ")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, user.ID, token.UserID)
		assert.True(t, token.IsValid())
		assert.Equal(t, []*model.Goal{}, user.Goals)
		users.AssertExpectations(t)
	})

	t.Run("invalid email never reaches the store", func(t *testing.T) {
		users := new(mocks.MockUserRepository)

		_, _, err := newAuthService(users).Register(ctx, "not-an-email", "Secret1!x", "Ada")
		require.Error(t, err)
		assert.True(t, validation.IsValidationError(err))
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("weak password", func(t *testing.T) {
		users := new(mocks.MockUserRepository)

		_, _, err := newAuthService(users).Register(ctx, "ada@example.com", "password", "Ada")
		assert.True(t, validation.IsValidationError(err))
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing name", func(t *testing.T) {
		users := new(mocks.MockUserRepository)

		_, _, err := newAuthService(users).Register(ctx, "ada@example.com", "Secret1!x", "  ")
		assert.True(t, validation.IsValidationError(err))
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateEmail)

		_, _, err := newAuthService(users).Register(ctx, "ada@example.com", "Secret1!x", "Ada")
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := auth.HashPassword("Secret1!x")
	require.NoError(t, err)
	user := &model.User{ID: "user-1", Email: "ada@example.com", Name: "Ada", PasswordHash: &hash}

	t.Run("success", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		users.On("ByEmail", mock.Anything, "ada@example.com").Return(user, nil)
		users.On("ByID", mock.Anything, "user-1").Return(user, nil)

		got, token, err := newAuthService(users).Login(ctx, "ADA@example.com", "Secret1!x")
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.ID)
		assert.Equal(t, "user-1", token.UserID)
		assert.NotNil(t, got.Goals)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		users.On("ByEmail", mock.Anything, "ada@example.com").Return(user, nil)

		_, _, err := newAuthService(users).Login(ctx, "ada@example.com", "Wrong1!xx")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("user vanished after authentication", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		users.On("ByEmail", mock.Anything, "ada@example.com").Return(user, nil)
		users.On("ByID", mock.Anything, "user-1").Return(nil, repository.ErrUserNotFound)

		_, _, err := newAuthService(users).Login(ctx, "ada@example.com", "Secret1!x")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestAuthService_LogoutAndUserByToken(t *testing.T) {
	ctx := context.Background()
	user := &model.User{ID: "user-1", Email: "ada@example.com"}

	token, err := testIssuer().Issue(user)
	require.NoError(t, err)

	users := new(mocks.MockUserRepository)
	users.On("ByID", mock.Anything, "user-1").Return(user, nil)
	svc := newAuthService(users)

	assert.NoError(t, svc.Logout(ctx, token.Token))
	assert.ErrorIs(t, svc.Logout(ctx, ""), ErrMissingToken)
	assert.ErrorIs(t, svc.Logout(ctx, "garbage"), auth.ErrInvalidToken)

	got, err := svc.UserByToken(ctx, token.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)

	_, err = svc.UserByToken(ctx, "")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func fakeProvider(t *testing.T, email string) *auth.OAuthProvider {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access","token_type":"bearer"}`))
	})
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"email": email})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return auth.NewOAuthProvider(auth.OAuthConfig{
		Name:     "google",
		ClientID: "client",
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/authorize",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		UserInfoURL: srv.URL + "/me",
	}, nil, testIssuer())
}

func TestAuthService_AuthenticateOAuth(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user on first login", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		users.On("ByEmail", mock.Anything, "new@example.com").Return(nil, repository.ErrUserNotFound)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "new@example.com" && u.Name == "new" && !u.HasPassword()
		})).Return(nil)

		svc := newAuthService(users, fakeProvider(t, "new@example.com"))
		user, token, err := svc.AuthenticateOAuth(ctx, "google", "code")
		require.NoError(t, err)
		assert.Equal(t, user.ID, token.UserID)
		assert.Equal(t, []*model.Goal{}, user.Goals)
		users.AssertExpectations(t)
	})

	t.Run("existing user", func(t *testing.T) {
		existing := &model.User{ID: "user-1", Email: "ada@example.com"}
		users := new(mocks.MockUserRepository)
		users.On("ByEmail", mock.Anything, "ada@example.com").Return(existing, nil)

		svc := newAuthService(users, fakeProvider(t, "ada@example.com"))
		user, _, err := svc.AuthenticateOAuth(ctx, "google", "code")
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.NotNil(t, user.Goals)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown provider", func(t *testing.T) {
		users := new(mocks.MockUserRepository)

		_, _, err := newAuthService(users).AuthenticateOAuth(ctx, "myspace", "code")
		assert.ErrorIs(t, err, auth.ErrUnknownProvider)
	})

	t.Run("password provider is not an oauth provider", func(t *testing.T) {
		users := new(mocks.MockUserRepository)

		_, err := newAuthService(users).OAuthURL("password", "state")
		assert.True(t, errors.Is(err, auth.ErrUnknownProvider))
	})
}

func TestAuthService_OAuthURL(t *testing.T) {
	users := new(mocks.MockUserRepository)
	svc := newAuthService(users, fakeProvider(t, "x@example.com"))

	url, err := svc.OAuthURL("google", "abc")
	require.NoError(t, err)
	assert.Contains(t, url, "state=abc")
}
