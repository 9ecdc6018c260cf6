package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/templui/fitgoals/internal/repository/mocks"
)

// fakeOAuthServer serves a token endpoint plus user info endpoints.
func fakeOAuthServer(t *testing.T, email string, emails []map[string]any) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]string{"email": email})
	})
	mux.HandleFunc("GET /user/emails", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(emails)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testProvider(srv *httptest.Server, withEmails bool) *OAuthProvider {
	cfg := OAuthConfig{
		Name:         "test",
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/auth/test/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/authorize",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		UserInfoURL: srv.URL + "/user",
	}
	if withEmails {
		cfg.EmailsURL = srv.URL + "/user/emails"
	}
	return NewOAuthProvider(cfg, new(mocks.MockUserRepository), NewJWTIssuer("secret", "fitgoals", time.Hour))
}

func TestOAuthProvider_Exchange(t *testing.T) {
	srv := fakeOAuthServer(t, "Ada@Example.com", nil)
	p := testProvider(srv, false)

	email, err := p.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)

	_, err = p.Exchange(context.Background(), "bad-code")
	assert.Error(t, err)
}

func TestOAuthProvider_ExchangeFallsBackToEmails(t *testing.T) {
	srv := fakeOAuthServer(t, "", []map[string]any{
		{"email": "old@example.com", "primary": false, "verified": true},
		{"email": "primary@example.com", "primary": true, "verified": true},
	})

	email, err := testProvider(srv, true).Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "primary@example.com", email)
}

func TestOAuthProvider_ExchangeNoEmail(t *testing.T) {
	srv := fakeOAuthServer(t, "", nil)

	_, err := testProvider(srv, false).Exchange(context.Background(), "good-code")
	assert.ErrorIs(t, err, ErrNoEmail)
}

func TestOAuthProvider_AuthCodeURL(t *testing.T) {
	srv := fakeOAuthServer(t, "", nil)
	p := testProvider(srv, false)

	u, err := url.Parse(p.AuthCodeURL("state-123"))
	require.NoError(t, err)
	assert.Equal(t, "state-123", u.Query().Get("state"))
	assert.Equal(t, "client", u.Query().Get("client_id"))
	assert.Equal(t, "http://localhost/auth/test/callback", u.Query().Get("redirect_uri"))
}

func TestOAuthProvider_AuthenticateUnsupported(t *testing.T) {
	srv := fakeOAuthServer(t, "", nil)

	_, err := testProvider(srv, false).Authenticate(context.Background(), "a@example.com", "x")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestProviderConfigs(t *testing.T) {
	assert.Equal(t, "https://app.example.com/auth/google/callback", GoogleConfig("id", "s", "https://app.example.com/").RedirectURL)
	assert.Equal(t, "https://api.github.com/user/emails", GitHubConfig("id", "s", "https://app.example.com").EmailsURL)
	assert.Equal(t, []string{"email"}, FacebookConfig("id", "s", "https://app.example.com").Scopes)
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	require.NoError(t, err)
	b, err := GenerateState()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
