package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/templui/fitgoals/internal/model"
	"github.com/templui/fitgoals/internal/repository"
)

const (
	GoogleProviderName   = "google"
	GitHubProviderName   = "github"
	FacebookProviderName = "facebook"
)

// OAuthConfig describes one authorization-code provider.
type OAuthConfig struct {
	Name         string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	Endpoint     oauth2.Endpoint
	// UserInfoURL must return a JSON object with an "email" field.
	UserInfoURL string
	// EmailsURL is queried when UserInfoURL has no email (GitHub private emails).
	EmailsURL string
}

type OAuthProvider struct {
	name        string
	config      *oauth2.Config
	userInfoURL string
	emailsURL   string
	users       repository.UserRepository
	tokens      *JWTIssuer
}

func NewOAuthProvider(cfg OAuthConfig, users repository.UserRepository, tokens *JWTIssuer) *OAuthProvider {
	return &OAuthProvider{
		name: cfg.Name,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     cfg.Endpoint,
		},
		userInfoURL: cfg.UserInfoURL,
		emailsURL:   cfg.EmailsURL,
		users:       users,
		tokens:      tokens,
	}
}

func GoogleConfig(clientID, clientSecret, appURL string) OAuthConfig {
	return OAuthConfig{
		Name:         GoogleProviderName,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  callbackURL(appURL, GoogleProviderName),
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
		Endpoint:     google.Endpoint,
		UserInfoURL:  "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

func GitHubConfig(clientID, clientSecret, appURL string) OAuthConfig {
	return OAuthConfig{
		Name:         GitHubProviderName,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  callbackURL(appURL, GitHubProviderName),
		Scopes:       []string{"user:email"},
		Endpoint:     github.Endpoint,
		UserInfoURL:  "https://api.github.com/user",
		EmailsURL:    "https://api.github.com/user/emails",
	}
}

func FacebookConfig(clientID, clientSecret, appURL string) OAuthConfig {
	return OAuthConfig{
		Name:         FacebookProviderName,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  callbackURL(appURL, FacebookProviderName),
		Scopes:       []string{"email"},
		Endpoint:     facebook.Endpoint,
		UserInfoURL:  "https://graph.facebook.com/me?fields=email",
	}
}

func callbackURL(appURL, provider string) string {
	return strings.TrimRight(appURL, "/") + "/auth/" + provider + "/callback"
}

func (p *OAuthProvider) Name() string {
	return p.name
}

// Authenticate is not available for OAuth providers; use the code exchange.
func (p *OAuthProvider) Authenticate(context.Context, string, string) (*model.AuthToken, error) {
	return nil, ErrUnsupported
}

func (p *OAuthProvider) GenerateToken(_ context.Context, user *model.User) (*model.AuthToken, error) {
	return p.tokens.Issue(user)
}

func (p *OAuthProvider) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	return verifyWithStore(ctx, p.tokens, p.users, token)
}

func (p *OAuthProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for the account's email address.
func (p *OAuthProvider) Exchange(ctx context.Context, code string) (string, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%s token exchange failed: %w", p.name, err)
	}

	client := p.config.Client(ctx, token)

	var userInfo struct {
		Email string `json:"email"`
	}
	err = getJSON(client, p.userInfoURL, &userInfo)
	if err != nil {
		return "", fmt.Errorf("failed to get %s user info: %w", p.name, err)
	}

	if userInfo.Email == "" && p.emailsURL != "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		err = getJSON(client, p.emailsURL, &emails)
		if err != nil {
			return "", fmt.Errorf("failed to get %s user emails: %w", p.name, err)
		}

		for _, e := range emails {
			if e.Primary && e.Verified {
				userInfo.Email = e.Email
				break
			}
		}
	}

	if userInfo.Email == "" {
		return "", ErrNoEmail
	}

	return strings.TrimSpace(strings.ToLower(userInfo.Email)), nil
}

func getJSON(client *http.Client, url string, dst any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}

// GenerateState creates a random state token for OAuth CSRF protection.
func GenerateState() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
