package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/fitgoals/internal/auth"
	"github.com/templui/fitgoals/internal/ctxkeys"
	"github.com/templui/fitgoals/internal/middleware"
	"github.com/templui/fitgoals/internal/model"
	"github.com/templui/fitgoals/internal/respond"
	"github.com/templui/fitgoals/internal/service"
)

const oauthStateCookie = "oauth_state"

type registerRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// authResponse is returned by every successful login path.
type authResponse struct {
	User  *model.User      `json:"user"`
	Token *model.AuthToken `json:"token"`
}

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}

	user, token, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, r, err, "failed to register user")
		return
	}

	respond.JSON(w, http.StatusCreated, "user registered", authResponse{User: user, Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, "failed to log in")
		return
	}

	respond.JSON(w, http.StatusOK, "logged in", authResponse{User: user, Token: token})
}

// Logout checks the bearer token. A missing token is 401, a token that does
// not verify is 400.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.authService.Logout(r.Context(), middleware.BearerToken(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingToken):
			respond.Error(w, http.StatusUnauthorized, "missing bearer token", nil)
		case errors.Is(err, auth.ErrInvalidToken):
			respond.Error(w, http.StatusBadRequest, "invalid or expired token", nil)
		default:
			writeError(w, r, err, "failed to log out")
		}
		return
	}

	respond.NoContent(w)
}

// OAuthStart redirects to the provider's consent screen with a state value
// mirrored in a short-lived cookie.
func (h *AuthHandler) OAuthStart(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")

	state, err := auth.GenerateState()
	if err != nil {
		writeError(w, r, err, "failed to generate oauth state")
		return
	}

	url, err := h.authService.OAuthURL(provider, state)
	if err != nil {
		writeError(w, r, err, "failed to build oauth url")
		return
	}

	cfg := ctxkeys.Config(r.Context())
	isProduction := cfg != nil && cfg.IsProduction()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/",
		HttpOnly: true,
		Secure:   isProduction, // Secure flag based on APP_ENV (safer than r.TLS behind load balancers)
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")

	// Validate state parameter for CSRF protection
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		slog.Warn("oauth state validation failed", "provider", provider, "error", err)
		respond.Error(w, http.StatusBadRequest, "invalid oauth state", nil)
		return
	}

	// Clear state cookie
	http.SetCookie(w, &http.Cookie{
		Name:   oauthStateCookie,
		Value:  "",
		Path:   "/auth/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("oauth callback missing code", "provider", provider)
		respond.Error(w, http.StatusBadRequest, "missing authorization code", nil)
		return
	}

	user, token, err := h.authService.AuthenticateOAuth(r.Context(), provider, code)
	if err != nil {
		writeError(w, r, err, "oauth authentication failed")
		return
	}

	respond.JSON(w, http.StatusOK, "logged in", authResponse{User: user, Token: token})
}
