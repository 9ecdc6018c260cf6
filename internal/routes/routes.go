package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/templui/fitgoals/internal/app"
	"github.com/templui/fitgoals/internal/handler"
	"github.com/templui/fitgoals/internal/middleware"
	"github.com/templui/fitgoals/internal/respond"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	user := handler.NewUserHandler(app.UserService)
	goal := handler.NewGoalHandler(app.GoalService)
	dashboard := handler.NewDashboardHandler(app.GoalService)
	health := handler.NewHealthHandler(app.Ping)

	mux := http.NewServeMux()

	// ============================================================================
	// OPERATIONS
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)
	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.HandlerFor(app.Metrics, promhttp.HandlerOpts{}))
	}

	// ============================================================================
	// AUTH
	// ============================================================================

	// Auth - Authentication flow (rate limited)
	rateLimiter := middleware.RateLimitAuth(app.Cfg.AuthRateLimit, app.Cfg.AuthRateWindow, app.Cfg.TrustProxy)

	mux.HandleFunc("POST /auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// OAuth
	mux.HandleFunc("GET /auth/{provider}", rateLimiter(auth.OAuthStart))
	mux.HandleFunc("GET /auth/{provider}/callback", rateLimiter(auth.OAuthCallback))

	// ============================================================================
	// USERS
	// ============================================================================

	mux.HandleFunc("GET /users", middleware.RequireAuth(user.List))
	mux.HandleFunc("POST /users", user.Create)
	mux.HandleFunc("GET /users/{id}", middleware.RequireAuth(user.Get))
	mux.HandleFunc("PUT /users/{id}", middleware.RequireAuth(user.Update))
	mux.HandleFunc("DELETE /users/{id}", middleware.RequireAuth(user.Delete))
	mux.HandleFunc("POST /users/{id}/avatar", middleware.RequireAuth(user.UploadAvatar))
	mux.HandleFunc("DELETE /users/{id}/avatar", middleware.RequireAuth(user.DeleteAvatar))

	// ============================================================================
	// GOALS (bearer token or X-User-ID header)
	// ============================================================================

	mux.HandleFunc("GET /goals", goal.List)
	mux.HandleFunc("POST /goals", goal.Create)
	mux.HandleFunc("GET /goals/{id}", goal.Get)
	mux.HandleFunc("PUT /goals/{id}", goal.Update)
	mux.HandleFunc("DELETE /goals/{id}", goal.Delete)
	mux.HandleFunc("GET /goals/{id}/progress", goal.Progress)
	mux.HandleFunc("PUT /goals/{id}/progress", goal.UpdateProgress)

	mux.HandleFunc("GET /dashboard", middleware.RequireAuth(dashboard.Summary))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusNotFound, "route not found", nil)
	})

	// Global middleware - executed in order (top to bottom)
	middlewares := []func(http.Handler) http.Handler{
		middleware.Recover,
		middleware.RequestID,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService),
	}
	if app.HTTPMetrics != nil {
		// Innermost: the route pattern is only set once the mux has matched
		middlewares = append(middlewares, app.HTTPMetrics.Handler)
	}

	return middleware.Chain(mux, middlewares...)
}
