package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/fitgoals/internal/auth"
	"github.com/templui/fitgoals/internal/ctxkeys"
	"github.com/templui/fitgoals/internal/repository"
	"github.com/templui/fitgoals/internal/respond"
	"github.com/templui/fitgoals/internal/service"
	"github.com/templui/fitgoals/internal/validation"
)

var (
	errMissingOwner = errors.New("missing user id: send a bearer token or the X-User-ID header")
	errForbidden    = errors.New("not allowed to access another user's resources")
)

// writeError maps domain errors to HTTP statuses. Unknown errors are logged
// and reported as a generic 500 so no internal detail reaches the client.
func writeError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	switch {
	case validation.IsValidationError(err):
		respond.Error(w, http.StatusBadRequest, "validation failed", validation.Details(err))
	case errors.Is(err, repository.ErrDuplicateEmail):
		respond.Error(w, http.StatusBadRequest, "email already in use", nil)
	case errors.Is(err, service.ErrInvalidSort):
		respond.Error(w, http.StatusBadRequest, "invalid sort order", err.Error())
	case errors.Is(err, errMissingOwner):
		respond.Error(w, http.StatusBadRequest, "missing user id", err.Error())
	case errors.Is(err, errForbidden):
		respond.Error(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, repository.ErrUserNotFound):
		respond.Error(w, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, repository.ErrGoalNotFound):
		respond.Error(w, http.StatusNotFound, "goal not found", nil)
	case errors.Is(err, auth.ErrUnknownProvider):
		respond.Error(w, http.StatusNotFound, "unknown auth provider", nil)
	case errors.Is(err, auth.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, "invalid email or password", nil)
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, service.ErrMissingToken):
		respond.Error(w, http.StatusUnauthorized, "invalid or missing token", nil)
	case errors.Is(err, auth.ErrUnsupported):
		respond.Error(w, http.StatusBadRequest, "login method not supported", nil)
	case errors.Is(err, auth.ErrNoEmail):
		respond.Error(w, http.StatusUnauthorized, "provider did not return a verified email", nil)
	case errors.Is(err, service.ErrStorageDisabled):
		respond.Error(w, http.StatusServiceUnavailable, "file storage is not configured", nil)
	default:
		slog.Error(logMsg, "error", err, "path", r.URL.Path, "request_id", ctxkeys.RequestID(r.Context()))
		respond.Error(w, http.StatusInternalServerError, "internal server error", nil)
	}
}
