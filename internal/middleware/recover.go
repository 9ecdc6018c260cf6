package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/templui/fitgoals/internal/ctxkeys"
	"github.com/templui/fitgoals/internal/respond"
)

// Recover turns a panicking handler into a 500 JSON response and logs the
// stack trace.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				slog.ErrorContext(r.Context(), "request panic",
					slog.Group("http",
						"uri", r.RequestURI,
						"method", r.Method,
						"request_id", ctxkeys.RequestID(r.Context()),
					),
					slog.Group("error",
						"panic", p,
						"stack", string(debug.Stack()),
					),
				)
				respond.Error(w, http.StatusInternalServerError, "internal server error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
