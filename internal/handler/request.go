package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/templui/fitgoals/internal/respond"
	"github.com/templui/fitgoals/internal/validation"
)

const maxBodyBytes = 1 << 20

// decode reads a JSON body into dst and runs its validate tags. It writes the
// 400 response itself and reports false when the request should stop.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		msg := "invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			msg = "request body too large"
		}
		respond.Error(w, http.StatusBadRequest, msg, nil)
		return false
	}

	err = validation.Struct(dst)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "validation failed", validation.Details(err))
		return false
	}

	return true
}
