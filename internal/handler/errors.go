package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nkulkarni/tripmate/internal/domain"
)

// respond writes v as the JSON response body with the given status.
func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// failure is the error envelope every endpoint shares.
type failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// respondError short-circuits with the {success:false, message} envelope.
func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, failure{Success: false, Message: message})
}

// writeDomainError maps a service error onto the HTTP taxonomy:
// validation → 400, unauthorized → 401, forbidden → 403, not-found → 404,
// conflict → 409, anything else → 500 with the detail logged, never leaked.
// notFoundMsg names what was being looked up, since the handler is the layer
// that knows.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, domain.ErrForbidden):
		respondError(w, http.StatusForbidden, "access denied: insufficient role for this action")
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrConflict):
		respondError(w, http.StatusConflict, "the resource was modified concurrently; reload and retry")
	default:
		slog.ErrorContext(r.Context(), "handler: internal error",
			"method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// validationMessage extracts the human-readable rule from a wrapped
// domain.ErrValidation, e.g.
// "service.TripService.Create: validation error: guests must be between 0 and 10"
// → "guests must be between 0 and 10".
func validationMessage(err error) string {
	msg := err.Error()
	const marker = "validation error: "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}
