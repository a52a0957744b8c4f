package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/msomdec/shoplist/internal/domain"
)

const internalErrorMessage = "An unexpected error occurred. Please try again."

// writeServiceError maps a service error onto a status code and a single
// client-facing message. Unexpected errors are logged under op and never
// echoed back.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, detail(err, domain.ErrInvalidInput, "Invalid request."))
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusBadRequest, detail(err, domain.ErrConflict, "That account already exists."))
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, detail(err, domain.ErrNotFound, "Not found."))
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "Too many requests. Please slow down.")
	default:
		slog.ErrorContext(r.Context(), op, "error", err)
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
	}
}

// detail returns the text a service attached after the sentinel, or fallback
// when the sentinel was returned bare.
func detail(err, sentinel error, fallback string) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return fallback
}
