package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"merchant-kit/internal/model"

	"github.com/rs/zerolog"
)

// DefaultSessionID is used when the caller supplies no session header.
const DefaultSessionID = "default_session"

// SessionHeader carries the opaque session key scoping a cart.
const SessionHeader = "X-Session-ID"

// sessionID extracts the caller's session key from the request.
func sessionID(r *http.Request) string {
	if s := r.Header.Get(SessionHeader); s != "" {
		return s
	}
	return DefaultSessionID
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Too late to change the status; nothing useful to do.
		return
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().
		Str("code", code).
		Str("error", message).
		Int("status", status).
		Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a service error onto a status code and structured
// payload. Validation failures and not-found conditions surface with
// their field-level reason; everything unexpected collapses to a 500.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusUnprocessableEntity, model.ErrCodeValidation, ve.Error(), logger)
		return
	}

	var de *model.DomainError
	if errors.As(err, &de) {
		status := http.StatusInternalServerError
		switch de.Code {
		case model.ErrCodeInvalidQuantity:
			status = http.StatusBadRequest
		case model.ErrCodeProductNotFound:
			status = http.StatusNotFound
		case model.ErrCodeCallbackFailure:
			status = http.StatusBadGateway
		}
		writeError(w, status, de.Code, de.Message, logger)
		return
	}

	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}
