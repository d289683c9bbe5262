package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/jrsteele09/finvofy-auth/internal/errors"
)

const contentTypeJSON = "application/json; charset=utf-8"

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	StatusCode int               `json:"statusCode"`
	Error      string            `json:"error"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string, fields map[string]string) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
		Fields:     fields,
	})
}

// handleError translates service errors into HTTP responses. Only the
// boundary error types expose their message; anything else is a 500.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *apperrors.ValidationError
	var conflictErr *apperrors.ConflictError
	var unauthorizedErr *apperrors.UnauthorizedError

	switch {
	case apperrors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "Validation failed", validationErr.Fields)
	case apperrors.As(err, &conflictErr):
		writeError(w, http.StatusConflict, conflictErr.Message, nil)
	case apperrors.As(err, &unauthorizedErr):
		s.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("unauthorized")
		writeError(w, http.StatusUnauthorized, unauthorizedErr.Message, nil)
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}
