// ABOUTME: JSON response helpers and the error-to-status mapping for the API.
// ABOUTME: Storage failures are logged with the request ID and hidden from clients.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harperreed/bp/internal/logging"
	"github.com/harperreed/bp/internal/parser"
	"github.com/harperreed/bp/internal/storage"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// writeJSON encodes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent, nothing useful to do with an encode error.
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string, details ...string) {
	writeJSON(w, status, ErrorResponse{Error: message, Details: details})
}

// respondError maps err to a status code and writes it.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *parser.ValidationError
		perr *storage.ParameterError
	)
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "Validation failed", verr.Messages()...)
	case errors.As(err, &perr):
		writeError(w, http.StatusBadRequest, perr.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "Record not found")
	case errors.Is(err, storage.ErrMissingField):
		writeError(w, http.StatusBadRequest, "Validation failed", err.Error())
	default:
		logging.FromContext(r.Context(), s.logger).Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
