// Package handlers writes JSON responses for HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

// RespondJSON writes v as JSON with the given status.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// RespondError logs err and writes an error body. Internal server errors
// carry a generic message so internal state never reaches the client.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	RespondErrorHint(w, logger, status, err, "")
}

// RespondErrorHint is RespondError with a remediation hint for the client.
func RespondErrorHint(w http.ResponseWriter, logger *slog.Logger, status int, err error, hint string) {
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
		if status == http.StatusInternalServerError {
			msg = http.StatusText(status)
		}
	} else {
		logger.Debug("request rejected", "status", status, "error", err)
	}

	RespondJSON(w, status, ErrorResponse{Error: msg, Hint: hint})
}
