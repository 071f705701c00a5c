// Package httpx provides HTTP response utilities.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/nicktill/heartbridge/pkg/logger"
)

// RespondJSON writes a JSON response with the given status code and data.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Int("status", status).Msg("Failed to encode JSON response")
	}
}

// ErrorResponse is the body of every failed request. Kind names the failure
// category (validation, loading, export, internal) when the request reached
// the pipeline.
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

// RespondError writes an error response using err as the message.
func RespondError(w http.ResponseWriter, status int, err error) {
	RespondErrorString(w, status, err.Error())
}

// RespondErrorString writes an error response with the given status code and message.
func RespondErrorString(w http.ResponseWriter, status int, message string) {
	RespondCategorizedError(w, status, "", message)
}

// RespondCategorizedError writes an error response tagged with the failure kind.
func RespondCategorizedError(w http.ResponseWriter, status int, kind, message string) {
	RespondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Kind:    kind,
		Message: message,
	})
}
