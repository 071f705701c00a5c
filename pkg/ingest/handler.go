package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/nicktill/heartbridge/pkg/health"
	"github.com/nicktill/heartbridge/pkg/httpx"
	"github.com/nicktill/heartbridge/pkg/logger"
)

// Processor handles one decoded payload.
type Processor interface {
	Process(ctx context.Context, payload health.Payload) (*Result, error)
}

// Handler receives payloads from the Shortcuts app over HTTP.
type Handler struct {
	processor Processor
}

// NewHandler creates a new ingest handler
func NewHandler(p Processor) *Handler {
	return &Handler{processor: p}
}

// IngestResponse is returned for a processed payload
type IngestResponse struct {
	Message  string   `json:"message"`
	ID       string   `json:"id"`
	Path     string   `json:"path"`
	Count    int      `json:"count"`
	Type     string   `json:"type"`
	Warnings []string `json:"warnings"`
}

// Messages returned for each error category.
const (
	MessageValidation = "Invalid data passed"
	MessageLoading    = "Issues occured while processing data"
	MessageExport     = "An issue occured during data export"
	MessageInternal   = "An unexpected error occured"
)

// HandleIngest handles POST / and POST /v1/ingest
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.RespondErrorString(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			httpx.RespondError(w, http.StatusUnsupportedMediaType, ErrUnsupportedMediaType)
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	payload, err := decodePayload(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.RespondError(w, http.StatusBadRequest, ErrBodyTooLarge)
			return
		}
		logger.Warn().Err(err).Msg("Rejected malformed JSON payload")
		httpx.RespondErrorString(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	result, err := h.processor.Process(r.Context(), payload)
	if err != nil {
		status, message, kind := classify(err)
		logger.Error().Err(err).Str("error_kind", kind).Int("status", status).Msg("Failed to process health data")
		httpx.RespondCategorizedError(w, status, kind, message)
		return
	}

	warnings := result.Advisories
	if warnings == nil {
		warnings = []string{}
	}
	httpx.RespondJSON(w, http.StatusOK, IngestResponse{
		Message:  "Data processed",
		ID:       result.ID.String(),
		Path:     result.Path,
		Count:    result.Count,
		Type:     result.Slug,
		Warnings: warnings,
	})
}

// decodePayload reads exactly one JSON object from body. Numbers keep their
// literal text and anything after the object is an error.
func decodePayload(body io.Reader) (health.Payload, error) {
	decoder := json.NewDecoder(body)
	decoder.UseNumber()

	var payload health.Payload
	if err := decoder.Decode(&payload); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, errTrailingData
	}
	if payload == nil {
		payload = health.Payload{}
	}
	return payload, nil
}

// classify maps an error category onto an HTTP status and message.
func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, health.ErrValidation):
		return http.StatusUnprocessableEntity, MessageValidation, "validation"
	case errors.Is(err, health.ErrLoading):
		return http.StatusBadRequest, MessageLoading, "loading"
	case errors.Is(err, health.ErrExport):
		return http.StatusInternalServerError, MessageExport, "export"
	default:
		return http.StatusInternalServerError, MessageInternal, "internal"
	}
}
