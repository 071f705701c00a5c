package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/nicktill/heartbridge/pkg/config"
	"github.com/nicktill/heartbridge/pkg/httpx"
	"github.com/nicktill/heartbridge/pkg/ingest"
	"github.com/nicktill/heartbridge/pkg/ledger"
	"github.com/nicktill/heartbridge/pkg/logger"
)

// Version is reported by the health endpoint.
var Version = "1.0.0"

var startTime = time.Now()

const (
	defaultExportsLimit = 20
	maxExportsLimit     = 500
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string        `json:"status"`
	Version   string        `json:"version"`
	Uptime    string        `json:"uptime"`
	Directory string        `json:"directory"`
	Format    string        `json:"format"`
	Ledger    *ledger.Stats `json:"ledger,omitempty"`
}

// ExportsResponse lists recent exports.
type ExportsResponse struct {
	Exports []ledger.Entry `json:"exports"`
	Count   int            `json:"count"`
}

// handleHealth returns service health status.
func handleHealth(pipeline *ingest.Pipeline, l ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:    "healthy",
			Version:   Version,
			Uptime:    time.Since(startTime).Round(time.Second).String(),
			Directory: pipeline.Directory(),
			Format:    string(pipeline.Format()),
		}

		ctx, cancel := context.WithTimeout(r.Context(), config.LedgerTimeout)
		defer cancel()

		stats, err := l.Stats(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to read ledger stats")
			response.Status = "degraded"
			httpx.RespondJSON(w, http.StatusServiceUnavailable, response)
			return
		}
		response.Ledger = stats

		httpx.RespondJSON(w, http.StatusOK, response)
	}
}

// handleExports returns the most recent ledger entries.
func handleExports(l ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultExportsLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				httpx.RespondErrorString(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = min(parsed, maxExportsLimit)
		}

		ctx, cancel := context.WithTimeout(r.Context(), config.LedgerTimeout)
		defer cancel()

		entries, err := l.Recent(ctx, limit)
		if err != nil {
			httpx.RespondError(w, http.StatusInternalServerError, err)
			return
		}
		if entries == nil {
			entries = []ledger.Entry{}
		}

		httpx.RespondJSON(w, http.StatusOK, ExportsResponse{Exports: entries, Count: len(entries)})
	}
}

// SetupRoutes configures all HTTP routes for the server.
func SetupRoutes(
	router *mux.Router,
	ingestHandler *ingest.Handler,
	pipeline *ingest.Pipeline,
	l ledger.Ledger,
) {
	router.Use(requestLogger)

	// Shortcuts posts to the root path
	router.HandleFunc("/", ingestHandler.HandleIngest).Methods("POST")

	// API routes
	api := router.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/ingest", ingestHandler.HandleIngest).Methods("POST")
	api.HandleFunc("/health", handleHealth(pipeline, l)).Methods("GET")
	api.HandleFunc("/exports", handleExports(l)).Methods("GET")
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// requestLogger logs one line per request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("HTTP request")
	})
}
