package server

import (
	"fmt"
	"net/http"

	"github.com/nicktill/heartbridge/pkg/config"
	"github.com/nicktill/heartbridge/pkg/export"
	"github.com/nicktill/heartbridge/pkg/ingest"
	"github.com/nicktill/heartbridge/pkg/ledger"
	"github.com/nicktill/heartbridge/pkg/ledger/badger"
	"github.com/nicktill/heartbridge/pkg/ledger/memory"
	"github.com/nicktill/heartbridge/pkg/logger"
)

// InitializeLedger opens the badger ledger at cfg.LedgerPath, or an in-memory
// ledger when no path is configured.
func InitializeLedger(cfg *config.Config) (ledger.Ledger, error) {
	if cfg.LedgerPath == "" {
		logger.Info().Msg("Using in-memory export ledger")
		return memory.New(), nil
	}

	l, err := badger.New(badger.Config{Path: cfg.LedgerPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger at %s: %w", cfg.LedgerPath, err)
	}
	logger.Info().Str("path", cfg.LedgerPath).Msg("BadgerDB export ledger opened")
	return l, nil
}

// InitializePipeline builds the ingest pipeline for the configured format
// and output directory.
func InitializePipeline(cfg *config.Config, l ledger.Ledger) (*ingest.Pipeline, error) {
	exporter, err := export.New(cfg.Format)
	if err != nil {
		return nil, err
	}

	opts := []ingest.PipelineOption{
		ingest.WithDirectory(cfg.Directory),
		ingest.WithLedger(l),
	}
	if cfg.LegacyDayFirst {
		opts = append(opts, ingest.WithParseOptions(ingest.WithDayFirstLegacyDates()))
		logger.Info().Msg("Accepting day-first timestamps from legacy shortcuts")
	}

	return ingest.NewPipeline(exporter, opts...), nil
}

// NewHTTPServer wraps handler with the configured address and timeouts.
func NewHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
}
