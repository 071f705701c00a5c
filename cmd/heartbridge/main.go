package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"

	"github.com/nicktill/heartbridge/pkg/config"
	"github.com/nicktill/heartbridge/pkg/ingest"
	"github.com/nicktill/heartbridge/pkg/ledger"
	"github.com/nicktill/heartbridge/pkg/logger"
	"github.com/nicktill/heartbridge/pkg/server"
)

// app holds everything main starts and has to stop again.
type app struct {
	cfg         *config.Config
	ledger      ledger.Ledger
	pipeline    *ingest.Pipeline
	router      *mux.Router
	maintenance *cron.Cron
}

func newApp(cfg *config.Config) (*app, error) {
	l, err := server.InitializeLedger(cfg)
	if err != nil {
		return nil, err
	}

	pipeline, err := server.InitializePipeline(cfg, l)
	if err != nil {
		l.Close()
		return nil, err
	}

	maintenance, err := server.StartMaintenance(l, cfg.LedgerRetention)
	if err != nil {
		l.Close()
		return nil, fmt.Errorf("failed to schedule ledger maintenance: %w", err)
	}

	router := mux.NewRouter()
	server.SetupRoutes(router, ingest.NewHandler(pipeline), pipeline, l)

	return &app{
		cfg:         cfg,
		ledger:      l,
		pipeline:    pipeline,
		router:      router,
		maintenance: maintenance,
	}, nil
}

func (a *app) close() {
	if a.maintenance != nil {
		<-a.maintenance.Stop().Done()
	}
	if err := a.ledger.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close ledger")
	}
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "heartbridge: %v\n", err)
		os.Exit(2)
	}

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		fmt.Fprintf(os.Stderr, "heartbridge: %v\n", err)
		os.Exit(2)
	}
	if cfg.ConfigFile != "" {
		logger.Info().Str("file", cfg.ConfigFile).Msg("Loaded config file")
	}

	a, err := newApp(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to start")
	}

	srv := server.NewHTTPServer(cfg, a.router)

	go func() {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "localhost"
		}
		logger.Info().
			Str("format", string(cfg.Format)).
			Str("directory", cfg.Directory).
			Msgf("Waiting to receive health data at http://%s:%d", hostname, cfg.Port)
		logger.Info().Msg("Press Ctrl+C to stop listening for new data")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("Server shutdown did not complete cleanly")
	}

	a.close()
	logger.Info().Msg("Heartbridge exited cleanly")
}
