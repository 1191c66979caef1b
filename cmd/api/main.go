package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	apiconfig "tenderflow/pkg/api/config"
	apimetrics "tenderflow/pkg/api/metrics"
	"tenderflow/pkg/core/config"
	"tenderflow/pkg/core/digest"
	"tenderflow/pkg/core/logging"
	"tenderflow/pkg/core/metrics"
	"tenderflow/pkg/core/store"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run owns every deferred cleanup so that failures still close the pool and
// stop the scheduler before main exits.
func run() error {
	configPath := os.Getenv("TENDERFLOW_CONFIG")
	if configPath == "" {
		configPath = config.DefaultPath
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return err
	}

	log := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Environment: cfg.Service.Environment,
		ServiceName: cfg.Service.Name,
		Version:     cfg.Service.Version,
	})
	log.Info().
		Str("environment", cfg.Service.Environment).
		Str("base_currency", cfg.Currency.Base).
		Int("rates", len(cfg.Currency.Rates)).
		Msg("Starting tenderflow API")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Snapshots: Postgres when configured, files otherwise or as fallback.
	files := store.NewFileSnapshots(cfg.Snapshots.Dir)
	var loader store.SnapshotLoader = files
	if cfg.Database.URL != "" {
		if cfg.Database.Migrate {
			if err := store.Migrate(ctx, cfg.Database.URL); err != nil {
				log.Error().Err(err).Msg("Failed to apply migrations")
				return err
			}
		}
		if err := store.InitDB(ctx, cfg.Database.URL); err != nil {
			log.Error().Err(err).Msg("Failed to connect to database")
			return err
		}
		defer store.Close()
		loader = &store.Hybrid{Primary: store.NewSnapshotRepo(store.GetPool()), Fallback: files}
		log.Info().Msg("Database connection established")
	} else {
		log.Warn().Str("dir", cfg.Snapshots.Dir).Msg("DATABASE_URL not set, serving file snapshots")
	}

	opts := metrics.Options{
		BaseCurrency:      cfg.Currency.Base,
		CurrencyRates:     cfg.Currency.Rates,
		CurrencyTimestamp: cfg.Currency.TimestampPtr(),
		StrictCurrency:    cfg.Currency.Strict,
	}

	if cfg.Digest.Schedule != "" && len(cfg.Digest.Workspaces) > 0 {
		scheduler := digest.NewScheduler(digest.Config{
			Schedule:   cfg.Digest.Schedule,
			TimeZone:   cfg.Digest.TimeZone,
			Workspaces: cfg.Digest.Workspaces,
			OutputDir:  cfg.Digest.OutputDir,
			Options:    opts,
		}, loader, log)
		if err := scheduler.Start(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to start digest scheduler")
			return err
		}
		defer scheduler.Stop()
	}

	handler := apimetrics.NewHandler(loader, opts, log)
	r := chi.NewRouter()
	r.Get("/api/config", apiconfig.NewHandler(cfg).HandleConfig)
	r.Mount("/", handler.Routes())

	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info().Str("addr", cfg.Server.ListenAddr).Msg("HTTP server listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	var serveErr error
	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server error")
			serveErr = err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
		return err
	}
	return serveErr
}
