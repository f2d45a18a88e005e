// Package app wires the tracker's services together. Everything is an
// explicit object constructed here and passed by handle; there is no ambient
// global state.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/chicken-dinner-club/pubg-tracker/api"
	"github.com/chicken-dinner-club/pubg-tracker/config"
	"github.com/chicken-dinner-club/pubg-tracker/internal/metrics"
	"github.com/chicken-dinner-club/pubg-tracker/internal/monitor"
	"github.com/chicken-dinner-club/pubg-tracker/internal/notify"
	"github.com/chicken-dinner-club/pubg-tracker/internal/pubgapi"
	"github.com/chicken-dinner-club/pubg-tracker/internal/storage"
)

// App holds the wired services.
type App struct {
	Cfg      *config.Config
	Monitor  *monitor.Monitor
	Notifier *notify.NATSNotifier
	Client   *pubgapi.Client
	Logger   *slog.Logger

	db         *storage.DBService
	httpServer *http.Server
}

// NewApp initializes the application with the necessary services and configuration.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	dbService, err := storage.NewDBService(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	client := pubgapi.NewClient(
		cfg.PUBG.BaseURL,
		cfg.PUBG.APIKey,
		cfg.PUBG.Shard,
		cfg.PUBG.MaxRequestsPerMinute,
		logger,
		m,
	)

	notifier, err := notify.NewNATSNotifier(cfg.NATS.URL, cfg.NATS.Subject, logger)
	if err != nil {
		dbService.Close()
		return nil, fmt.Errorf("failed to initialize notifier: %w", err)
	}

	mon := monitor.New(
		monitor.Config{
			CheckInterval:      cfg.Monitor.CheckInterval,
			MaxMatchesPerCycle: cfg.Monitor.MaxMatchesPerCycle,
		},
		client,
		dbService.Players,
		dbService.Ledger,
		notifier,
		logger,
		m,
	)

	router := api.NewRouter(dbService.Players, dbService.Ledger, client, registry, logger)
	httpServer := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	return &App{
		Cfg:        cfg,
		Monitor:    mon,
		Notifier:   notifier,
		Client:     client,
		Logger:     logger,
		db:         dbService,
		httpServer: httpServer,
	}, nil
}

// DB returns the storage service.
func (a *App) DB() *storage.DBService {
	return a.db
}

// Run starts the monitoring loop and the management API and blocks until ctx
// is cancelled or either service fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		a.Logger.Info("management API listening", slog.String("addr", a.Cfg.HTTP.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server failed: %w", err)
		}
	}()

	go func() {
		if err := a.Monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- fmt.Errorf("monitor failed: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown stops the HTTP server and releases the notifier and database.
func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var errs []error
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := a.Notifier.Close(); err != nil {
		errs = append(errs, fmt.Errorf("notifier close: %w", err))
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("db close: %w", err))
	}
	return errors.Join(errs...)
}
