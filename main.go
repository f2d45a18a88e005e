package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chicken-dinner-club/pubg-tracker/app"
	"github.com/chicken-dinner-club/pubg-tracker/config"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", slog.Any("error", err))
		os.Exit(1)
	}

	// Stop signals cancel the context, which cancels the sleep or fetch the
	// monitoring loop is currently in.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		logger.Info("shutdown signal received")
		cancel()
	}()

	if err := application.Run(ctx); err != nil {
		logger.Error("application failed", slog.Any("error", err))
	}

	if err := application.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown incomplete", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application shut down gracefully")
}
