// Package api exposes the management surface: tracked-player registration
// and processed-ledger inspection.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chicken-dinner-club/pubg-tracker/internal/storage"
)

// NewRouter builds the management API router.
func NewRouter(players storage.PlayerStore, ledger storage.MatchLedger, lookup PlayerLookup, registry *prometheus.Registry, logger *slog.Logger) http.Handler {
	h := &Handlers{
		players: players,
		ledger:  ledger,
		lookup:  lookup,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/players", func(r chi.Router) {
		r.Post("/", h.AddPlayer)
		r.Get("/", h.ListPlayers)
		r.Delete("/{name}", h.RemovePlayer)
	})
	r.Get("/matches/processed", h.ListProcessed)

	return r
}
