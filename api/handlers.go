package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chicken-dinner-club/pubg-tracker/internal/pubgapi"
	"github.com/chicken-dinner-club/pubg-tracker/internal/storage"
)

// PlayerLookup resolves player names against the upstream API. Registration
// requires the upstream account id, so adds go through a live lookup.
type PlayerLookup interface {
	GetPlayersByNames(ctx context.Context, names []string) ([]pubgapi.PlayerInfo, error)
}

// Handlers implements the management endpoints.
type Handlers struct {
	players storage.PlayerStore
	ledger  storage.MatchLedger
	lookup  PlayerLookup
	logger  *slog.Logger
}

type addPlayerRequest struct {
	Name string `json:"name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// AddPlayer registers a player for monitoring. The name is resolved upstream
// first; an unknown name is a 404.
func (h *Handlers) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var req addPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"name\": \"<player>\"}"})
		return
	}

	infos, err := h.lookup.GetPlayersByNames(r.Context(), []string{req.Name})
	if err != nil && !errors.Is(err, pubgapi.ErrNotFound) {
		h.logger.Error("upstream player lookup failed",
			slog.String("name", req.Name),
			slog.Any("error", err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream lookup failed"})
		return
	}
	if len(infos) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "player not found upstream"})
		return
	}

	info := infos[0]
	player := &storage.TrackedPlayer{
		AccountID:    info.AccountID,
		Name:         info.Name,
		ShardID:      info.ShardID,
		PatchVersion: info.PatchVersion,
		TitleID:      info.TitleID,
	}
	if err := h.players.UpsertPlayer(r.Context(), player); err != nil {
		h.logger.Error("failed to store tracked player",
			slog.String("name", info.Name),
			slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to store player"})
		return
	}

	h.logger.Info("player added to monitoring", slog.String("name", info.Name))
	writeJSON(w, http.StatusCreated, player)
}

// RemovePlayer unregisters a player.
func (h *Handlers) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	removed, err := h.players.RemovePlayer(r.Context(), name)
	if err != nil {
		h.logger.Error("failed to remove tracked player",
			slog.String("name", name),
			slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to remove player"})
		return
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "player not tracked"})
		return
	}

	h.logger.Info("player removed from monitoring", slog.String("name", name))
	w.WriteHeader(http.StatusNoContent)
}

// ListPlayers returns the tracked roster.
func (h *Handlers) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.players.ListPlayers(r.Context())
	if err != nil {
		h.logger.Error("failed to list tracked players", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list players"})
		return
	}
	writeJSON(w, http.StatusOK, players)
}

// ListProcessed returns recently processed matches, newest first.
func (h *Handlers) ListProcessed(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	records, err := h.ledger.ListProcessed(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list processed matches", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list processed matches"})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
