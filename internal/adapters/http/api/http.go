// Package api declares the dashboard HTTP contracts and route registration.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/crickdash/internal/domain/player"
)

// Dependencies required by HTTP handlers. Each handler depends only on the
// slice it needs; the application service implements all of them.
type Dependencies interface {
	PlayerDependencies
	ComparisonDependencies
	SelectionDependencies
	ChatDependencies
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	playersHandler    *PlayersHandler
	comparisonHandler *ComparisonHandler
	selectionHandler  *SelectionHandler
	chatHandler       *ChatHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		playersHandler:    NewPlayersHandler(deps),
		comparisonHandler: NewComparisonHandler(deps, maxLimit),
		selectionHandler:  NewSelectionHandler(deps),
		chatHandler:       NewChatHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleListPlayers, "players"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandleGetPlayer, "player"))
	mux.HandleFunc("/comparison", MetricsMiddleware(s.comparisonHandler.HandleGetComparison, "comparison"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.comparisonHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/selection", MetricsMiddleware(s.selectionHandler.HandleSelection, "selection"))
	mux.HandleFunc("/selection/comparison", MetricsMiddleware(s.selectionHandler.HandleSetComparison, "selection_comparison"))
	mux.HandleFunc("/chat", MetricsMiddleware(s.chatHandler.HandleGetChat, "chat"))
	mux.HandleFunc("/chat/messages", MetricsMiddleware(s.chatHandler.HandlePostMessage, "chat_messages"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a JSON body, rejecting unknown fields and trailing data.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected trailing data")
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, player.ErrNotFound) || errors.Is(err, ErrNotFound)
}
