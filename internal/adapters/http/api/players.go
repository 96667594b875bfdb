package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/crickdash/internal/domain/comparison"
	"github.com/okian/crickdash/internal/domain/player"
)

// PlayerDependencies exposes catalog reads.
type PlayerDependencies interface {
	ListPlayers(ctx context.Context, roles ...player.Role) []player.Record
	Player(ctx context.Context, id string) (player.Record, error)
}

// PlayersHandler serves the player catalog.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleListPlayers handles GET /players[?role=R&role=R2].
func (h *PlayersHandler) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_players"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	var roles []player.Role
	for _, raw := range r.URL.Query()["role"] {
		role, err := player.ParseRole(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		roles = append(roles, role)
	}
	writeJSON(w, http.StatusOK, h.deps.ListPlayers(r.Context(), roles...))
}

// HandleGetPlayer handles GET /players/{id} and GET /players/{id}/trend.
func (h *PlayersHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/players/")
	id, rest, _ := strings.Cut(path, "/")
	if id == "" || (rest != "" && rest != "trend") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	rec, err := h.deps.Player(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if rest == "trend" {
		writeJSON(w, http.StatusOK, comparison.TrendSeries(rec))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
