package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/crickdash/internal/domain/selection"
)

// SelectionDependencies exposes the shared dashboard selection.
type SelectionDependencies interface {
	View(ctx context.Context) SelectionView
	SelectPlayer(ctx context.Context, id, name string) error
	SetComparisonPlayer(ctx context.Context, id string) error
}

// SelectionView is the body returned by every selection route.
type SelectionView struct {
	PlayerID   string         `json:"player_id"`
	PlayerName string         `json:"player_name"`
	View       selection.View `json:"view"`
}

type selectPlayerRequest struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

type comparisonRequest struct {
	PlayerID string `json:"player_id"`
}

// SelectionHandler reads and changes the selection.
type SelectionHandler struct {
	deps SelectionDependencies
}

// NewSelectionHandler creates a new selection handler.
func NewSelectionHandler(deps SelectionDependencies) *SelectionHandler {
	return &SelectionHandler{deps: deps}
}

// HandleSelection handles GET /selection and POST /selection.
func (h *SelectionHandler) HandleSelection(w http.ResponseWriter, r *http.Request) {
	const op = "api.select_player"
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.View(r.Context()))
	case http.MethodPost:
		var req selectPlayerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := h.deps.SelectPlayer(r.Context(), req.PlayerID, req.PlayerName); err != nil {
			if errors.Is(err, selection.ErrEmptyPlayerID) {
				writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, h.deps.View(r.Context()))
	default:
		http.NotFound(w, r)
	}
}

// HandleSetComparison handles POST /selection/comparison.
func (h *SelectionHandler) HandleSetComparison(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_comparison"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req comparisonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.SetComparisonPlayer(r.Context(), req.PlayerID); err != nil {
		if errors.Is(err, selection.ErrSelfComparison) {
			writeError(w, http.StatusConflict, "self_comparison", WrapKind(op, ErrConflict, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.View(r.Context()))
}
