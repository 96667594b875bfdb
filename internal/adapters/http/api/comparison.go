package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/crickdash/internal/domain/comparison"
)

// ComparisonDependencies exposes stateless comparison reads.
type ComparisonDependencies interface {
	Compare(ctx context.Context, sel comparison.Selection) (ComparisonResult, error)
	Leaderboard(ctx context.Context, n int) []comparison.Row
}

// ComparisonResult is the body of GET /comparison.
type ComparisonResult struct {
	PlayerID           string           `json:"player_id"`
	ComparisonPlayerID string           `json:"comparison_player_id"`
	Mode               comparison.Mode  `json:"mode"`
	Rows               []comparison.Row `json:"rows"`
}

// ComparisonHandler serves comparison rows and the runs leaderboard.
type ComparisonHandler struct {
	deps     ComparisonDependencies
	maxLimit int
}

// NewComparisonHandler creates a new comparison handler.
func NewComparisonHandler(deps ComparisonDependencies, maxLimit int) *ComparisonHandler {
	if maxLimit < 1 {
		maxLimit = 50
	}
	return &ComparisonHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetComparison handles GET /comparison?player=ID[&compare=ID].
func (h *ComparisonHandler) HandleGetComparison(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_comparison"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	sel := comparison.Selection{BaselinePlayerID: q.Get("player"), ComparisonPlayerID: q.Get("compare")}
	if sel.BaselinePlayerID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	res, err := h.deps.Compare(r.Context(), sel)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleGetLeaderboard handles GET /leaderboard[?limit=N]. Without a limit
// it returns the default top three.
func (h *ComparisonHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := comparison.DefaultTopN
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrLimitExceeded))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Leaderboard(r.Context(), n))
}
