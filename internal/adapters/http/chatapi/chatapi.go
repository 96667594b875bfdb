// Package chatapi serves the reply service contract consumed by the
// dashboard's conversation session: POST /api/chat with the full history,
// answered by {"reply": "..."}.
package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/crickdash/internal/adapters/http/api"
	"github.com/okian/crickdash/internal/domain/assistant"
	"github.com/okian/crickdash/internal/domain/conversation"
	"github.com/okian/crickdash/pkg/logger"
	"github.com/okian/crickdash/pkg/metrics"
)

// RootMessage is the liveness text served on GET /.
const RootMessage = "THE APPLICATION IS RUNNING"

const maxBodyBytes = 1 << 20

// Responder produces a reply for a validated request.
type Responder interface {
	Respond(ctx context.Context, req conversation.Request) (string, error)
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the reply service routes.
type Handler struct {
	responder Responder
	log       logger.Logger
}

// NewHandler creates a Handler over responder.
func NewHandler(responder Responder) *Handler {
	return &Handler{responder: responder, log: logger.Get().Named("chatapi")}
}

// Register attaches the reply service routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", api.MetricsMiddleware(h.HandleRoot, "root"))
	mux.HandleFunc("/api/chat", api.MetricsMiddleware(h.HandleChat, "api_chat"))
	mux.Handle("/healthz", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

// HandleRoot handles GET /.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, RootMessage)
}

// HandleChat handles POST /api/chat.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Unreadable body"})
		return
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte("{}")) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No data provided"})
		return
	}

	var req conversation.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON"})
		return
	}

	reply, err := h.responder.Respond(r.Context(), req)
	switch {
	case errors.Is(err, assistant.ErrNoMessages):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No messages provided"})
	case errors.Is(err, assistant.ErrEmptyMessage):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Empty message"})
	case err != nil:
		h.log.Error(r.Context(), "chat request failed", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	default:
		writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
