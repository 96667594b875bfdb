package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/crickdash/internal/domain/conversation"
	"github.com/okian/crickdash/internal/domain/dedupe"
)

// ChatDependencies exposes the conversation session.
type ChatDependencies interface {
	dedupe.Deduper

	Chat(ctx context.Context) conversation.Snapshot
	// BeginExchange appends the user turn and marks the session Awaiting.
	BeginExchange(ctx context.Context, content string) (conversation.Exchange, error)
	// DispatchExchange hands ex to the reply workers. It never fails; an
	// exchange that cannot be queued is resolved with the fallback.
	DispatchExchange(ctx context.Context, ex conversation.Exchange)
}

type postMessageRequest struct {
	Content         string `json:"content"`
	ClientMessageID string `json:"client_message_id,omitempty"`
}

type postMessageResponse struct {
	Status     string                `json:"status"`
	Duplicate  bool                  `json:"duplicate"`
	ExchangeID string                `json:"exchange_id,omitempty"`
	Chat       conversation.Snapshot `json:"chat"`
}

// ChatHandler serves the transcript and accepts new messages.
type ChatHandler struct {
	deps ChatDependencies
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(deps ChatDependencies) *ChatHandler {
	return &ChatHandler{deps: deps}
}

// HandleGetChat handles GET /chat.
func (h *ChatHandler) HandleGetChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Chat(r.Context()))
}

// HandlePostMessage handles POST /chat/messages. The reply arrives
// asynchronously; clients poll GET /chat until pending is false.
func (h *ChatHandler) HandlePostMessage(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_message"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req postMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "empty_message", WrapKind(op, ErrBadRequest, conversation.ErrEmptyMessage))
		return
	}

	ctx := r.Context()
	if req.ClientMessageID != "" && h.deps.SeenAndRecord(ctx, req.ClientMessageID) {
		writeJSON(w, http.StatusOK, postMessageResponse{Status: "duplicate", Duplicate: true, Chat: h.deps.Chat(ctx)})
		return
	}

	ex, err := h.deps.BeginExchange(ctx, req.Content)
	if err != nil {
		// The message was not accepted, so a retry with the same id must go through.
		if req.ClientMessageID != "" {
			h.deps.Unrecord(ctx, req.ClientMessageID)
		}
		switch {
		case errors.Is(err, conversation.ErrExchangeInFlight):
			writeError(w, http.StatusConflict, "exchange_in_flight", WrapKind(op, ErrConflict, err))
		case errors.Is(err, conversation.ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, "empty_message", WrapKind(op, ErrBadRequest, err))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}

	// Detached from the request: the exchange outlives this handler.
	h.deps.DispatchExchange(context.WithoutCancel(ctx), ex)
	writeJSON(w, http.StatusAccepted, postMessageResponse{Status: "accepted", ExchangeID: ex.ID, Chat: h.deps.Chat(ctx)})
}
