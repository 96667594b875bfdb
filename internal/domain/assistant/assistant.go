// Package assistant turns a replayed chat history into a reply from a
// language model, framed as a cricket journalist focused on one player.
package assistant

import (
	"context"
	"errors"
	"strings"

	"github.com/okian/crickdash/internal/domain/conversation"
	"github.com/okian/crickdash/pkg/logger"
)

// Defaults applied to incoming requests.
const (
	DefaultPlayerID   = "unknown"
	DefaultPlayerName = "Unknown Player"
	// ApologyReply is returned in-band when the model call fails.
	ApologyReply = "Sorry, I'm having trouble processing your message right now. Please try again!"
)

const systemPrompt = `You are a friendly chatbot who talks like a sports journalist specialising in cricket. Keep your answers:
- short, crisp and enthusiastic
- engaging and conversational
- precise, backed by statistics and facts
- focused on the player {playerName} (ID: {playerId})`

var (
	// ErrNoMessages rejects a request without history.
	ErrNoMessages = errors.New("no messages provided")
	// ErrEmptyMessage rejects a request whose last message is blank.
	ErrEmptyMessage = errors.New("empty message")
)

// Message is one chat completion message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer generates the next assistant message.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Responder answers reply-service requests.
type Responder struct {
	llm Completer
	log logger.Logger
}

// NewResponder creates a Responder over llm.
func NewResponder(llm Completer) *Responder {
	return &Responder{llm: llm, log: logger.Get().Named("assistant")}
}

// Normalize fills player defaults and validates the history.
func Normalize(req conversation.Request) (conversation.Request, error) {
	if len(req.Messages) == 0 {
		return req, ErrNoMessages
	}
	if strings.TrimSpace(req.Messages[len(req.Messages)-1].Content) == "" {
		return req, ErrEmptyMessage
	}
	if req.PlayerID == "" {
		req.PlayerID = DefaultPlayerID
	}
	if req.PlayerName == "" {
		req.PlayerName = DefaultPlayerName
	}
	return req, nil
}

// Prompt builds the model input: a system message for the player followed by
// the replayed history.
func Prompt(req conversation.Request) []Message {
	sys := strings.NewReplacer("{playerName}", req.PlayerName, "{playerId}", req.PlayerID).Replace(systemPrompt)
	out := make([]Message, 0, len(req.Messages)+1)
	out = append(out, Message{Role: "system", Content: sys})
	for _, t := range req.Messages {
		role := string(t.Role)
		if t.Role != conversation.RoleAssistant {
			role = string(conversation.RoleUser)
		}
		out = append(out, Message{Role: role, Content: t.Content})
	}
	return out
}

// Respond validates req and returns the model's reply. Model failures yield
// ApologyReply with a nil error; only invalid requests return an error.
func (r *Responder) Respond(ctx context.Context, req conversation.Request) (string, error) {
	req, err := Normalize(req)
	if err != nil {
		return "", err
	}
	text, err := r.llm.Complete(ctx, Prompt(req))
	if err != nil {
		r.log.Error(ctx, "model call failed",
			logger.String("player_id", req.PlayerID),
			logger.Error(err),
		)
		return ApologyReply, nil
	}
	return text, nil
}
