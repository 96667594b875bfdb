// Package conversation implements the chat session attached to the selected
// player: an append-only transcript with at most one reply in flight.
package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/crickdash/pkg/logger"
	"github.com/okian/crickdash/pkg/metrics"
)

// DefaultFallbackMessage is appended when an exchange fails.
const DefaultFallbackMessage = "Sorry, I'm having trouble connecting. Please try again."

// DefaultReplyTimeout bounds a single exchange.
const DefaultReplyTimeout = 30 * time.Second

// Session owns a transcript and its single-flight exchange state. All
// methods are safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	id         string
	epoch      uint64
	player     Player
	transcript []Turn
	inflight   string // exchange id while Awaiting
	started    time.Time

	replier  Replier
	fallback string
	timeout  time.Duration
	now      func() time.Time
	log      logger.Logger
}

// NewSession creates an idle session for p.
func NewSession(replier Replier, p Player, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		player:   p,
		replier:  replier,
		fallback: DefaultFallbackMessage,
		timeout:  DefaultReplyTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("conversation")
	}
	return s
}

// Begin appends a user turn and moves the session to Awaiting. The returned
// exchange carries the full transcript and must be resolved exactly once via
// Dispatch or Resolve.
func (s *Session) Begin(ctx context.Context, text string) (Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		metrics.RecordExchangeRejected("empty")
		return Exchange{}, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight != "" {
		metrics.RecordExchangeRejected("in_flight")
		return Exchange{}, ErrExchangeInFlight
	}

	s.transcript = append(s.transcript, Turn{Role: RoleUser, Content: text})
	ex := Exchange{
		ID:        uuid.NewString(),
		SessionID: s.id,
		Epoch:     s.epoch,
		Request: Request{
			Messages:   s.copyTranscript(),
			PlayerID:   s.player.ID,
			PlayerName: s.player.Name,
		},
	}
	s.inflight = ex.ID
	s.started = s.now()

	metrics.RecordExchangeStarted()
	metrics.UpdateTranscriptTurns(len(s.transcript))
	s.log.Debug(ctx, "exchange started",
		logger.String("exchange_id", ex.ID),
		logger.String("player_id", s.player.ID),
		logger.Int("turns", len(s.transcript)),
	)
	return ex, nil
}

// Dispatch calls the replier for ex and resolves it. It reports whether the
// outcome was applied to the transcript.
func (s *Session) Dispatch(ctx context.Context, ex Exchange) bool {
	cctx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	reply, err := s.replier.Reply(cctx, ex.Request)
	return s.Resolve(ctx, ex, reply, err)
}

// Submit runs Begin and Dispatch in one call.
func (s *Session) Submit(ctx context.Context, text string) (Exchange, error) {
	ex, err := s.Begin(ctx, text)
	if err != nil {
		return Exchange{}, err
	}
	s.Dispatch(ctx, ex)
	return ex, nil
}

// Resolve merges the outcome of ex into the transcript and returns the
// session to Idle. A failed or blank reply appends the fallback message.
// Outcomes for exchanges the session no longer awaits are discarded.
func (s *Session) Resolve(ctx context.Context, ex Exchange, reply string, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ex.Epoch != s.epoch || ex.ID == "" || ex.ID != s.inflight {
		metrics.RecordExchangeDiscarded()
		s.log.Info(ctx, "discarding stale exchange",
			logger.String("exchange_id", ex.ID),
			logger.Uint64("exchange_epoch", ex.Epoch),
			logger.Uint64("session_epoch", s.epoch),
		)
		return false
	}

	if err == nil && strings.TrimSpace(reply) == "" {
		err = ErrEmptyReply
	}
	latency := s.now().Sub(s.started)
	metrics.RecordReplyLatency(float64(latency.Milliseconds()))

	if err != nil {
		reason := fallbackReason(err)
		metrics.RecordExchangeFallback(reason)
		metrics.RecordErrorByComponent("conversation", reason)
		s.log.Warn(ctx, "reply failed, using fallback",
			logger.String("exchange_id", ex.ID),
			logger.String("reason", reason),
			logger.Duration("latency", latency),
			logger.Error(err),
		)
		s.transcript = append(s.transcript, Turn{Role: RoleAssistant, Content: s.fallback})
	} else {
		metrics.RecordExchangeSucceeded()
		s.transcript = append(s.transcript, Turn{Role: RoleAssistant, Content: reply})
	}
	s.inflight = ""
	metrics.UpdateTranscriptTurns(len(s.transcript))
	return true
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrEmptyReply):
		return "empty_reply"
	default:
		return "transport"
	}
}

// Reset starts a new generation for p: the transcript is cleared and any
// in-flight exchange is orphaned.
func (s *Session) Reset(ctx context.Context, p Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.id = uuid.NewString()
	s.player = p
	s.transcript = nil
	s.inflight = ""

	metrics.RecordSessionReset()
	metrics.UpdateTranscriptTurns(0)
	s.log.Info(ctx, "session reset",
		logger.String("session_id", s.id),
		logger.String("player_id", p.ID),
		logger.Uint64("epoch", s.epoch),
	)
}

// Transcript returns a copy of the turns in chronological order.
func (s *Session) Transcript() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyTranscript()
}

// Pending reports whether a reply is awaited.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight != ""
}

// State returns Idle or Awaiting.
func (s *Session) State() State {
	if s.Pending() {
		return StateAwaiting
	}
	return StateIdle
}

// Player returns the player the session is scoped to.
func (s *Session) Player() Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// Snapshot returns a consistent view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := StateIdle
	if s.inflight != "" {
		st = StateAwaiting
	}
	return Snapshot{
		SessionID:  s.id,
		PlayerID:   s.player.ID,
		PlayerName: s.player.Name,
		State:      st.String(),
		Pending:    s.inflight != "",
		Transcript: s.copyTranscript(),
	}
}

// copyTranscript must be called with s.mu held.
func (s *Session) copyTranscript() []Turn {
	out := make([]Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}
