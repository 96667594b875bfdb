package conversation

import "context"

// Role tags the originator of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one immutable transcript entry.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Player is the context a session talks about.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Request is the body posted to the reply service. Messages always carries
// the full transcript, including the user turn just appended.
type Request struct {
	Messages   []Turn `json:"messages"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// Replier produces an assistant reply for a request.
type Replier interface {
	Reply(ctx context.Context, req Request) (string, error)
}

// ReplierFunc adapts a function to Replier.
type ReplierFunc func(ctx context.Context, req Request) (string, error)

// Reply implements Replier.
func (f ReplierFunc) Reply(ctx context.Context, req Request) (string, error) { return f(ctx, req) }

// State is the session's exchange state.
type State int

const (
	StateIdle State = iota
	StateAwaiting
)

func (s State) String() string {
	if s == StateAwaiting {
		return "awaiting"
	}
	return "idle"
}

// Exchange identifies one outbound request. Epoch is the session generation
// it was issued in; a reset bumps the generation and orphans the exchange.
type Exchange struct {
	ID        string
	SessionID string
	Epoch     uint64
	Request   Request
}

// Snapshot is a consistent copy of session state.
type Snapshot struct {
	SessionID  string `json:"session_id"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	State      string `json:"state"`
	Pending    bool   `json:"pending"`
	Transcript []Turn `json:"transcript"`
}
