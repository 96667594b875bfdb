package chatprobe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL   string        // Base URL of the dashboard
	PlayerID  string        // Player to select before chatting
	Questions []string      // Chat turns to send, in order
	Timeout   time.Duration // Per-request timeout and per-reply wait
	Poll      time.Duration // Interval between GET /chat polls
	Verbose   bool          // Log every response

	// FallbackMessage is the assistant turn the dashboard appends when a
	// reply fails; matching replies are counted as fallbacks.
	FallbackMessage string
}

// DefaultQuestions are sent when Config.Questions is empty.
var DefaultQuestions = []string{
	"What are his career highlights?",
	"How has his form changed over the last few years?",
	"Who would you compare him with?",
}

// DefaultFallbackMessage matches the dashboard's default fallback turn.
const DefaultFallbackMessage = "Sorry, I'm having trouble connecting. Please try again."

// Stats holds probe statistics.
type Stats struct {
	TurnsSent       int
	RepliesReceived int
	Fallbacks       int
	Duplicates      int
	Checks          int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
	ReplyLatencies  []time.Duration
}

type player struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TotalRuns      int    `json:"totalRuns"`
	TotalCenturies int    `json:"totalCenturies"`
}

type row struct {
	Name      string `json:"name"`
	Runs      int    `json:"runs"`
	Centuries int    `json:"centuries"`
}

type option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type selectionView struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	View       struct {
		Player             *player  `json:"player"`
		Comparison         []row    `json:"comparison"`
		ComparisonMode     string   `json:"comparison_mode"`
		ComparisonPlayerID string   `json:"comparison_player_id"`
		Options            []option `json:"comparison_options"`
	} `json:"view"`
}

type comparisonResult struct {
	PlayerID           string `json:"player_id"`
	ComparisonPlayerID string `json:"comparison_player_id"`
	Mode               string `json:"mode"`
	Rows               []row  `json:"rows"`
}

type turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatSnapshot struct {
	SessionID  string `json:"session_id"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Pending    bool   `json:"pending"`
	Transcript []turn `json:"transcript"`
}

type ackResponse struct {
	Status     string       `json:"status"`
	Duplicate  bool         `json:"duplicate"`
	ExchangeID string       `json:"exchange_id"`
	Chat       chatSnapshot `json:"chat"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
