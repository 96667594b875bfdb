// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New() returns a Config populated with defaults.
//   - Load(ctx) layers defaults, an optional YAML file and CRICK_ env vars.
//   - Both the dashboard and the reply service read the same Config; each
//     binary uses the keys that concern it.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr is the dashboard HTTP listen address.
	Addr string `koanf:"addr"`
	// ReplyAddr is the reply service listen address.
	ReplyAddr string `koanf:"reply_addr"`
	// CORSAllowedOrigins lists browser origins allowed to call either server.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// ReplyURL is the reply service endpoint the conversation session posts to.
	ReplyURL string `koanf:"reply_url"`
	// ReplyTimeoutMS bounds a single exchange; expiry takes the fallback branch.
	ReplyTimeoutMS int `koanf:"reply_timeout_ms"`
	// FallbackMessage is appended as the assistant turn when an exchange fails.
	FallbackMessage string `koanf:"fallback_message"`

	// SettleWindowMS is how long views are reported as settling after a selection.
	SettleWindowMS int `koanf:"settle_window_ms"`
	// DefaultPlayerID is selected at startup.
	DefaultPlayerID string `koanf:"default_player_id"`
	// CatalogPath optionally points at a YAML player catalog; empty uses the built-in one.
	CatalogPath string `koanf:"catalog_path"`
	// CatalogWatch reloads CatalogPath when the file changes.
	CatalogWatch bool `koanf:"catalog_watch"`
	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// QueueSize bounds the exchange dispatch queue.
	QueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of dispatch workers.
	WorkerCount int `koanf:"worker_count"`
	// DedupeSize bounds the client message id cache.
	DedupeSize int `koanf:"dedupe_size"`

	// LLMBaseURL is the OpenAI-compatible endpoint used by the reply service.
	LLMBaseURL string `koanf:"llm_base_url"`
	// LLMModel names the upstream model.
	LLMModel string `koanf:"llm_model"`
	// LLMAPIKey authenticates against the upstream.
	LLMAPIKey string `koanf:"llm_api_key"`
	// LLMTemperature and LLMMaxTokens shape the generated reply.
	LLMTemperature float64 `koanf:"llm_temperature"`
	LLMMaxTokens   int     `koanf:"llm_max_tokens"`
	// LLMTimeoutMS bounds one upstream call.
	LLMTimeoutMS int `koanf:"llm_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		ReplyAddr:           ":5000",
		CORSAllowedOrigins:  []string{"*"},
		ReplyURL:            "http://localhost:5000/api/chat",
		ReplyTimeoutMS:      30_000,
		FallbackMessage:     "Sorry, I'm having trouble connecting. Please try again.",
		SettleWindowMS:      800,
		DefaultPlayerID:     "virat-kohli",
		MaxLeaderboardLimit: 50,
		QueueSize:           1024,
		WorkerCount:         4,
		DedupeSize:          10_000,
		LLMBaseURL:          "https://generativelanguage.googleapis.com/v1beta/openai",
		LLMModel:            "gemini-2.0-flash-exp",
		LLMTemperature:      0.7,
		LLMMaxTokens:        1000,
		LLMTimeoutMS:        60_000,
	}
}
