package conversation

import (
	"time"

	"github.com/okian/crickdash/pkg/logger"
)

// Option applies a configuration option to a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithFallbackMessage sets the assistant text appended when an exchange fails.
func WithFallbackMessage(msg string) Option {
	return func(s *Session) {
		if msg != "" {
			s.fallback = msg
		}
	}
}

// WithReplyTimeout bounds a single Dispatch. Zero or negative disables it.
func WithReplyTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithClock overrides time.Now for latency measurement.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}
