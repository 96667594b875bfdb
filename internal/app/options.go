package service

import (
	"time"

	"github.com/okian/crickdash/internal/domain/conversation"
	"github.com/okian/crickdash/internal/domain/player"
	"github.com/okian/crickdash/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of reply workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the exchange queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the client message id cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog sets the player catalog source. Defaults to the built-in roster.
func WithCatalog(src player.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithReplier sets the reply service client used by the chat session.
func WithReplier(r conversation.Replier) Option {
	return func(s *Service) {
		if r != nil {
			s.replier = r
		}
	}
}

// WithDefaultPlayer sets the player selected at startup.
func WithDefaultPlayer(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.defaultPlayerID = id
		}
	}
}

// WithFallbackMessage sets the assistant turn used when a reply fails.
func WithFallbackMessage(msg string) Option {
	return func(s *Service) {
		if msg != "" {
			s.fallback = msg
		}
	}
}

// WithReplyTimeout bounds each call to the reply service.
func WithReplyTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.replyTimeout = d
		}
	}
}

// WithSettleWindow sets how long views are reported as settling after a
// selection change.
func WithSettleWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.settleWindow = d
		}
	}
}
