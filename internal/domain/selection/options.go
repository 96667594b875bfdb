package selection

import (
	"time"

	"github.com/okian/crickdash/pkg/logger"
)

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithSettleWindow sets how long views report Settling after a selection.
func WithSettleWindow(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.settle = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}
