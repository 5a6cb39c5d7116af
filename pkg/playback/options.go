package playback

import (
	"time"

	"github.com/AT-290690/gif-player/pkg/ports"
)

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used to schedule ticks.
func WithClock(clock ports.Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger ports.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMinDelay sets the shortest frame delay played as declared.
func WithMinDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.minDelay = d
	}
}

// WithDefaultDelay sets the delay used for frames below the minimum.
func WithDefaultDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.defaultDelay = d
		}
	}
}
