package mocks

import (
	"sync"
	"time"

	"github.com/AT-290690/gif-player/pkg/ports"
)

// Clock is a manually advanced implementation of ports.Clock. Callbacks run
// synchronously inside Advance, in due order, and may schedule further
// callbacks.
type Clock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*clockTimer
}

type clockTimer struct {
	clock   *Clock
	when    time.Duration
	f       func()
	stopped bool
	fired   bool
}

// NewClock creates a new mock Clock at time zero.
func NewClock() *Clock {
	return &Clock{}
}

// AfterFunc implements ports.Clock.
func (c *Clock) AfterFunc(d time.Duration, f func()) ports.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &clockTimer{clock: c, when: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Stop implements ports.Timer.
func (t *clockTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Now returns the time elapsed since the clock was created.
func (c *Clock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d, firing every callback that becomes
// due.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *clockTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.when > target {
				continue
			}
			if next == nil || t.when < next.when {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		c.now = next.when
		c.mu.Unlock()

		next.f()
	}
}

// Pending returns the number of callbacks waiting to fire.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Fire runs the earliest pending callback regardless of its due time, as if
// it had raced with a concurrent Stop. It returns false when nothing is
// pending.
func (c *Clock) Fire() bool {
	c.mu.Lock()
	var next *clockTimer
	for _, t := range c.timers {
		if t.fired {
			continue
		}
		if next == nil || t.when < next.when {
			next = t
		}
	}
	if next == nil {
		c.mu.Unlock()
		return false
	}
	next.fired = true
	c.mu.Unlock()

	next.f()
	return true
}
