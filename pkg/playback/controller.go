// Package playback drives a decoded frame sequence through time.
//
// A Controller owns a cursor into the sequence and a Paused/Playing mode.
// While playing, a single pending timer advances the cursor when the current
// frame's delay elapses and is then rescheduled with the delay of the new
// frame, so each frame keeps its own timing.
package playback

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AT-290690/gif-player/pkg/adapters/logger"
	"github.com/AT-290690/gif-player/pkg/pipeline"
	"github.com/AT-290690/gif-player/pkg/ports"
)

// ErrClosed is returned by operations on a closed Controller.
var ErrClosed = errors.New("playback: controller closed")

// ErrEmptySequence is returned by New for a nil sequence or one without frames.
var ErrEmptySequence = errors.New("playback: empty sequence")

// Mode is the playback state.
type Mode int

const (
	Paused Mode = iota
	Playing
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

const (
	// DefaultMinDelay is the shortest frame delay honoured as declared.
	DefaultMinDelay = 20 * time.Millisecond
	// DefaultDelay replaces delays shorter than the minimum, as browsers do.
	DefaultDelay = 100 * time.Millisecond
)

// Controller is the playback state of one sequence.
//
// All methods are safe for concurrent use. The surface is painted while the
// controller's lock is held, so a surface must not call back into its
// controller.
type Controller struct {
	seq     *pipeline.Sequence
	surface ports.Surface
	clock   ports.Clock
	logger  ports.Logger

	minDelay     time.Duration
	defaultDelay time.Duration

	mu     sync.Mutex
	cursor int
	mode   Mode
	timer  ports.Timer
	gen    uint64 // invalidates ticks scheduled before the last Play, Pause or Close
	closed bool
}

// New creates a paused controller positioned on frame 0 and paints it.
func New(seq *pipeline.Sequence, surface ports.Surface, opts ...Option) (*Controller, error) {
	if seq == nil || seq.Len() == 0 {
		return nil, ErrEmptySequence
	}
	c := &Controller{
		seq:          seq,
		surface:      surface,
		clock:        SystemClock{},
		logger:       logger.NewNoop(),
		minDelay:     DefaultMinDelay,
		defaultDelay: DefaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("playback")

	c.mu.Lock()
	defer c.mu.Unlock()
	c.paint()
	return c, nil
}

// Play starts advancing the cursor. It does nothing if already playing.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.mode == Playing {
		return
	}
	c.mode = Playing
	c.gen++
	c.schedule()
	c.logger.Debug("Playing from frame %d", c.cursor)
}

// Pause stops advancing the cursor. It does nothing if already paused.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.mode == Paused {
		return
	}
	c.mode = Paused
	c.cancel()
	c.logger.Debug("Paused at frame %d", c.cursor)
}

// StepForward moves to the next frame, wrapping to the first. The mode is
// unchanged and a pending tick keeps its original schedule.
func (c *Controller) StepForward() {
	c.step(1)
}

// StepBackward moves to the previous frame, wrapping to the last. The mode
// is unchanged and a pending tick keeps its original schedule.
func (c *Controller) StepBackward() {
	c.step(-1)
}

func (c *Controller) step(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	n := c.seq.Len()
	c.cursor = ((c.cursor+delta)%n + n) % n
	c.paint()
}

// Seek moves the cursor to frame i. Out of range indices are rejected with
// pipeline.ErrIndexOutOfRange, never clamped.
func (c *Controller) Seek(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if i < 0 || i >= c.seq.Len() {
		return fmt.Errorf("seek %d of %d: %w", i, c.seq.Len(), pipeline.ErrIndexOutOfRange)
	}
	c.cursor = i
	c.paint()
	return nil
}

// Current returns the cursor.
func (c *Controller) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// CurrentFrame returns the frame under the cursor.
func (c *Controller) CurrentFrame() pipeline.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq.Frames[c.cursor]
}

// Mode returns the playback mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Len returns the number of frames.
func (c *Controller) Len() int {
	return c.seq.Len()
}

// Sequence returns the sequence being played.
func (c *Controller) Sequence() *pipeline.Sequence {
	return c.seq
}

// Close cancels any pending tick. Later operations have no effect and Seek
// returns ErrClosed. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.mode = Paused
	c.cancel()
}

// EffectiveDelay returns the time frame f stays on screen during playback.
func (c *Controller) EffectiveDelay(f pipeline.Frame) time.Duration {
	if f.Delay <= 0 || f.Delay < c.minDelay {
		return c.defaultDelay
	}
	return f.Delay
}

// schedule arms the tick for the current frame. c.mu must be held.
func (c *Controller) schedule() {
	gen := c.gen
	d := c.EffectiveDelay(c.seq.Frames[c.cursor])
	c.timer = c.clock.AfterFunc(d, func() { c.tick(gen) })
}

// cancel stops the pending tick and invalidates one already firing.
// c.mu must be held.
func (c *Controller) cancel() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.mode != Playing || gen != c.gen {
		return
	}
	c.cursor = (c.cursor + 1) % c.seq.Len()
	c.paint()
	c.schedule()
}

// paint shows the current frame. c.mu must be held.
func (c *Controller) paint() {
	if c.surface == nil {
		return
	}
	if err := c.surface.Paint(c.seq.Frames[c.cursor]); err != nil {
		c.logger.Warn("Failed to paint frame %d: %v", c.cursor, err)
	}
}
