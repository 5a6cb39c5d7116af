// Package nullsurface provides a presentation surface that draws nothing.
package nullsurface

import (
	"sync/atomic"

	"github.com/AT-290690/gif-player/pkg/pipeline"
	"github.com/AT-290690/gif-player/pkg/ports"
)

// Surface discards every frame and remembers only the last index.
type Surface struct {
	index atomic.Int64
}

// New creates a new Surface.
func New() *Surface {
	s := &Surface{}
	s.index.Store(-1)
	return s
}

// Paint records the frame index.
func (s *Surface) Paint(frame pipeline.Frame) error {
	s.index.Store(int64(frame.Index))
	return nil
}

// Index returns the last painted frame index, or -1.
func (s *Surface) Index() int {
	return int(s.index.Load())
}

// Ensure Surface implements ports.Surface
var _ ports.Surface = (*Surface)(nil)
