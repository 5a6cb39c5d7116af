package ports

import (
	"github.com/AT-290690/gif-player/pkg/pipeline"
)

// Surface is a presentation surface for a single playback instance.
//
// Paint is called with the newly selected frame every time the cursor
// moves. Composition of the frame against previously displayed frames,
// following the frame's disposal method, is the surface's responsibility.
type Surface interface {
	Paint(frame pipeline.Frame) error
}

// SurfaceFunc is a function adapter for Surface.
type SurfaceFunc func(frame pipeline.Frame) error

// Paint implements Surface.
func (f SurfaceFunc) Paint(frame pipeline.Frame) error {
	return f(frame)
}
