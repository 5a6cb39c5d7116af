// Package nullsink provides the debug sink used when debug output is off.
package nullsink

import (
	"image"

	"github.com/AT-290690/gif-player/pkg/ports"
)

// Sink reports itself disabled, so stages and surfaces skip the work of
// preparing debug output, and discards anything passed to it anyway.
type Sink struct{}

// New creates a new Sink.
func New() Sink { return Sink{} }

func (Sink) Enabled() bool                            { return false }
func (Sink) SaveSequenceJSON(string, []byte) error    { return nil }
func (Sink) SaveFrame(string, int, image.Image) error { return nil }
func (Sink) SaveClip(string, []byte) error            { return nil }

var _ ports.DebugSink = Sink{}
