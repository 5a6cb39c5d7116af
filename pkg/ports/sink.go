package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate processing results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveSequenceJSON saves a decoded sequence summary as JSON.
	SaveSequenceJSON(name string, data []byte) error

	// SaveFrame saves a composited frame of the named sequence.
	SaveFrame(name string, index int, img image.Image) error

	// SaveClip saves an encoded clip.
	SaveClip(name string, data []byte) error
}
