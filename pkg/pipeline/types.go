package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"time"
)

// =============================================================================
// Common Types
// =============================================================================

// DelayUnit is the container's native delay unit. Frame delays are held as
// time.Duration everywhere else and converted with this constant only when
// reading or writing a container.
const DelayUnit = 10 * time.Millisecond

// Disposal is the frame disposal method declared by the container. It tells
// a presentation surface how to treat the frame's area before the next frame
// is composited.
type Disposal uint8

const (
	// DisposalUnspecified leaves the frame in place.
	DisposalUnspecified Disposal = iota
	// DisposalNone leaves the frame in place.
	DisposalNone
	// DisposalBackground restores the frame's area to the background.
	DisposalBackground
	// DisposalPrevious restores the frame's area to what it was before the
	// frame was drawn.
	DisposalPrevious
)

// String returns the string representation of the disposal method.
func (d Disposal) String() string {
	switch d {
	case DisposalUnspecified:
		return "unspecified"
	case DisposalNone:
		return "none"
	case DisposalBackground:
		return "background"
	case DisposalPrevious:
		return "previous"
	default:
		return fmt.Sprintf("disposal(%d)", uint8(d))
	}
}

// Frame is one still raster plus timing and compositing metadata.
//
// Frames are immutable once decoded. Image is normally an *image.Paletted
// whose Rect.Min is the frame's position on the canvas.
type Frame struct {
	Index        int           // Position in the source sequence
	Image        image.Image   // Local raster at its canvas position
	Delay        time.Duration // Display time before the next frame
	Disposal     Disposal      // Declared disposal method
	LocalPalette bool          // Frame carried its own colour table
	Transparent  int           // Transparent palette index, -1 if none
}

// Bounds returns the frame's rectangle on the canvas.
func (f Frame) Bounds() image.Rectangle {
	if f.Image == nil {
		return image.Rectangle{}
	}
	return f.Image.Bounds()
}

// Paletted returns the frame raster as an *image.Paletted if it is one.
func (f Frame) Paletted() (*image.Paletted, bool) {
	p, ok := f.Image.(*image.Paletted)
	return p, ok
}

// Header is the global metadata of a container.
type Header struct {
	Version         string        // "GIF87a" or "GIF89a"
	Width           int           // Canvas width
	Height          int           // Canvas height
	BackgroundIndex int           // Index into GlobalPalette
	GlobalPalette   color.Palette // Nil when the container has none
}

// Sequence is a decoded animation: global metadata plus an ordered,
// non-empty list of frames.
type Sequence struct {
	Header

	// LoopCount follows image/gif: 0 loops forever, -1 plays once and
	// n > 0 loops n extra times.
	LoopCount int

	Frames []Frame
}

// Len returns the number of frames.
func (s *Sequence) Len() int {
	return len(s.Frames)
}

// Bounds returns the canvas rectangle.
func (s *Sequence) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

// Frame returns the frame at index i.
func (s *Sequence) Frame(i int) (Frame, error) {
	if i < 0 || i >= len(s.Frames) {
		return Frame{}, fmt.Errorf("frame %d of %d: %w", i, len(s.Frames), ErrIndexOutOfRange)
	}
	return s.Frames[i], nil
}

// Duration returns the sum of all frame delays.
func (s *Sequence) Duration() time.Duration {
	var d time.Duration
	for _, f := range s.Frames {
		d += f.Delay
	}
	return d
}

// Summary returns a serialisable description of the sequence.
func (s *Sequence) Summary() SequenceSummary {
	sum := SequenceSummary{
		Version:    s.Version,
		Width:      s.Width,
		Height:     s.Height,
		LoopCount:  s.LoopCount,
		DurationMs: int(s.Duration() / time.Millisecond),
		Frames:     make([]FrameSummary, len(s.Frames)),
	}
	for i, f := range s.Frames {
		b := f.Bounds()
		sum.Frames[i] = FrameSummary{
			Index:        f.Index,
			X:            b.Min.X,
			Y:            b.Min.Y,
			Width:        b.Dx(),
			Height:       b.Dy(),
			DelayMs:      int(f.Delay / time.Millisecond),
			Disposal:     f.Disposal.String(),
			LocalPalette: f.LocalPalette,
		}
	}
	return sum
}

// SequenceSummary describes a sequence for debug output and probing.
type SequenceSummary struct {
	Version    string         `json:"version"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	LoopCount  int            `json:"loop_count"`
	DurationMs int            `json:"duration_ms"`
	Frames     []FrameSummary `json:"frames"`
}

// FrameSummary describes a single frame.
type FrameSummary struct {
	Index        int    `json:"index"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	DelayMs      int    `json:"delay_ms"`
	Disposal     string `json:"disposal"`
	LocalPalette bool   `json:"local_palette,omitempty"`
}

// ClipRange selects an inclusive run of frames. Start may exceed End, which
// requests the frames in descending order.
type ClipRange struct {
	Start int
	End   int
}

// Reversed reports whether the range runs backwards.
func (r ClipRange) Reversed() bool {
	return r.Start > r.End
}

// Len returns the number of frames selected by the range.
func (r ClipRange) Len() int {
	if r.Reversed() {
		return r.Start - r.End + 1
	}
	return r.End - r.Start + 1
}

// =============================================================================
// Decode Stage Types
// =============================================================================

// DecodeInput contains the container bytes to decode.
type DecodeInput struct {
	Name string // Used for logging only
	Data []byte
}

// DecodeResult contains the decoded sequence.
type DecodeResult struct {
	Sequence *Sequence
}

// =============================================================================
// Extract Stage Types
// =============================================================================

// ExtractInput contains parameters for clip extraction.
type ExtractInput struct {
	Sequence *Sequence
	Range    ClipRange

	// Flatten composites every selected frame onto the full canvas so the
	// clip renders correctly regardless of output order.
	Flatten bool
}

// ExtractResult contains the selected frames in output order.
type ExtractResult struct {
	Frames []Frame
}

// =============================================================================
// Encode Stage Types
// =============================================================================

// EncodeJob contains the frames to encode in their final output order.
type EncodeJob struct {
	Name      string // Used for logging and debug output only
	Frames    []Frame
	Width     int
	Height    int
	LoopCount int // See Sequence.LoopCount
}

// EncodeResult contains the encoded container.
type EncodeResult struct {
	Data       []byte
	FrameCount int
	Duration   time.Duration
	FileSize   int64
}
