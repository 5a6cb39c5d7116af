// Package summarizer builds printable reports describing decoded sequences.
package summarizer

import (
	"image"
	"time"

	"github.com/AT-290690/gif-player/pkg/pipeline"
)

// Summary describes one decoded file as a player would present it.
type Summary struct {
	GeneratedAt time.Time

	Source SourceInfo
	Canvas CanvasInfo
	Timing TimingInfo
	Frames []FrameInfo
}

// SourceInfo identifies the decoded file.
type SourceInfo struct {
	Name  string
	Bytes int64
}

// CanvasInfo holds the container header.
type CanvasInfo struct {
	Version   string
	Width     int
	Height    int
	LoopCount int
}

// TimingInfo compares declared delays with the delays actually waited.
type TimingInfo struct {
	Declared time.Duration
	Played   time.Duration
}

// FrameInfo is one row of the frame table.
type FrameInfo struct {
	Index        int
	Bounds       image.Rectangle
	Delay        time.Duration
	Played       time.Duration
	Disposal     pipeline.Disposal
	LocalPalette bool
	Transparent  int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets the file name and size.
func (b *Builder) WithSource(name string, size int) *Builder {
	b.summary.Source = SourceInfo{Name: name, Bytes: int64(size)}
	return b
}

// WithSequence fills the canvas, timing and frame table from seq. played
// maps a frame to the delay a player waits for it; nil uses the declared
// delay.
func (b *Builder) WithSequence(seq *pipeline.Sequence, played func(pipeline.Frame) time.Duration) *Builder {
	if played == nil {
		played = func(f pipeline.Frame) time.Duration { return f.Delay }
	}
	s := b.summary
	s.Canvas = CanvasInfo{
		Version:   seq.Version,
		Width:     seq.Width,
		Height:    seq.Height,
		LoopCount: seq.LoopCount,
	}
	s.Timing = TimingInfo{}
	s.Frames = make([]FrameInfo, len(seq.Frames))
	for i, f := range seq.Frames {
		p := played(f)
		s.Frames[i] = FrameInfo{
			Index:        f.Index,
			Bounds:       f.Bounds(),
			Delay:        f.Delay,
			Played:       p,
			Disposal:     f.Disposal,
			LocalPalette: f.LocalPalette,
			Transparent:  f.Transparent,
		}
		s.Timing.Declared += f.Delay
		s.Timing.Played += p
	}
	return b
}

// WithGeneratedAt overrides the timestamp.
func (b *Builder) WithGeneratedAt(t time.Time) *Builder {
	b.summary.GeneratedAt = t
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
