// Package ggsurface provides a presentation surface that composites frames
// and draws a playback progress bar with a ports.Renderer.
package ggsurface

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/AT-290690/gif-player/pkg/compose"
	"github.com/AT-290690/gif-player/pkg/pipeline"
	"github.com/AT-290690/gif-player/pkg/ports"
)

// Options configures a Surface.
type Options struct {
	// Width and Height scale the animation. Zero keeps the canvas size;
	// setting only one keeps the aspect ratio.
	Width  int
	Height int

	// ProgressHeight is the height of the bar drawn below the animation.
	// Zero hides it.
	ProgressHeight     int
	ProgressBackground color.Color
	ProgressForeground color.Color

	// Background shows through transparent pixels.
	Background color.Color

	// ShowCounter draws "current/total" on the progress bar.
	ShowCounter bool
}

// Default progress bar colours.
var (
	DefaultProgressBackground = color.RGBA{0xD6, 0x00, 0x0D, 0xff}
	DefaultProgressForeground = color.RGBA{0x2b, 0xe3, 0x50, 0xff}
)

// DefaultOptions returns the default surface options.
func DefaultOptions() Options {
	return Options{
		ProgressHeight:     8,
		ProgressBackground: DefaultProgressBackground,
		ProgressForeground: DefaultProgressForeground,
		Background:         color.White,
	}
}

// Surface paints the frames of one sequence.
type Surface struct {
	seq        *pipeline.Sequence
	renderer   ports.Renderer
	opts       Options
	width      int
	height     int
	compositor *compose.Compositor

	mu     sync.Mutex
	last   image.Image
	index  int
	sink   ports.DebugSink
	name   string
	paints int
}

// New creates a surface for seq.
func New(seq *pipeline.Sequence, renderer ports.Renderer, opts Options) *Surface {
	w, h := scaledSize(seq.Width, seq.Height, opts.Width, opts.Height)
	return &Surface{
		seq:        seq,
		renderer:   renderer,
		opts:       opts,
		width:      w,
		height:     h,
		compositor: compose.New(seq),
		index:      -1,
	}
}

// WithSink saves every painted raster to sink under name.
func (s *Surface) WithSink(sink ports.DebugSink, name string) *Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
	s.name = name
	return s
}

// Paint composites frame onto the canvas and redraws the surface.
func (s *Surface) Paint(frame pipeline.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	canvasImg, err := s.compositor.Render(frame.Index)
	if err != nil {
		return fmt.Errorf("paint frame %d: %w", frame.Index, err)
	}

	var img image.Image = canvasImg
	if s.width != s.seq.Width || s.height != s.seq.Height {
		img = s.renderer.Scale(canvasImg, s.width, s.height)
	}

	canvas := s.renderer.NewCanvas(s.width, s.height+s.opts.ProgressHeight, s.opts.Background)
	canvas.DrawImage(img, 0, 0)
	if s.opts.ProgressHeight > 0 {
		s.drawProgress(canvas, frame.Index)
	}

	s.last = canvas.Image()
	s.index = frame.Index
	s.paints++

	if s.sink != nil && s.sink.Enabled() {
		if err := s.sink.SaveFrame(s.name, frame.Index, s.last); err != nil {
			return fmt.Errorf("save frame %d: %w", frame.Index, err)
		}
	}
	return nil
}

func (s *Surface) drawProgress(canvas ports.Canvas, index int) {
	bar := image.Rect(0, s.height, s.width, s.height+s.opts.ProgressHeight)
	canvas.FillRect(bar, s.opts.ProgressBackground)
	fill := bar
	fill.Max.X = int(Progress(index, s.seq.Len()) * float64(s.width))
	canvas.FillRect(fill, s.opts.ProgressForeground)
	if s.opts.ShowCounter {
		text := fmt.Sprintf("%d/%d", index+1, s.seq.Len())
		canvas.DrawLabel(text, s.width-4, s.height+s.opts.ProgressHeight/2, color.White, ports.AlignRight)
	}
}

// Image returns the last painted raster, or nil before the first paint.
func (s *Surface) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Index returns the index of the last painted frame, or -1.
func (s *Surface) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Paints returns the number of successful paints.
func (s *Surface) Paints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paints
}

// Size returns the size of the painted raster including the progress bar.
func (s *Surface) Size() (int, int) {
	return s.width, s.height + s.opts.ProgressHeight
}

// Progress returns the playback position of frame index as a fraction in
// [0, 1]. The last frame is always 1.
func Progress(index, total int) float64 {
	if total <= 1 {
		return 1
	}
	p := float64(index) / float64(total-1)
	return min(max(p, 0), 1)
}

// scaledSize resolves the output size for a canvas of w×h.
func scaledSize(w, h, targetW, targetH int) (int, int) {
	switch {
	case targetW > 0 && targetH > 0:
		return targetW, targetH
	case targetW > 0:
		return targetW, max(1, h*targetW/w)
	case targetH > 0:
		return max(1, w*targetH/h), targetH
	default:
		return w, h
	}
}

// Ensure Surface implements ports.Surface
var _ ports.Surface = (*Surface)(nil)
