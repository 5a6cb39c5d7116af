// Package compose renders frames of a sequence onto the full canvas,
// applying each frame's disposal method the way browsers do.
package compose

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/AT-290690/gif-player/pkg/pipeline"
)

// Compositor renders the canvas as it appears while a given frame is shown.
//
// Rendering frame i requires every earlier frame to have been drawn and
// disposed of. The compositor keeps the canvas of the last rendered frame so
// sequential playback costs one frame per step; a backward seek replays from
// frame 0. A Compositor must not be used from multiple goroutines.
type Compositor struct {
	seq    *pipeline.Sequence
	canvas *image.RGBA
	drawn  int         // last frame composited onto canvas, -1 for none
	saved  *image.RGBA // canvas under the last frame, for DisposalPrevious
}

// New creates a compositor for seq.
func New(seq *pipeline.Sequence) *Compositor {
	c := &Compositor{
		seq:    seq,
		canvas: image.NewRGBA(seq.Bounds()),
	}
	c.Reset()
	return c
}

// Reset clears the canvas.
func (c *Compositor) Reset() {
	draw.Draw(c.canvas, c.canvas.Bounds(), image.Transparent, image.Point{}, draw.Src)
	c.drawn = -1
	c.saved = nil
}

// Render returns the canvas while frame i is shown. The returned image is
// owned by the compositor and is only valid until the next call.
func (c *Compositor) Render(i int) (*image.RGBA, error) {
	if _, err := c.seq.Frame(i); err != nil {
		return nil, err
	}
	if i < c.drawn {
		c.Reset()
	}
	for c.drawn < i {
		if c.drawn >= 0 {
			c.dispose(c.seq.Frames[c.drawn])
		}
		c.drawn++
		c.draw(c.seq.Frames[c.drawn])
	}
	return c.canvas, nil
}

// Snapshot is like Render but returns a copy the caller owns.
func (c *Compositor) Snapshot(i int) (*image.RGBA, error) {
	canvas, err := c.Render(i)
	if err != nil {
		return nil, err
	}
	return clone(canvas), nil
}

func (c *Compositor) draw(f pipeline.Frame) {
	r := f.Bounds()
	if f.Disposal == pipeline.DisposalPrevious {
		c.saved = image.NewRGBA(r)
		draw.Draw(c.saved, r, c.canvas, r.Min, draw.Src)
	} else {
		c.saved = nil
	}
	draw.Draw(c.canvas, r, f.Image, r.Min, draw.Over)
}

func (c *Compositor) dispose(f pipeline.Frame) {
	r := f.Bounds()
	switch f.Disposal {
	case pipeline.DisposalBackground:
		draw.Draw(c.canvas, r, image.Transparent, image.Point{}, draw.Src)
	case pipeline.DisposalPrevious:
		if c.saved != nil {
			draw.Draw(c.canvas, r, c.saved, r.Min, draw.Src)
		}
	}
}

func clone(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
