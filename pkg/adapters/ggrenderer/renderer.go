// Package ggrenderer draws surface canvases with the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/AT-290690/gif-player/pkg/ports"
)

// Renderer implements ports.Renderer.
type Renderer struct {
	scaler draw.Scaler
}

// New creates a Renderer that scales with nearest-neighbour sampling, which
// keeps pixel art sharp.
func New() *Renderer {
	return &Renderer{scaler: draw.NearestNeighbor}
}

// NewSmooth creates a Renderer that scales with Catmull-Rom interpolation.
func NewSmooth() *Renderer {
	return &Renderer{scaler: draw.CatmullRom}
}

func (r *Renderer) NewCanvas(width, height int, bg color.Color) ports.Canvas {
	dc := gg.NewContext(width, height)
	if bg != nil {
		dc.SetColor(bg)
		dc.Clear()
	}
	return &Canvas{dc: dc}
}

func (r *Renderer) EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) Scale(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	r.scaler.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas wraps a gg.Context.
type Canvas struct {
	dc *gg.Context
}

func (c *Canvas) DrawImage(img image.Image, x, y int) {
	b := img.Bounds()
	c.dc.DrawImage(img, x-b.Min.X, y-b.Min.Y)
}

func (c *Canvas) FillRect(r image.Rectangle, col color.Color) {
	if r.Empty() {
		return
	}
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	c.dc.Fill()
}

func (c *Canvas) DrawLabel(text string, x, y int, col color.Color, align ports.Align) {
	var ax float64
	switch align {
	case ports.AlignCenter:
		ax = 0.5
	case ports.AlignRight:
		ax = 1
	}
	c.dc.SetColor(col)
	c.dc.DrawStringAnchored(text, float64(x), float64(y), ax, 0.5)
}

func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

var _ ports.Canvas = (*Canvas)(nil)
