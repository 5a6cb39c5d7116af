package ports

import (
	"image"
	"image/color"
)

// Renderer creates the canvases surfaces paint on and encodes their
// rasters for the debug sink.
type Renderer interface {
	// NewCanvas returns a width×height canvas filled with bg. A nil bg
	// leaves it transparent.
	NewCanvas(width, height int, bg color.Color) Canvas

	// EncodePNG encodes img as PNG.
	EncodePNG(img image.Image) ([]byte, error)

	// Scale returns img resampled to width×height with bounds at the origin.
	Scale(img image.Image, width, height int) image.Image
}

// Canvas is a drawing target for one painted frame.
type Canvas interface {
	// DrawImage draws img with its top-left corner at (x, y), alpha
	// blended over what is already there.
	DrawImage(img image.Image, x, y int)

	// FillRect fills r with c.
	FillRect(r image.Rectangle, c color.Color)

	// DrawLabel draws a single line of text in the built-in face,
	// vertically centred on y and anchored on x by align.
	DrawLabel(text string, x, y int, c color.Color, align Align)

	// Image returns the canvas raster.
	Image() image.Image
}

// Align anchors a label horizontally.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)
