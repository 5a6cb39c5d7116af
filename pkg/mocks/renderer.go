package mocks

import (
	"image"
	"image/color"
	"sync"

	"github.com/AT-290690/gif-player/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer. Canvases it creates
// are kept so tests can inspect what a surface drew.
type Renderer struct {
	EncodePNGFunc func(img image.Image) ([]byte, error)

	mu       sync.Mutex
	canvases []*Canvas
}

func (m *Renderer) NewCanvas(width, height int, bg color.Color) ports.Canvas {
	c := &Canvas{width: width, height: height, Background: bg}
	m.mu.Lock()
	m.canvases = append(m.canvases, c)
	m.mu.Unlock()
	return c
}

func (m *Renderer) EncodePNG(img image.Image) ([]byte, error) {
	if m.EncodePNGFunc != nil {
		return m.EncodePNGFunc(img)
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func (m *Renderer) Scale(img image.Image, width, height int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// LastCanvas returns the most recently created canvas, or nil.
func (m *Renderer) LastCanvas() *Canvas {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.canvases) == 0 {
		return nil
	}
	return m.canvases[len(m.canvases)-1]
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas records the rectangles and labels drawn on it.
type Canvas struct {
	width, height int
	Background    color.Color

	mu     sync.Mutex
	Fills  []Fill
	Labels []string
}

// Fill records a call to FillRect.
type Fill struct {
	Rect  image.Rectangle
	Color color.Color
}

func (m *Canvas) DrawImage(image.Image, int, int) {}

func (m *Canvas) FillRect(r image.Rectangle, c color.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fills = append(m.Fills, Fill{Rect: r, Color: c})
}

func (m *Canvas) DrawLabel(text string, x, y int, c color.Color, align ports.Align) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Labels = append(m.Labels, text)
}

func (m *Canvas) Image() image.Image {
	return image.NewRGBA(image.Rect(0, 0, m.width, m.height))
}

var _ ports.Canvas = (*Canvas)(nil)
