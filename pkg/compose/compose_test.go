package compose

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/AT-290690/gif-player/pkg/pipeline"
)

var (
	red   = color.RGBA{0xff, 0x00, 0x00, 0xff}
	green = color.RGBA{0x00, 0xff, 0x00, 0xff}
	blue  = color.RGBA{0x00, 0x00, 0xff, 0xff}
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
	none  = color.RGBA{}

	testPalette = color.Palette{red, green, blue, white}
)

func solidFrame(i int, r image.Rectangle, idx uint8, d pipeline.Disposal) pipeline.Frame {
	pm := image.NewPaletted(r, testPalette)
	for j := range pm.Pix {
		pm.Pix[j] = idx
	}
	return pipeline.Frame{Index: i, Image: pm, Delay: 100 * time.Millisecond, Disposal: d, Transparent: -1}
}

// testSequence exercises every disposal method on a 4x4 canvas.
func testSequence() *pipeline.Sequence {
	return &pipeline.Sequence{
		Header: pipeline.Header{Width: 4, Height: 4},
		Frames: []pipeline.Frame{
			solidFrame(0, image.Rect(0, 0, 4, 4), 0, pipeline.DisposalNone),
			solidFrame(1, image.Rect(1, 1, 3, 3), 1, pipeline.DisposalBackground),
			solidFrame(2, image.Rect(0, 0, 1, 1), 2, pipeline.DisposalPrevious),
			solidFrame(3, image.Rect(3, 3, 4, 4), 3, pipeline.DisposalUnspecified),
		},
	}
}

func checkPixels(t *testing.T, frame int, img image.Image, want map[image.Point]color.RGBA) {
	t.Helper()
	for p, w := range want {
		if got := color.RGBAModel.Convert(img.At(p.X, p.Y)); got != w {
			t.Errorf("frame %d pixel %v: expected %v, got %v", frame, p, w, got)
		}
	}
}

var expected = []map[image.Point]color.RGBA{
	{{0, 0}: red, {1, 1}: red, {3, 3}: red},
	{{0, 0}: red, {1, 1}: green, {2, 2}: green, {3, 3}: red},
	{{0, 0}: blue, {1, 1}: none, {2, 2}: none, {3, 3}: red},
	{{0, 0}: red, {1, 1}: none, {2, 2}: none, {3, 3}: white},
}

func TestCompositor_Render(t *testing.T) {
	c := New(testSequence())

	for i, want := range expected {
		img, err := c.Render(i)
		if err != nil {
			t.Fatalf("frame %d: unexpected error: %v", i, err)
		}
		if img.Bounds() != image.Rect(0, 0, 4, 4) {
			t.Errorf("frame %d: expected full canvas, got %v", i, img.Bounds())
		}
		checkPixels(t, i, img, want)
	}
}

func TestCompositor_Render_Backwards(t *testing.T) {
	c := New(testSequence())

	for _, i := range []int{3, 1, 2, 0, 3} {
		img, err := c.Render(i)
		if err != nil {
			t.Fatalf("frame %d: unexpected error: %v", i, err)
		}
		checkPixels(t, i, img, expected[i])
	}
}

func TestCompositor_Render_OutOfRange(t *testing.T) {
	c := New(testSequence())

	for _, i := range []int{-1, 4} {
		if _, err := c.Render(i); !errors.Is(err, pipeline.ErrIndexOutOfRange) {
			t.Errorf("Render(%d): expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
}

func TestCompositor_Snapshot(t *testing.T) {
	c := New(testSequence())

	snap, err := c.Snapshot(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Render(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The snapshot is unaffected by later rendering.
	checkPixels(t, 1, snap, expected[1])
}

func TestFlatten_Reversed(t *testing.T) {
	seq := testSequence()
	reversed := []pipeline.Frame{seq.Frames[3], seq.Frames[2], seq.Frames[1], seq.Frames[0]}

	out, err := Flatten(seq, reversed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(out))
	}
	for i, f := range out {
		src := reversed[i].Index
		if f.Index != src {
			t.Errorf("position %d: expected source index %d, got %d", i, src, f.Index)
		}
		if f.Disposal != pipeline.DisposalBackground {
			t.Errorf("position %d: expected DisposalBackground, got %v", i, f.Disposal)
		}
		if f.Bounds() != seq.Bounds() {
			t.Errorf("position %d: expected canvas bounds, got %v", i, f.Bounds())
		}
		if f.Delay != seq.Frames[src].Delay {
			t.Errorf("position %d: expected delay %v, got %v", i, seq.Frames[src].Delay, f.Delay)
		}
		checkPixels(t, src, f.Image, expected[src])
	}
}

func TestFlatten_Errors(t *testing.T) {
	seq := testSequence()

	out, err := Flatten(seq, nil)
	if err != nil || out != nil {
		t.Errorf("expected empty result for no frames, got %v, %v", out, err)
	}

	bad := pipeline.Frame{Index: 9}
	if _, err := Flatten(seq, []pipeline.Frame{bad}); !errors.Is(err, pipeline.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}
