package gifencoder

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"testing"
	"time"

	"github.com/AT-290690/gif-player/pkg/adapters/gifdecoder"
	"github.com/AT-290690/gif-player/pkg/pipeline"
)

var testPalette = color.Palette{
	color.RGBA{0xff, 0x00, 0x00, 0xff},
	color.RGBA{0x00, 0xff, 0x00, 0xff},
	color.RGBA{0x00, 0x00, 0xff, 0xff},
	color.RGBA{},
}

func testFrames(n int) []pipeline.Frame {
	frames := make([]pipeline.Frame, n)
	for i := range frames {
		r := image.Rect(0, 0, 8, 6)
		if i%2 == 1 {
			r = image.Rect(2, 1, 6, 5)
		}
		pm := image.NewPaletted(r, testPalette)
		for j := range pm.Pix {
			pm.Pix[j] = uint8((i + j) % len(testPalette))
		}
		frames[i] = pipeline.Frame{
			Index:       i,
			Image:       pm,
			Delay:       time.Duration(i+1) * 30 * time.Millisecond,
			Disposal:    pipeline.Disposal(i % 4),
			Transparent: 3,
		}
	}
	return frames
}

func samePixels(t *testing.T, i int, want, got image.Image) {
	t.Helper()
	if want.Bounds() != got.Bounds() {
		t.Fatalf("frame %d: expected bounds %v, got %v", i, want.Bounds(), got.Bounds())
	}
	b := want.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			w := color.RGBAModel.Convert(want.At(x, y))
			g := color.RGBAModel.Convert(got.At(x, y))
			if w != g {
				t.Fatalf("frame %d pixel (%d,%d): expected %v, got %v", i, x, y, w, g)
			}
		}
	}
}

func TestEncoder_Encode_RoundTrip(t *testing.T) {
	frames := testFrames(5)
	job := pipeline.EncodeJob{Frames: frames, Width: 8, Height: 6, LoopCount: 0}

	data, err := New(2).Encode(context.Background(), job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seq, err := gifdecoder.New().Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if seq.Width != 8 || seq.Height != 6 {
		t.Errorf("expected 8x6 canvas, got %dx%d", seq.Width, seq.Height)
	}
	if seq.LoopCount != 0 {
		t.Errorf("expected loop count 0, got %d", seq.LoopCount)
	}
	if seq.Len() != len(frames) {
		t.Fatalf("expected %d frames, got %d", len(frames), seq.Len())
	}
	for i, f := range seq.Frames {
		if f.Delay != frames[i].Delay {
			t.Errorf("frame %d: expected delay %v, got %v", i, frames[i].Delay, f.Delay)
		}
		if f.Disposal != frames[i].Disposal {
			t.Errorf("frame %d: expected disposal %v, got %v", i, frames[i].Disposal, f.Disposal)
		}
		if f.Transparent != 3 {
			t.Errorf("frame %d: expected transparent index 3, got %d", i, f.Transparent)
		}
		samePixels(t, i, frames[i].Image, f.Image)
	}

	// The output must also be readable by an independent decoder.
	if _, err := gif.DecodeAll(bytes.NewReader(data)); err != nil {
		t.Errorf("stdlib decode: %v", err)
	}
}

func TestEncoder_Encode_WorkerCountDoesNotChangeOutput(t *testing.T) {
	job := pipeline.EncodeJob{Frames: testFrames(9), Width: 8, Height: 6, LoopCount: 2}

	want, err := New(1).Encode(context.Background(), job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, workers := range []int{2, 4, 16} {
		got, err := New(workers).Encode(context.Background(), job)
		if err != nil {
			t.Fatalf("workers=%d: unexpected error: %v", workers, err)
		}
		if !bytes.Equal(want, got) {
			t.Errorf("workers=%d: output differs from single worker", workers)
		}
	}
}

func TestEncoder_Encode_PlayOnce(t *testing.T) {
	job := pipeline.EncodeJob{Frames: testFrames(2), Width: 8, Height: 6, LoopCount: -1}

	data, err := New(0).Encode(context.Background(), job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bytes.Contains(data, []byte("NETSCAPE2.0")) {
		t.Errorf("expected no loop extension")
	}
	seq, err := gifdecoder.New().Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if seq.LoopCount != -1 {
		t.Errorf("expected loop count -1, got %d", seq.LoopCount)
	}
}

func TestEncoder_Encode_LocalPalette(t *testing.T) {
	frames := testFrames(2)
	other := color.Palette{color.Black, color.White}
	pm := image.NewPaletted(image.Rect(0, 0, 8, 6), other)
	pm.Pix[0] = 1
	frames[1].Image = pm

	data, err := New(2).Encode(context.Background(), pipeline.EncodeJob{Frames: frames, Width: 8, Height: 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seq, err := gifdecoder.New().Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if seq.Frames[0].LocalPalette {
		t.Errorf("expected first frame to use the global table")
	}
	if !seq.Frames[1].LocalPalette {
		t.Errorf("expected second frame to carry a local table")
	}
	samePixels(t, 1, pm, seq.Frames[1].Image)
}

func TestEncoder_Encode_TrueColour(t *testing.T) {
	// Few colours map exactly.
	few := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			few.Set(x, y, color.RGBA{uint8(x * 60), uint8(y * 60), 0x80, 0xff})
		}
	}

	// A gradient with more than 256 colours is quantised.
	many := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			many.Set(x, y, color.RGBA{uint8(x * 8), uint8(y * 8), uint8(x + y), 0xff})
		}
	}

	for name, img := range map[string]*image.RGBA{"few": few, "many": many} {
		t.Run(name, func(t *testing.T) {
			b := img.Bounds()
			job := pipeline.EncodeJob{
				Frames: []pipeline.Frame{{Image: img, Delay: 100 * time.Millisecond, Transparent: -1}},
				Width:  b.Dx(),
				Height: b.Dy(),
			}
			data, err := New(2).Encode(context.Background(), job)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			seq, err := gifdecoder.New().Decode(data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if seq.Frames[0].Bounds() != b {
				t.Errorf("expected bounds %v, got %v", b, seq.Frames[0].Bounds())
			}
			if name == "few" {
				samePixels(t, 0, img, seq.Frames[0].Image)
			}
		})
	}
}

func TestEncoder_Encode_DelayRounding(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{0, 0},
		{4 * time.Millisecond, 0},
		{5 * time.Millisecond, 10 * time.Millisecond},
		{15 * time.Millisecond, 20 * time.Millisecond},
		{33 * time.Millisecond, 30 * time.Millisecond},
		{time.Hour, 0xffff * pipeline.DelayUnit},
	}

	for _, tt := range tests {
		frames := testFrames(1)
		frames[0].Delay = tt.in
		data, err := New(1).Encode(context.Background(), pipeline.EncodeJob{Frames: frames, Width: 8, Height: 6})
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", tt.in, err)
		}
		seq, err := gifdecoder.New().Decode(data)
		if err != nil {
			t.Fatalf("%v: decode: %v", tt.in, err)
		}
		if got := seq.Frames[0].Delay; got != tt.want {
			t.Errorf("delay %v: expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestEncoder_Encode_Errors(t *testing.T) {
	outside := testFrames(1)
	outside[0].Image = image.NewPaletted(image.Rect(4, 4, 12, 12), testPalette)

	noImage := testFrames(1)
	noImage[0].Image = nil

	negative := testFrames(1)
	negative[0].Delay = -time.Second

	badIndex := testFrames(1)
	badIndex[0].Image.(*image.Paletted).Pix[0] = 200

	tests := []struct {
		name string
		job  pipeline.EncodeJob
	}{
		{"no frames", pipeline.EncodeJob{Width: 8, Height: 6}},
		{"zero canvas", pipeline.EncodeJob{Frames: testFrames(1)}},
		{"frame outside canvas", pipeline.EncodeJob{Frames: outside, Width: 8, Height: 6}},
		{"nil image", pipeline.EncodeJob{Frames: noImage, Width: 8, Height: 6}},
		{"negative delay", pipeline.EncodeJob{Frames: negative, Width: 8, Height: 6}},
		{"loop count too large", pipeline.EncodeJob{Frames: testFrames(1), Width: 8, Height: 6, LoopCount: 70000}},
		{"pixel outside palette", pipeline.EncodeJob{Frames: badIndex, Width: 8, Height: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := New(2).Encode(context.Background(), tt.job)
			if !errors.Is(err, pipeline.ErrEncodeFailed) {
				t.Fatalf("expected ErrEncodeFailed, got %v", err)
			}
			if data != nil {
				t.Errorf("expected no output on failure")
			}
		})
	}
}

func TestEncoder_Encode_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(2).Encode(ctx, pipeline.EncodeJob{Frames: testFrames(4), Width: 8, Height: 6})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNew_DefaultWorkers(t *testing.T) {
	if got := New(0).Workers(); got != DefaultWorkers {
		t.Errorf("expected %d workers, got %d", DefaultWorkers, got)
	}
	if got := New(5).Workers(); got != 5 {
		t.Errorf("expected 5 workers, got %d", got)
	}
}
