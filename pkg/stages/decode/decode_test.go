package decode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"testing"

	"github.com/AT-290690/gif-player/pkg/adapters/gifdecoder"
	"github.com/AT-290690/gif-player/pkg/adapters/logger"
	"github.com/AT-290690/gif-player/pkg/mocks"
	"github.com/AT-290690/gif-player/pkg/pipeline"
)

func testGIF(t *testing.T) []byte {
	t.Helper()
	pal := color.Palette{color.Black, color.White}
	var buf bytes.Buffer
	err := gif.EncodeAll(&buf, &gif.GIF{
		Image: []*image.Paletted{
			image.NewPaletted(image.Rect(0, 0, 3, 2), pal),
			image.NewPaletted(image.Rect(0, 0, 3, 2), pal),
		},
		Delay: []int{5, 5},
	})
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestStage_Execute(t *testing.T) {
	sink := mocks.NewDebugSink(true)
	stage := NewStage(gifdecoder.New(), sink, logger.NewNoop())

	result, err := stage.Execute(context.Background(), pipeline.DecodeInput{Name: "a.gif", Data: testGIF(t)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sequence.Len() != 2 {
		t.Errorf("expected 2 frames, got %d", result.Sequence.Len())
	}

	// Check debug output
	data, ok := sink.SequenceJSON["a.gif"]
	if !ok {
		t.Fatal("expected sequence summary to be saved")
	}
	var summary pipeline.SequenceSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("invalid summary JSON: %v", err)
	}
	if summary.Width != 3 || len(summary.Frames) != 2 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestStage_Execute_DebugDisabled(t *testing.T) {
	sink := mocks.NewDebugSink(false)
	stage := NewStage(gifdecoder.New(), sink, logger.NewNoop())

	if _, err := stage.Execute(context.Background(), pipeline.DecodeInput{Name: "a.gif", Data: testGIF(t)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.SequenceJSON) != 0 {
		t.Error("expected no debug output")
	}
}

func TestStage_Execute_Error(t *testing.T) {
	dec := &mocks.Decoder{
		DecodeFunc: func([]byte) (*pipeline.Sequence, error) {
			return nil, pipeline.ErrTruncated
		},
	}
	stage := NewStage(dec, mocks.NewDebugSink(true), logger.NewNoop())

	result, err := stage.Execute(context.Background(), pipeline.DecodeInput{Name: "bad.gif", Data: []byte("GIF89a")})
	if !errors.Is(err, pipeline.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if result.Sequence != nil {
		t.Error("expected no sequence on error")
	}
}

func TestStage_Execute_Cancelled(t *testing.T) {
	dec := &mocks.Decoder{}
	stage := NewStage(dec, mocks.NewDebugSink(false), logger.NewNoop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := stage.Execute(ctx, pipeline.DecodeInput{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if dec.DecodeCalls != 0 {
		t.Errorf("expected decoder not to be called")
	}
}
