package encode

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/AT-290690/gif-player/pkg/adapters/gifencoder"
	"github.com/AT-290690/gif-player/pkg/adapters/logger"
	"github.com/AT-290690/gif-player/pkg/mocks"
	"github.com/AT-290690/gif-player/pkg/pipeline"
)

func testJob() pipeline.EncodeJob {
	frames := []pipeline.Frame{
		{Index: 0, Image: image.NewRGBA(image.Rect(0, 0, 4, 4)), Delay: 100 * time.Millisecond, Transparent: -1},
		{Index: 1, Image: image.NewRGBA(image.Rect(0, 0, 4, 4)), Delay: 200 * time.Millisecond, Transparent: -1},
		{Index: 2, Image: image.NewRGBA(image.Rect(0, 0, 4, 4)), Delay: 50 * time.Millisecond, Transparent: -1},
	}
	return pipeline.EncodeJob{Name: "clip.gif", Frames: frames, Width: 4, Height: 4, LoopCount: 0}
}

func TestStage_Execute(t *testing.T) {
	mockEncoder := &mocks.Encoder{}
	sink := mocks.NewDebugSink(true)

	stage := NewStage(mockEncoder, sink, logger.NewNoop())

	result, err := stage.Execute(context.Background(), testJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mockEncoder.Calls() != 1 {
		t.Errorf("expected 1 Encode call, got %d", mockEncoder.Calls())
	}
	if result.FrameCount != 3 {
		t.Errorf("expected 3 frames, got %d", result.FrameCount)
	}
	if result.Duration != 350*time.Millisecond {
		t.Errorf("expected duration 350ms, got %v", result.Duration)
	}
	if result.FileSize != int64(len(result.Data)) || len(result.Data) == 0 {
		t.Errorf("unexpected data size %d / %d", result.FileSize, len(result.Data))
	}
	if _, ok := sink.Clip("clip.gif"); !ok {
		t.Error("expected clip to be saved to the debug sink")
	}
}

func TestStage_Execute_NoFrames(t *testing.T) {
	mockEncoder := &mocks.Encoder{}
	stage := NewStage(mockEncoder, mocks.NewDebugSink(false), logger.NewNoop())

	_, err := stage.Execute(context.Background(), pipeline.EncodeJob{Width: 4, Height: 4})
	if !errors.Is(err, pipeline.ErrEncodeFailed) {
		t.Errorf("expected ErrEncodeFailed, got %v", err)
	}
	if mockEncoder.Calls() != 0 {
		t.Error("expected encoder not to be called")
	}
}

func TestStage_Execute_EncoderError(t *testing.T) {
	mockEncoder := &mocks.Encoder{
		EncodeFunc: func(context.Context, pipeline.EncodeJob) ([]byte, error) {
			return nil, errors.New("disk full")
		},
	}
	sink := mocks.NewDebugSink(true)
	stage := NewStage(mockEncoder, sink, logger.NewNoop())

	_, err := stage.Execute(context.Background(), testJob())
	if !errors.Is(err, pipeline.ErrEncodeFailed) {
		t.Errorf("expected ErrEncodeFailed, got %v", err)
	}
	if len(sink.Clips) != 0 {
		t.Error("expected nothing saved on failure")
	}
}

func TestStage_Execute_RealEncoder(t *testing.T) {
	stage := NewStage(gifencoder.New(2), mocks.NewDebugSink(false), logger.NewNoop())

	result, err := stage.Execute(context.Background(), testJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result.Data[:6]) != "GIF89a" {
		t.Errorf("expected GIF89a signature, got %q", result.Data[:6])
	}
}

func TestStage_Submit(t *testing.T) {
	stage := NewStage(&mocks.Encoder{}, mocks.NewDebugSink(false), logger.NewNoop())

	job := stage.Submit(context.Background(), testJob())

	select {
	case <-job.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("job did not finish")
	}
	result, err := job.Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FrameCount != 3 {
		t.Errorf("expected 3 frames, got %d", result.FrameCount)
	}

	// Cancelling a finished job keeps its result.
	job.Cancel()
	if _, err := job.Result(); err != nil {
		t.Errorf("unexpected error after cancelling a finished job: %v", err)
	}
}

func TestStage_Submit_Cancel(t *testing.T) {
	started := make(chan struct{})
	mockEncoder := &mocks.Encoder{
		EncodeFunc: func(ctx context.Context, job pipeline.EncodeJob) ([]byte, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	stage := NewStage(mockEncoder, mocks.NewDebugSink(false), logger.NewNoop())

	job := stage.Submit(context.Background(), testJob())
	<-started
	job.Cancel()

	result, err := job.Result()
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result.Data != nil {
		t.Error("expected no result from a cancelled job")
	}
}

func TestStage_Submit_ParentCancelled(t *testing.T) {
	mockEncoder := &mocks.Encoder{
		EncodeFunc: func(ctx context.Context, job pipeline.EncodeJob) ([]byte, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	stage := NewStage(mockEncoder, mocks.NewDebugSink(false), logger.NewNoop())

	ctx, cancel := context.WithCancel(context.Background())
	job := stage.Submit(ctx, testJob())
	cancel()

	if _, err := job.Result(); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
