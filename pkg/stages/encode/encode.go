// Package encode implements the clip encoding stage.
package encode

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AT-290690/gif-player/pkg/pipeline"
	"github.com/AT-290690/gif-player/pkg/ports"
)

// Stage encodes an ordered frame list into a new container.
type Stage struct {
	encoder ports.ContainerEncoder
	sink    ports.DebugSink
	logger  ports.Logger
}

// NewStage creates a new encode stage.
func NewStage(encoder ports.ContainerEncoder, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		encoder: encoder,
		sink:    sink,
		logger:  logger.WithComponent("encode"),
	}
}

// Execute encodes all frames. Failures wrap pipeline.ErrEncodeFailed; a
// cancelled context is returned as is.
func (s *Stage) Execute(ctx context.Context, job pipeline.EncodeJob) (pipeline.EncodeResult, error) {
	result := pipeline.EncodeResult{}

	if len(job.Frames) == 0 {
		return result, fmt.Errorf("no frames to encode: %w", pipeline.ErrEncodeFailed)
	}

	s.logger.Debug("Encoding %d frames (%dx%d)", len(job.Frames), job.Width, job.Height)

	data, err := s.encoder.Encode(ctx, job)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}
	if err != nil {
		if !errors.Is(err, pipeline.ErrEncodeFailed) {
			err = fmt.Errorf("%w: %w", pipeline.ErrEncodeFailed, err)
		}
		return result, fmt.Errorf("encode %s: %w", job.Name, err)
	}

	for _, f := range job.Frames {
		result.Duration += f.Delay
	}
	result.Data = data
	result.FrameCount = len(job.Frames)
	result.FileSize = int64(len(data))

	s.logger.Debug("Clip encoded: %d bytes", result.FileSize)

	// Save debug output if enabled
	if s.sink.Enabled() {
		if err := s.sink.SaveClip(job.Name, data); err != nil {
			s.logger.Warn("Failed to save debug output: %v", err)
		}
	}

	return result, nil
}

// Job is an encode running in the background. It ends with exactly one
// terminal outcome: a result or an error.
type Job struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	result pipeline.EncodeResult
	err    error
}

// Submit starts encoding job on its own goroutine. The job is cancelled
// when ctx is.
func (s *Stage) Submit(ctx context.Context, job pipeline.EncodeJob) *Job {
	jobCtx, cancel := context.WithCancel(ctx)
	j := &Job{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer cancel()
		result, err := s.Execute(jobCtx, job)
		// A job cancelled while the encoder was finishing still reports
		// the cancellation and never its result.
		if ctxErr := jobCtx.Err(); ctxErr != nil {
			result, err = pipeline.EncodeResult{}, ctxErr
		}
		j.mu.Lock()
		j.result, j.err = result, err
		j.mu.Unlock()
		close(j.done)
	}()
	return j
}

// Done returns a channel that is closed when the job has ended.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Result waits for the job to end and returns its outcome.
func (j *Job) Result() (pipeline.EncodeResult, error) {
	<-j.done
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, j.err
}

// Cancel stops the job. A job that has not ended yet ends with
// context.Canceled; cancelling an ended job has no effect.
func (j *Job) Cancel() {
	j.cancel()
}

var _ pipeline.Stage[pipeline.EncodeJob, pipeline.EncodeResult] = (*Stage)(nil)
