// Package gifencoder provides a GIF container encoder.
//
// Frames are converted to paletted rasters and LZW-compressed on a worker
// pool, then written in input order. Paletted frames keep their palette and
// pixel indices, so a decoded sequence survives a round trip unchanged.
package gifencoder

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/AT-290690/gif-player/pkg/pipeline"
	"github.com/AT-290690/gif-player/pkg/ports"
)

// DefaultWorkers is the number of frames compressed concurrently when no
// worker count is configured.
const DefaultWorkers = 2

// Encoder writes frame lists as GIF89a containers.
type Encoder struct {
	workers int
}

// New creates a new Encoder. A non-positive worker count selects
// DefaultWorkers.
func New(workers int) *Encoder {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Encoder{workers: workers}
}

// Workers returns the configured worker count.
func (e *Encoder) Workers() int {
	return e.workers
}

// Encode writes job.Frames in order. Any failure is reported wrapping
// pipeline.ErrEncodeFailed; a cancelled context is reported as ctx.Err().
func (e *Encoder) Encode(ctx context.Context, job pipeline.EncodeJob) ([]byte, error) {
	if err := validate(job); err != nil {
		return nil, err
	}

	frames, err := e.compressParallel(ctx, job.Frames)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := writer{buf: &buf}
	w.writeHeader(job.Width, job.Height, frames[0].table)
	if job.LoopCount >= 0 {
		w.writeLoopCount(job.LoopCount)
	}
	for i, f := range frames {
		w.writeFrame(job.Frames[i], f)
	}
	w.writeTrailer()
	return buf.Bytes(), nil
}

func validate(job pipeline.EncodeJob) error {
	if len(job.Frames) == 0 {
		return encodeFailed("no frames")
	}
	if job.Width <= 0 || job.Height <= 0 || job.Width > 0xffff || job.Height > 0xffff {
		return encodeFailed("invalid canvas %dx%d", job.Width, job.Height)
	}
	if job.LoopCount > 0xffff {
		return encodeFailed("loop count %d too large", job.LoopCount)
	}
	canvas := pipeline.Header{Width: job.Width, Height: job.Height}
	bounds := (&pipeline.Sequence{Header: canvas}).Bounds()
	for i, f := range job.Frames {
		if f.Image == nil {
			return encodeFailed("frame %d has no image", i)
		}
		b := f.Bounds()
		if b.Empty() || !b.In(bounds) {
			return encodeFailed("frame %d bounds %v outside canvas %v", i, b, bounds)
		}
		if f.Delay < 0 {
			return encodeFailed("frame %d has negative delay %v", i, f.Delay)
		}
		if f.Disposal > pipeline.DisposalPrevious {
			return encodeFailed("frame %d: unknown %v", i, f.Disposal)
		}
	}
	return nil
}

// indexedFrame holds a compressed frame with its input index for sorting.
type indexedFrame struct {
	index int
	frame compressedFrame
}

// compressParallel converts and compresses frames using a worker pool.
func (e *Encoder) compressParallel(ctx context.Context, input []pipeline.Frame) ([]compressedFrame, error) {
	numFrames := len(input)
	numWorkers := min(e.workers, numFrames)
	jobs := make(chan int, numFrames)
	results := make(chan indexedFrame, numFrames)
	errChan := make(chan error, numWorkers)

	// Start workers
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go worker(ctx, &wg, input, jobs, results, errChan)
	}

	// Send jobs
	for i := 0; i < numFrames; i++ {
		jobs <- i
	}
	close(jobs)

	// Wait for workers to finish
	go func() {
		wg.Wait()
		close(results)
		close(errChan)
	}()

	// Collect results
	frames := make([]indexedFrame, 0, numFrames)
	for result := range results {
		frames = append(frames, result)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := <-errChan; err != nil {
		return nil, err
	}
	if len(frames) != numFrames {
		return nil, encodeFailed("compressed %d of %d frames", len(frames), numFrames)
	}

	// Sort by index to maintain order
	sort.Slice(frames, func(i, j int) bool {
		return frames[i].index < frames[j].index
	})

	out := make([]compressedFrame, numFrames)
	for i, f := range frames {
		out[i] = f.frame
	}
	return out, nil
}

// worker compresses frames from the jobs channel.
func worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	input []pipeline.Frame,
	jobs <-chan int,
	results chan<- indexedFrame,
	errChan chan<- error,
) {
	defer wg.Done()

	for idx := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frame, err := compress(input[idx])
		if err != nil {
			select {
			case errChan <- fmt.Errorf("frame %d: %w", idx, err):
			default:
			}
			return
		}

		results <- indexedFrame{index: idx, frame: frame}
	}
}

// Ensure Encoder implements ports.ContainerEncoder
var _ ports.ContainerEncoder = (*Encoder)(nil)
