// Package extract implements clip extraction: selecting an inclusive run of
// frames, forwards or backwards, from a decoded sequence.
package extract

import (
	"context"
	"fmt"

	"github.com/AT-290690/gif-player/pkg/compose"
	"github.com/AT-290690/gif-player/pkg/pipeline"
	"github.com/AT-290690/gif-player/pkg/ports"
)

// Extract returns the frames of seq selected by r. Frames are in ascending
// order when r.Start <= r.End and descending otherwise; both bounds are
// inclusive. The frames share their rasters with seq.
func Extract(seq *pipeline.Sequence, r pipeline.ClipRange) ([]pipeline.Frame, error) {
	if _, err := seq.Frame(r.Start); err != nil {
		return nil, fmt.Errorf("clip start: %w", err)
	}
	if _, err := seq.Frame(r.End); err != nil {
		return nil, fmt.Errorf("clip end: %w", err)
	}

	step := 1
	if r.Reversed() {
		step = -1
	}
	frames := make([]pipeline.Frame, 0, r.Len())
	for i := r.Start; ; i += step {
		frames = append(frames, seq.Frames[i])
		if i == r.End {
			break
		}
	}
	return frames, nil
}

// Stage extracts a clip and optionally flattens it.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new extract stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{
		logger: logger.WithComponent("extract"),
	}
}

// Execute extracts input.Range from input.Sequence.
func (s *Stage) Execute(ctx context.Context, input pipeline.ExtractInput) (pipeline.ExtractResult, error) {
	if input.Sequence == nil {
		return pipeline.ExtractResult{}, fmt.Errorf("no sequence to extract from")
	}

	frames, err := Extract(input.Sequence, input.Range)
	if err != nil {
		return pipeline.ExtractResult{}, err
	}

	s.logger.Debug("Extracting frames %d to %d (%d frames)", input.Range.Start, input.Range.End, len(frames))

	if input.Flatten {
		if err := ctx.Err(); err != nil {
			return pipeline.ExtractResult{}, err
		}
		frames, err = compose.Flatten(input.Sequence, frames)
		if err != nil {
			return pipeline.ExtractResult{}, fmt.Errorf("flatten clip: %w", err)
		}
	}

	return pipeline.ExtractResult{Frames: frames}, nil
}

var _ pipeline.Stage[pipeline.ExtractInput, pipeline.ExtractResult] = (*Stage)(nil)
