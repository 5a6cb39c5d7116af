// Package decode implements the container decoding stage.
package decode

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AT-290690/gif-player/pkg/pipeline"
	"github.com/AT-290690/gif-player/pkg/ports"
)

// Stage decodes raw container bytes into a frame sequence.
type Stage struct {
	decoder ports.ContainerDecoder
	sink    ports.DebugSink
	logger  ports.Logger
}

// NewStage creates a new decode stage.
func NewStage(decoder ports.ContainerDecoder, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		decoder: decoder,
		sink:    sink,
		logger:  logger.WithComponent("decode"),
	}
}

// Execute decodes input.Data. On failure no sequence is returned.
func (s *Stage) Execute(ctx context.Context, input pipeline.DecodeInput) (pipeline.DecodeResult, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.DecodeResult{}, err
	}

	s.logger.Debug("Decoding %s (%d bytes)", input.Name, len(input.Data))

	seq, err := s.decoder.Decode(input.Data)
	if err != nil {
		return pipeline.DecodeResult{}, fmt.Errorf("decode %s: %w", input.Name, err)
	}

	s.logger.Debug("Decoded %s: %dx%d, %d frames", input.Name, seq.Width, seq.Height, seq.Len())

	// Save debug output if enabled
	if s.sink.Enabled() {
		data, err := json.MarshalIndent(seq.Summary(), "", "  ")
		if err == nil {
			err = s.sink.SaveSequenceJSON(input.Name, data)
		}
		if err != nil {
			s.logger.Warn("Failed to save debug output: %v", err)
		}
	}

	return pipeline.DecodeResult{Sequence: seq}, nil
}

var _ pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult] = (*Stage)(nil)
