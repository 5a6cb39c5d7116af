package mocks

import (
	"context"
	"sync"

	"github.com/AT-290690/gif-player/pkg/pipeline"
	"github.com/AT-290690/gif-player/pkg/ports"
)

// Encoder is a mock implementation of ports.ContainerEncoder.
type Encoder struct {
	mu sync.Mutex

	EncodeFunc func(ctx context.Context, job pipeline.EncodeJob) ([]byte, error)

	// Recorded calls for verification
	Jobs []pipeline.EncodeJob
}

func (m *Encoder) Encode(ctx context.Context, job pipeline.EncodeJob) ([]byte, error) {
	m.mu.Lock()
	m.Jobs = append(m.Jobs, job)
	m.mu.Unlock()
	if m.EncodeFunc != nil {
		return m.EncodeFunc(ctx, job)
	}
	// Return a minimal GIF signature
	return []byte("GIF89a"), nil
}

// Calls returns the number of Encode calls.
func (m *Encoder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Jobs)
}

var _ ports.ContainerEncoder = (*Encoder)(nil)

// Decoder is a mock implementation of ports.ContainerDecoder.
type Decoder struct {
	DecodeFunc       func(data []byte) (*pipeline.Sequence, error)
	DecodeHeaderFunc func(data []byte) (pipeline.Header, error)

	DecodeCalls int
}

func (m *Decoder) Decode(data []byte) (*pipeline.Sequence, error) {
	m.DecodeCalls++
	if m.DecodeFunc != nil {
		return m.DecodeFunc(data)
	}
	return nil, pipeline.ErrMalformedContainer
}

func (m *Decoder) DecodeHeader(data []byte) (pipeline.Header, error) {
	if m.DecodeHeaderFunc != nil {
		return m.DecodeHeaderFunc(data)
	}
	return pipeline.Header{}, pipeline.ErrMalformedContainer
}

var _ ports.ContainerDecoder = (*Decoder)(nil)
