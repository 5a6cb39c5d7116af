package mocks

import (
	"image"
	"sync"

	"github.com/AT-290690/gif-player/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	SequenceJSON map[string][]byte
	Frames       map[string]map[int]image.Image
	Clips        map[string][]byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:      enabled,
		SequenceJSON: make(map[string][]byte),
		Frames:       make(map[string]map[int]image.Image),
		Clips:        make(map[string][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveSequenceJSON(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SequenceJSON[name] = data
	return nil
}

func (m *DebugSink) SaveFrame(name string, index int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Frames[name] == nil {
		m.Frames[name] = make(map[int]image.Image)
	}
	m.Frames[name][index] = img
	return nil
}

func (m *DebugSink) SaveClip(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clips[name] = data
	return nil
}

// Clip returns the saved clip for name.
func (m *DebugSink) Clip(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.Clips[name]
	return data, ok
}

var _ ports.DebugSink = (*DebugSink)(nil)
