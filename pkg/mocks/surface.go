package mocks

import (
	"sync"

	"github.com/AT-290690/gif-player/pkg/pipeline"
)

// Surface is a mock implementation of ports.Surface that records the index
// of every painted frame.
type Surface struct {
	mu      sync.Mutex
	painted []int

	PaintFunc func(frame pipeline.Frame) error
}

// Paint records the frame and calls PaintFunc if set.
func (m *Surface) Paint(frame pipeline.Frame) error {
	m.mu.Lock()
	m.painted = append(m.painted, frame.Index)
	m.mu.Unlock()
	if m.PaintFunc != nil {
		return m.PaintFunc(frame)
	}
	return nil
}

// Painted returns the indices painted so far.
func (m *Surface) Painted() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.painted...)
}

// Last returns the last painted index, or -1.
func (m *Surface) Last() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.painted) == 0 {
		return -1
	}
	return m.painted[len(m.painted)-1]
}
