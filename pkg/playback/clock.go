package playback

import (
	"time"

	"github.com/AT-290690/gif-player/pkg/ports"
)

// SystemClock schedules callbacks on the wall clock.
type SystemClock struct{}

// AfterFunc implements ports.Clock.
func (SystemClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}
