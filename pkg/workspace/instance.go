package workspace

import (
	"context"
	"errors"
	"image/color"
	"sync"

	"github.com/AT-290690/gif-player/pkg/adapters/ggsurface"
	"github.com/AT-290690/gif-player/pkg/pipeline"
	"github.com/AT-290690/gif-player/pkg/playback"
)

// ErrRemoved is returned by operations on a removed instance.
var ErrRemoved = errors.New("workspace: instance removed")

// Instance is one loaded animation: its sequence, a controller playing it
// onto a surface, and the marks of the next cut.
type Instance struct {
	ws      *Workspace
	id      int
	name    string
	data    []byte
	seq     *pipeline.Sequence
	surface *ggsurface.Surface
	ctrl    *playback.Controller

	// ctx is cancelled by Remove and stops in-flight cuts.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	cut     pipeline.ClipRange
	removed bool
}

func (in *Instance) ID() int                      { return in.id }
func (in *Instance) Name() string                 { return in.name }
func (in *Instance) Data() []byte                 { return in.data }
func (in *Instance) Sequence() *pipeline.Sequence { return in.seq }
func (in *Instance) Surface() *ggsurface.Surface  { return in.surface }
func (in *Instance) Len() int                     { return in.ctrl.Len() }
func (in *Instance) Current() int                 { return in.ctrl.Current() }
func (in *Instance) Mode() playback.Mode          { return in.ctrl.Mode() }

// Background returns the colour shown behind transparent pixels.
func (in *Instance) Background() color.RGBA {
	return ggsurface.Background(in.id)
}

func (in *Instance) Play()         { in.ctrl.Play() }
func (in *Instance) Pause()        { in.ctrl.Pause() }
func (in *Instance) StepForward()  { in.ctrl.StepForward() }
func (in *Instance) StepBackward() { in.ctrl.StepBackward() }

// Seek moves to frame i.
func (in *Instance) Seek(i int) error {
	return in.ctrl.Seek(i)
}

// SetCutStart marks the current frame as the first frame of the next cut.
func (in *Instance) SetCutStart() {
	cur := in.ctrl.Current()
	in.mu.Lock()
	in.cut.Start = cur
	in.mu.Unlock()
}

// SetCutEnd marks the current frame as the last frame of the next cut.
func (in *Instance) SetCutEnd() {
	cur := in.ctrl.Current()
	in.mu.Lock()
	in.cut.End = cur
	in.mu.Unlock()
}

// SetCutRange sets both marks. Start may exceed End for a reversed clip.
func (in *Instance) SetCutRange(r pipeline.ClipRange) error {
	if _, err := in.seq.Frame(r.Start); err != nil {
		return err
	}
	if _, err := in.seq.Frame(r.End); err != nil {
		return err
	}
	in.mu.Lock()
	in.cut = r
	in.mu.Unlock()
	return nil
}

// CutRange returns the current marks. They default to the whole sequence.
func (in *Instance) CutRange() pipeline.ClipRange {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.cut
}

// Cut encodes the marked frames into a new instance in the background. The
// source instance is never modified, whatever the outcome.
func (in *Instance) Cut() *CutJob {
	in.mu.Lock()
	r := in.cut
	removed := in.removed
	in.mu.Unlock()

	job := &CutJob{Range: r, done: make(chan struct{})}
	if removed {
		job.finish(nil, ErrRemoved)
		return job
	}
	go in.runCut(job, r)
	return job
}

func (in *Instance) runCut(job *CutJob, r pipeline.ClipRange) {
	name := ClipName(in.name, r)
	clip, err := in.ws.cut(in.ctx, in, r, name)

	in.mu.Lock()
	defer in.mu.Unlock()

	// Removed while cutting: the clip is discarded, never delivered.
	if in.removed {
		if clip != nil {
			clip.Remove()
		}
		clip, err = nil, context.Canceled
	}

	switch {
	case errors.Is(err, context.Canceled):
		in.ws.logger.Info("Cut cancelled for %s", in.name)
	case err != nil:
		in.ws.logger.Error("Cut failed for %s: %v", in.name, err)
	default:
		in.ws.logger.Info("Cut ready: %s", clip.name)
	}
	job.finish(clip, err)
}

// Remove stops playback and cancels in-flight cuts. Their results are
// discarded. Remove is idempotent.
func (in *Instance) Remove() {
	in.mu.Lock()
	if in.removed {
		in.mu.Unlock()
		return
	}
	in.removed = true
	in.mu.Unlock()

	in.cancel()
	in.ctrl.Close()
	in.ws.logger.Info("Removed %s", in.name)
}

// Removed reports whether Remove has been called.
func (in *Instance) Removed() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.removed
}

// CutJob is a cut running in the background.
type CutJob struct {
	Range pipeline.ClipRange

	done chan struct{}
	clip *Instance
	err  error
}

func (j *CutJob) finish(clip *Instance, err error) {
	j.clip, j.err = clip, err
	close(j.done)
}

// Done returns a channel that is closed when the cut has ended.
func (j *CutJob) Done() <-chan struct{} {
	return j.done
}

// Result waits for the cut to end and returns the new instance.
func (j *CutJob) Result() (*Instance, error) {
	<-j.done
	return j.clip, j.err
}
