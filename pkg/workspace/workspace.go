// Package workspace owns loaded animations. It decodes raw bytes into
// playable instances and cuts clips from them into new instances.
package workspace

import (
	"context"
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/AT-290690/gif-player/pkg/adapters/ggsurface"
	"github.com/AT-290690/gif-player/pkg/pipeline"
	"github.com/AT-290690/gif-player/pkg/playback"
	"github.com/AT-290690/gif-player/pkg/ports"
	"github.com/AT-290690/gif-player/pkg/stages/decode"
	"github.com/AT-290690/gif-player/pkg/stages/encode"
	"github.com/AT-290690/gif-player/pkg/stages/extract"
)

// Config contains all configuration for the workspace.
type Config struct {
	// Playback
	MinDelay     time.Duration
	DefaultDelay time.Duration
	Clock        ports.Clock // nil uses the system clock

	// Cutting
	Flatten bool

	// CacheSize is the number of decoded sequences kept for reuse when the
	// same bytes are loaded again. Zero disables the cache.
	CacheSize int

	// Presentation. Background is replaced by each instance's pool colour.
	Surface ggsurface.Options
}

// DefaultCacheSize is the default number of cached sequences.
const DefaultCacheSize = 8

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		MinDelay:     playback.DefaultMinDelay,
		DefaultDelay: playback.DefaultDelay,
		Flatten:      true,
		CacheSize:    DefaultCacheSize,
		Surface:      ggsurface.DefaultOptions(),
	}
}

// Workspace creates instances from raw container bytes.
type Workspace struct {
	decodeStage  pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult]
	extractStage pipeline.Stage[pipeline.ExtractInput, pipeline.ExtractResult]
	encodeStage  *encode.Stage
	renderer     ports.Renderer
	sink         ports.DebugSink
	root         ports.Logger
	logger       ports.Logger
	config       Config
	cache        *lru.Cache[[sha256.Size]byte, *pipeline.Sequence]

	mu   sync.Mutex
	next int
}

// New creates a new Workspace.
func New(
	decoder ports.ContainerDecoder,
	encoder ports.ContainerEncoder,
	renderer ports.Renderer,
	sink ports.DebugSink,
	logger ports.Logger,
	config Config,
) *Workspace {
	w := &Workspace{
		decodeStage:  decode.NewStage(decoder, sink, logger),
		extractStage: extract.NewStage(logger),
		encodeStage:  encode.NewStage(encoder, sink, logger),
		renderer:     renderer,
		sink:         sink,
		root:         logger,
		logger:       logger.WithComponent("workspace"),
		config:       config,
	}
	if config.CacheSize > 0 {
		// Only fails for a non-positive size.
		w.cache, _ = lru.New[[sha256.Size]byte, *pipeline.Sequence](config.CacheSize)
	}
	return w
}

// Load decodes data and returns a paused instance showing its first frame.
// A failed decode creates no instance.
func (w *Workspace) Load(ctx context.Context, name string, data []byte) (*Instance, error) {
	seq, err := w.decode(ctx, name, data)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("Failed to load %s: %v", name, err)
		}
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	inst, err := w.newInstance(name, data, seq)
	if err != nil {
		w.logger.Error("Failed to load %s: %v", name, err)
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	w.logger.Info("Loaded %s as instance %d", name, inst.id)
	return inst, nil
}

// decode returns the sequence for data. Decoding is deterministic and
// sequences are never mutated, so instances of identical bytes share one.
func (w *Workspace) decode(ctx context.Context, name string, data []byte) (*pipeline.Sequence, error) {
	var key [sha256.Size]byte
	if w.cache != nil {
		key = sha256.Sum256(data)
		if seq, ok := w.cache.Get(key); ok {
			w.logger.Debug("Reusing decoded %s", name)
			return seq, nil
		}
	}

	res, err := w.decodeStage.Execute(ctx, pipeline.DecodeInput{Name: name, Data: data})
	if err != nil {
		return nil, err
	}
	if w.cache != nil {
		w.cache.Add(key, res.Sequence)
	}
	return res.Sequence, nil
}

func (w *Workspace) newInstance(name string, data []byte, seq *pipeline.Sequence) (*Instance, error) {
	w.mu.Lock()
	id := w.next
	w.next++
	w.mu.Unlock()

	opts := w.config.Surface
	opts.Background = ggsurface.Background(id)
	surface := ggsurface.New(seq, w.renderer, opts).WithSink(w.sink, name)

	ctrlOpts := []playback.Option{
		playback.WithLogger(w.root),
		playback.WithMinDelay(w.config.MinDelay),
		playback.WithDefaultDelay(w.config.DefaultDelay),
	}
	if w.config.Clock != nil {
		ctrlOpts = append(ctrlOpts, playback.WithClock(w.config.Clock))
	}
	ctrl, err := playback.New(seq, surface, ctrlOpts...)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Instance{
		ws:      w,
		id:      id,
		name:    name,
		data:    data,
		seq:     seq,
		surface: surface,
		ctrl:    ctrl,
		ctx:     ctx,
		cancel:  cancel,
		cut:     pipeline.ClipRange{Start: 0, End: seq.Len() - 1},
	}, nil
}

// cut runs extract, encode and decode for r and loads the clip as a new
// instance.
func (w *Workspace) cut(ctx context.Context, src *Instance, r pipeline.ClipRange, name string) (*Instance, error) {
	w.logger.Info("Cutting %s: frames %d to %d", src.name, r.Start, r.End)

	ext, err := w.extractStage.Execute(ctx, pipeline.ExtractInput{
		Sequence: src.seq,
		Range:    r,
		Flatten:  w.config.Flatten,
	})
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	job := w.encodeStage.Submit(ctx, pipeline.EncodeJob{
		Name:      name,
		Frames:    ext.Frames,
		Width:     src.seq.Width,
		Height:    src.seq.Height,
		LoopCount: src.seq.LoopCount,
	})
	encoded, err := job.Result()
	if err != nil {
		return nil, err
	}

	return w.Load(ctx, name, encoded.Data)
}

// ClipName names the clip cut from name over r, for example
// "cat.gif" cut from 3 to 1 becomes "cat-cut-3-1.gif".
func ClipName(name string, r pipeline.ClipRange) string {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s-cut-%d-%d.gif", stem, r.Start, r.End)
}
