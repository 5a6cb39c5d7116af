// Package dropfolder turns files dropped into a directory into batches of
// GIF files ready to load.
package dropfolder

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AT-290690/gif-player/pkg/ports"
)

// DefaultDebounce is how long the directory must be quiet before pending
// files are reported. Copies of large files arrive as several writes.
const DefaultDebounce = 250 * time.Millisecond

// Batch is the set of files that appeared within one debounce window.
type Batch struct {
	Files    []string // files with a .gif extension, sorted
	Rejected []string // every other file, sorted
}

// Accepted reports whether the batch may be loaded. A batch holding any
// file that is not a GIF is refused as a whole, like a drop of mixed files.
func (b Batch) Accepted() bool {
	return len(b.Rejected) == 0 && len(b.Files) > 0
}

// IsGIFName reports whether name carries a .gif extension.
func IsGIFName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".gif")
}

// Classify splits paths into GIF files and rejected files.
func Classify(paths []string) Batch {
	var b Batch
	for _, p := range paths {
		if IsGIFName(p) {
			b.Files = append(b.Files, p)
		} else {
			b.Rejected = append(b.Rejected, p)
		}
	}
	sort.Strings(b.Files)
	sort.Strings(b.Rejected)
	return b
}

// Scan classifies the regular files already present in dir.
func Scan(fsys ports.FileSystem, dir string) (Batch, error) {
	names, err := fsys.ReadDir(dir)
	if err != nil {
		return Batch{}, err
	}
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return Classify(paths), nil
}

// Watcher reports files created or written in a directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	batches  chan<- Batch
	logger   ports.Logger

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewWatcher starts watching dir, creating it if needed, and sends a batch
// on batches each time the directory has been quiet for debounce after a
// change. A non-positive debounce selects DefaultDebounce. The watcher stops
// when ctx is cancelled or Close is called.
func NewWatcher(ctx context.Context, dir string, batches chan<- Batch, debounce time.Duration, logger ports.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	if _, err := os.Stat(dir); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		dir:      dir,
		debounce: debounce,
		watcher:  fw,
		batches:  batches,
		logger:   logger.WithComponent("dropfolder"),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	w.logger.Info("Watching %s", dir)
	go w.run(ctx)
	return w, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Close stops the watcher and waits for it to exit. Pending files are
// dropped.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stop)
		err = w.watcher.Close()
	})
	<-w.done
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(ev.Name)
			if strings.HasPrefix(name, ".") {
				// Hidden and partially written files.
				continue
			}
			switch {
			case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
				pending[ev.Name] = true
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				delete(pending, ev.Name)
			default:
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watch error: %v", err)

		case <-timer.C:
			batch := w.flush(pending)
			if len(batch.Files) == 0 && len(batch.Rejected) == 0 {
				continue
			}
			select {
			case w.batches <- batch:
			case <-ctx.Done():
				return
			case <-w.stop:
				return
			}
		}
	}
}

// flush classifies and clears the pending set. Files that vanished or turned
// out to be directories are dropped.
func (w *Watcher) flush(pending map[string]bool) Batch {
	var paths []string
	for p := range pending {
		delete(pending, p)
		fi, err := os.Stat(p)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		paths = append(paths, p)
	}
	batch := Classify(paths)
	for _, p := range batch.Files {
		w.logger.Debug("Detected %s", p)
	}
	for _, p := range batch.Rejected {
		w.logger.Warn("Ignoring %s: not a GIF file", p)
	}
	return batch
}
