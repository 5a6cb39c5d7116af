// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/AT-290690/gif-player/pkg/ports"
)

// Sink saves debug output to files below a base directory:
//
//	<base>/<name>/sequence.json
//	<base>/<name>/frames/frame-0000.png
//	<base>/clips/<name>.gif
//
// where <name> is the sequence name without its extension.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveSequenceJSON saves a decoded sequence summary.
func (s *Sink) SaveSequenceJSON(name string, data []byte) error {
	path := filepath.Join(s.baseDir, stem(name), "sequence.json")
	return s.fs.WriteFile(path, data)
}

// SaveFrame saves a painted frame as PNG.
func (s *Sink) SaveFrame(name string, index int, img image.Image) error {
	dir := filepath.Join(s.baseDir, stem(name), "frames")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodePNG(img)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	path := filepath.Join(dir, FrameFileName(index))
	return s.fs.WriteFile(path, data)
}

// SaveClip saves an encoded clip.
func (s *Sink) SaveClip(name string, data []byte) error {
	path := filepath.Join(s.baseDir, "clips", stem(name)+".gif")
	return s.fs.WriteFile(path, data)
}

// FrameFileName returns the file name used for frame index.
func FrameFileName(index int) string {
	return fmt.Sprintf("frame-%04d.png", index)
}

// stem strips the directory and extension from name and replaces characters
// that are awkward in paths.
func stem(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, base)
	if base == "" || base == "." {
		return "unnamed"
	}
	return base
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
