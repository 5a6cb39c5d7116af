package summarizer

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/AT-290690/gif-player/pkg/ports"
)

// Writer writes formatted summaries to streams or files.
type Writer struct {
	formatter Formatter
	fs        ports.FileSystem
}

// NewWriter creates a new Writer with the given Formatter. fs is only
// needed by Write.
func NewWriter(formatter Formatter, fs ports.FileSystem) *Writer {
	return &Writer{
		formatter: formatter,
		fs:        fs,
	}
}

// Print formats the summary to out.
func (w *Writer) Print(out io.Writer, summary *Summary) error {
	_, err := io.WriteString(out, w.formatter.Format(summary))
	return err
}

// Write formats the summary and writes it to path, creating parent
// directories as needed.
func (w *Writer) Write(path string, summary *Summary) error {
	content := w.formatter.Format(summary)

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := w.fs.MkdirAll(dir); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := w.fs.WriteFile(path, []byte(content)); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
