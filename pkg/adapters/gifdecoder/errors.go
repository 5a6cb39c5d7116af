package gifdecoder

import (
	"fmt"
	"io"

	"github.com/AT-290690/gif-player/pkg/pipeline"
)

func malformed(format string, args ...any) error {
	return fmt.Errorf("gif: %s: %w", fmt.Sprintf(format, args...), pipeline.ErrMalformedContainer)
}

func unsupported(format string, args ...any) error {
	return fmt.Errorf("gif: %s: %w", fmt.Sprintf(format, args...), pipeline.ErrUnsupportedFeature)
}

// truncated wraps a read error. Reads are from an in-memory buffer, so the
// only errors are io.EOF and io.ErrUnexpectedEOF.
func truncated(what string, err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("gif: %s: %w", what, pipeline.ErrTruncated)
	}
	return fmt.Errorf("gif: %s: %w", what, err)
}
