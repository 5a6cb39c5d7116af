package gifencoder

import (
	"fmt"

	"github.com/AT-290690/gif-player/pkg/pipeline"
)

func encodeFailed(format string, args ...any) error {
	return fmt.Errorf("gif: %s: %w", fmt.Sprintf(format, args...), pipeline.ErrEncodeFailed)
}
