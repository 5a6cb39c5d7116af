package ports

import (
	"context"

	"github.com/AT-290690/gif-player/pkg/pipeline"
)

// ContainerEncoder abstracts encoding of an animated container.
type ContainerEncoder interface {
	// Encode serialises the job's frames, in order, into a new container.
	// Failures wrap pipeline.ErrEncodeFailed unless caused by ctx.
	Encode(ctx context.Context, job pipeline.EncodeJob) ([]byte, error)
}
