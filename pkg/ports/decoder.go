package ports

import (
	"github.com/AT-290690/gif-player/pkg/pipeline"
)

// ContainerDecoder abstracts decoding of an animated container.
type ContainerDecoder interface {
	// Decode parses data into a frame sequence. It must not retain or
	// modify data and must be safe for concurrent use.
	Decode(data []byte) (*pipeline.Sequence, error)

	// DecodeHeader reads only the global header.
	DecodeHeader(data []byte) (pipeline.Header, error)
}
