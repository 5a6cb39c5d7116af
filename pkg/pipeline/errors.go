package pipeline

import "errors"

// Decode errors. A decode that fails with any of these produces no Sequence.
var (
	// ErrMalformedContainer reports inconsistent or invalid container structure.
	ErrMalformedContainer = errors.New("malformed container")
	// ErrUnsupportedFeature reports a valid-looking feature outside the supported subset.
	ErrUnsupportedFeature = errors.New("unsupported feature")
	// ErrTruncated reports input that ends before the declared data does.
	ErrTruncated = errors.New("truncated container")
)

// ErrIndexOutOfRange is returned by seek and extract for a frame index
// outside [0, len(frames)). Indices are never clamped.
var ErrIndexOutOfRange = errors.New("frame index out of range")

// ErrEncodeFailed is the terminal error of an encode job that could not
// produce a container.
var ErrEncodeFailed = errors.New("encode failed")
