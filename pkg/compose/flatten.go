package compose

import (
	"fmt"

	"github.com/AT-290690/gif-player/pkg/pipeline"
)

// Flatten composites each of frames onto the full canvas of seq. The frames
// must come from seq; their Index selects the source position and may appear
// in any order. Each result covers the whole canvas, keeps the source delay
// and uses DisposalBackground: a viewer clears the canvas before the next
// frame, so pixels that turn transparent do not keep an earlier colour and
// the output renders the same whatever the order.
//
// The source is composited once in ascending order up to the highest index
// requested, which keeps reversed clips linear in the sequence length.
func Flatten(seq *pipeline.Sequence, frames []pipeline.Frame) ([]pipeline.Frame, error) {
	if len(frames) == 0 {
		return nil, nil
	}

	highest := -1
	wanted := make(map[int]bool, len(frames))
	for _, f := range frames {
		if _, err := seq.Frame(f.Index); err != nil {
			return nil, fmt.Errorf("flatten: %w", err)
		}
		wanted[f.Index] = true
		highest = max(highest, f.Index)
	}

	c := New(seq)
	rendered := make(map[int]pipeline.Frame, len(wanted))
	for i := 0; i <= highest; i++ {
		if !wanted[i] {
			if _, err := c.Render(i); err != nil {
				return nil, err
			}
			continue
		}
		img, err := c.Snapshot(i)
		if err != nil {
			return nil, err
		}
		src := seq.Frames[i]
		rendered[i] = pipeline.Frame{
			Index:       src.Index,
			Image:       img,
			Delay:       src.Delay,
			Disposal:    pipeline.DisposalBackground,
			Transparent: -1,
		}
	}

	out := make([]pipeline.Frame, len(frames))
	for i, f := range frames {
		out[i] = rendered[f.Index]
	}
	return out, nil
}
