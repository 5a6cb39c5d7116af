package gifdecoder

import (
	"bytes"
	"io"
)

// blockReader parses the block structure of GIF image data, which comprises
// (n, (n bytes)) blocks, with 1 <= n <= 255. It is the reader given to the
// LZW decoder, which is thus immune to the blocking. The zero-length block
// terminating the stream is reported as io.EOF; running out of input before
// it is reported as io.ErrUnexpectedEOF with truncated set, so callers can
// tell short image data from a short file.
type blockReader struct {
	r         *bytes.Reader
	slice     []byte
	err       error
	truncated bool
	tmp       [255]byte
}

func (b *blockReader) fill() {
	n, err := b.r.ReadByte()
	if err != nil {
		b.truncated = true
		b.err = io.ErrUnexpectedEOF
		return
	}
	if n == 0 {
		b.err = io.EOF
		return
	}
	if _, err := io.ReadFull(b.r, b.tmp[:n]); err != nil {
		b.truncated = true
		b.err = io.ErrUnexpectedEOF
		return
	}
	b.slice = b.tmp[:n]
}

func (b *blockReader) ReadByte() (byte, error) {
	for len(b.slice) == 0 {
		if b.err != nil {
			return 0, b.err
		}
		b.fill()
	}
	c := b.slice[0]
	b.slice = b.slice[1:]
	return c, nil
}

func (b *blockReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(b.slice) == 0 {
		if b.err != nil {
			return 0, b.err
		}
		b.fill()
	}
	n := copy(p, b.slice)
	b.slice = b.slice[n:]
	return n, nil
}

// drain discards the rest of the sub-block stream up to and including its
// terminator.
func (b *blockReader) drain() error {
	for {
		b.slice = nil
		if b.err != nil {
			break
		}
		b.fill()
	}
	if b.truncated {
		return io.ErrUnexpectedEOF
	}
	return nil
}
