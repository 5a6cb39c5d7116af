// Package gifdecoder provides a GIF container decoder.
//
// The decoder reports every frame as its own local raster together with the
// declared delay, disposal method, position and palette. It never composites
// frames; that is left to the presentation surface.
package gifdecoder

import (
	"bytes"
	"compress/lzw"
	"fmt"
	"image"
	"image/color"
	"io"
	"time"

	"github.com/AT-290690/gif-player/pkg/pipeline"
	"github.com/AT-290690/gif-player/pkg/ports"
)

// Masks etc.
const (
	// Fields.
	fColorTable         = 1 << 7
	fColorTableBitsMask = 7

	// Image fields.
	ifColorTable = 1 << 7
	ifInterlace  = 1 << 6

	// Graphic control flags.
	gcTransparentColorSet = 1 << 0
	gcDisposalMethodMask  = 7 << 2
)

// Section indicators.
const (
	sExtension       = 0x21
	sImageDescriptor = 0x2C
	sTrailer         = 0x3B
)

// Extensions.
const (
	eText           = 0x01 // Plain Text
	eGraphicControl = 0xF9 // Graphic Control
	eComment        = 0xFE // Comment
	eApplication    = 0xFF // Application
)

// Decoder decodes GIF containers. The zero value is ready to use and a
// Decoder is safe for concurrent use.
type Decoder struct{}

// New creates a new Decoder.
func New() *Decoder {
	return &Decoder{}
}

// Decode parses data into a frame sequence. The returned error wraps one of
// pipeline.ErrMalformedContainer, pipeline.ErrUnsupportedFeature or
// pipeline.ErrTruncated.
func (*Decoder) Decode(data []byte) (*pipeline.Sequence, error) {
	d := decoder{r: bytes.NewReader(data)}
	return d.decode()
}

// DecodeHeader reads only the header, logical screen descriptor and global
// colour table.
func (*Decoder) DecodeHeader(data []byte) (pipeline.Header, error) {
	d := decoder{r: bytes.NewReader(data)}
	return d.readHeader()
}

// IsGIF returns whether data starts with a GIF signature.
func IsGIF(data []byte) bool {
	const magic = "GIF8?a"
	if len(data) < len(magic) {
		return false
	}
	for i, c := range data[:len(magic)] {
		if magic[i] != c && magic[i] != '?' {
			return false
		}
	}
	return true
}

// graphicControl holds a graphic control extension until the image it
// applies to is read.
type graphicControl struct {
	delay       time.Duration
	disposal    pipeline.Disposal
	transparent int
}

// decoder is the per-call decoding state.
type decoder struct {
	r   *bytes.Reader
	seq *pipeline.Sequence
	gc  *graphicControl

	loopSeen bool

	// scratch space
	tmp [768]byte // must be at least 768 so we can read a colour table
}

func (d *decoder) decode() (*pipeline.Sequence, error) {
	header, err := d.readHeader()
	if err != nil {
		return nil, err
	}
	d.seq = &pipeline.Sequence{Header: header, LoopCount: -1}

	for {
		c, err := d.r.ReadByte()
		if err != nil {
			return nil, truncated("reading block introducer", err)
		}
		switch c {
		case sExtension:
			err = d.readExtension()
		case sImageDescriptor:
			err = d.readImage()
		case sTrailer:
			if len(d.seq.Frames) == 0 {
				return nil, malformed("trailer before any image")
			}
			return d.seq, nil
		default:
			err = malformed("unknown block type: 0x%.2x", c)
		}
		if err != nil {
			return nil, err
		}
	}
}

func (d *decoder) readHeader() (pipeline.Header, error) {
	var h pipeline.Header
	n, err := io.ReadFull(d.r, d.tmp[:13])
	if sig := d.tmp[:min(n, 3)]; !bytes.HasPrefix([]byte("GIF"), sig) {
		return h, malformed("can't recognize format %q", sig)
	}
	if err != nil {
		return h, truncated("reading header", err)
	}
	h.Version = string(d.tmp[:6])
	if h.Version != "GIF87a" && h.Version != "GIF89a" {
		return h, unsupported("version %q", h.Version)
	}
	h.Width = int(d.tmp[6]) | int(d.tmp[7])<<8
	h.Height = int(d.tmp[8]) | int(d.tmp[9])<<8
	if h.Width == 0 || h.Height == 0 {
		return h, malformed("empty logical screen %dx%d", h.Width, h.Height)
	}
	flags := d.tmp[10]
	h.BackgroundIndex = int(d.tmp[11])
	if flags&fColorTable != 0 {
		h.GlobalPalette, err = d.readColorTable(flags & fColorTableBitsMask)
		if err != nil {
			return h, err
		}
	}
	return h, nil
}

func (d *decoder) readColorTable(bits byte) (color.Palette, error) {
	n := 1 << (1 + uint(bits))
	if _, err := io.ReadFull(d.r, d.tmp[:3*n]); err != nil {
		return nil, truncated("reading colour table", err)
	}
	p := make(color.Palette, n)
	for i, j := 0, 0; i < n; i, j = i+1, j+3 {
		p[i] = color.RGBA{R: d.tmp[j], G: d.tmp[j+1], B: d.tmp[j+2], A: 0xff}
	}
	return p, nil
}

func (d *decoder) readExtension() error {
	label, err := d.r.ReadByte()
	if err != nil {
		return truncated("reading extension label", err)
	}
	switch label {
	case eGraphicControl:
		return d.readGraphicControl()
	case eApplication:
		return d.readApplication()
	case eText:
		// A plain text extension consumes any preceding graphic control.
		d.gc = nil
		return d.skipSubBlocks()
	case eComment:
		return d.skipSubBlocks()
	default:
		return unsupported("extension 0x%.2x", label)
	}
}

func (d *decoder) readGraphicControl() error {
	if _, err := io.ReadFull(d.r, d.tmp[:6]); err != nil {
		return truncated("reading graphic control", err)
	}
	if d.tmp[0] != 4 {
		return malformed("invalid graphic control extension block size: %d", d.tmp[0])
	}
	flags := d.tmp[1]
	disposal := (flags & gcDisposalMethodMask) >> 2
	if disposal > byte(pipeline.DisposalPrevious) {
		return unsupported("disposal method %d", disposal)
	}
	gc := &graphicControl{
		delay:       time.Duration(int(d.tmp[2])|int(d.tmp[3])<<8) * pipeline.DelayUnit,
		disposal:    pipeline.Disposal(disposal),
		transparent: -1,
	}
	if flags&gcTransparentColorSet != 0 {
		gc.transparent = int(d.tmp[4])
	}
	if d.tmp[5] != 0 {
		return malformed("graphic control extension not terminated")
	}
	d.gc = gc
	return nil
}

func (d *decoder) readApplication() error {
	size, err := d.r.ReadByte()
	if err != nil {
		return truncated("reading application extension", err)
	}
	if _, err := io.ReadFull(d.r, d.tmp[:size]); err != nil {
		return truncated("reading application extension", err)
	}
	// GIF89a requires a size of 11, but Adobe sometimes uses 10.
	id := string(d.tmp[:size])
	if id != "NETSCAPE2.0" && id != "ANIMEXTS1.0" {
		return d.skipSubBlocks()
	}
	n, err := d.readSubBlock()
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if n == 3 && d.tmp[0] == 1 && !d.loopSeen {
		d.loopSeen = true
		d.seq.LoopCount = int(d.tmp[1]) | int(d.tmp[2])<<8
	}
	return d.skipSubBlocks()
}

func (d *decoder) readImage() error {
	if _, err := io.ReadFull(d.r, d.tmp[:9]); err != nil {
		return truncated("reading image descriptor", err)
	}
	left := int(d.tmp[0]) | int(d.tmp[1])<<8
	top := int(d.tmp[2]) | int(d.tmp[3])<<8
	width := int(d.tmp[4]) | int(d.tmp[5])<<8
	height := int(d.tmp[6]) | int(d.tmp[7])<<8
	flags := d.tmp[8]

	frame := pipeline.Frame{
		Index:       len(d.seq.Frames),
		Disposal:    pipeline.DisposalUnspecified,
		Transparent: -1,
	}
	if d.gc != nil {
		frame.Delay = d.gc.delay
		frame.Disposal = d.gc.disposal
		frame.Transparent = d.gc.transparent
		d.gc = nil
	}

	// The GIF89a spec, Section 20 (Image Descriptor) says:
	// "Each image must fit within the boundaries of the Logical
	// Screen, as defined in the Logical Screen Descriptor."
	rect := image.Rect(left, top, left+width, top+height)
	if rect.Empty() {
		return malformed("frame %d is empty", frame.Index)
	}
	if !rect.In(d.seq.Bounds()) {
		return malformed("frame %d bounds %v outside canvas %v", frame.Index, rect, d.seq.Bounds())
	}

	pal := d.seq.GlobalPalette
	if flags&ifColorTable != 0 {
		var err error
		pal, err = d.readColorTable(flags & fColorTableBitsMask)
		if err != nil {
			return err
		}
		frame.LocalPalette = true
	}
	if pal == nil {
		return malformed("frame %d has no colour table", frame.Index)
	}
	if frame.Transparent >= 0 {
		pal = withTransparent(pal, frame.Transparent)
	}

	img := image.NewPaletted(rect, pal)
	if err := d.readImageData(img, frame.Index); err != nil {
		return err
	}
	if flags&ifInterlace != 0 {
		uninterlace(img)
	}
	frame.Image = img
	d.seq.Frames = append(d.seq.Frames, frame)
	return nil
}

func (d *decoder) readImageData(img *image.Paletted, index int) error {
	litWidth, err := d.r.ReadByte()
	if err != nil {
		return truncated("reading LZW minimum code size", err)
	}
	if litWidth < 2 || litWidth > 8 {
		return malformed("frame %d: pixel size in decode out of range: %d", index, litWidth)
	}
	br := &blockReader{r: d.r}
	lzwr := lzw.NewReader(br, lzw.LSB, int(litWidth))
	defer lzwr.Close()
	if _, err := io.ReadFull(lzwr, img.Pix); err != nil {
		if br.truncated {
			return truncated(fmt.Sprintf("reading frame %d data", index), io.ErrUnexpectedEOF)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return malformed("frame %d: not enough image data", index)
		}
		return malformed("frame %d: %v", index, err)
	}
	if n, _ := lzwr.Read(d.tmp[:1]); n != 0 {
		return malformed("frame %d: too much image data", index)
	}
	// Some encoders leave bytes in the sub-block stream after the LZW end
	// code. They are skipped, but the stream must still be terminated.
	if err := br.drain(); err != nil {
		return truncated(fmt.Sprintf("reading frame %d data", index), err)
	}

	if len(img.Palette) < 256 {
		limit := uint8(len(img.Palette))
		for _, p := range img.Pix {
			if p >= limit {
				return malformed("frame %d: pixel index %d outside palette of %d colours", index, p, limit)
			}
		}
	}
	return nil
}

// readSubBlock reads a single data sub-block into d.tmp, returning its length.
func (d *decoder) readSubBlock() (int, error) {
	n, err := d.r.ReadByte()
	if err != nil {
		return 0, truncated("reading sub-block", err)
	}
	if n == 0 {
		return 0, nil
	}
	if _, err := io.ReadFull(d.r, d.tmp[:n]); err != nil {
		return 0, truncated("reading sub-block", err)
	}
	return int(n), nil
}

func (d *decoder) skipSubBlocks() error {
	for {
		n, err := d.readSubBlock()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
}

// withTransparent returns a copy of p with entry i made fully transparent,
// extending the palette if i is beyond its end. p itself may be the global
// palette shared with other frames, so it is never modified.
func withTransparent(p color.Palette, i int) color.Palette {
	n := len(p)
	if i >= n {
		n = i + 1
	}
	q := make(color.Palette, n)
	copy(q, p)
	for j := len(p); j < n; j++ {
		q[j] = color.RGBA{A: 0xff}
	}
	q[i] = color.RGBA{}
	return q
}

// interlaceScan defines the ordering for a pass of the interlace algorithm.
type interlaceScan struct {
	skip, start int
}

// interlacing represents the set of scans in an interlaced GIF image.
var interlacing = []interlaceScan{
	{8, 0}, // Group 1 : Every 8th. row, starting with row 0.
	{8, 4}, // Group 2 : Every 8th. row, starting with row 4.
	{4, 2}, // Group 3 : Every 4th. row, starting with row 2.
	{2, 1}, // Group 4 : Every 2nd. row, starting with row 1.
}

// uninterlace rearranges the pixels in m to account for interlaced input.
func uninterlace(m *image.Paletted) {
	dx := m.Bounds().Dx()
	dy := m.Bounds().Dy()
	nPix := make([]uint8, dx*dy)
	offset := 0 // steps through the input by sequential scan lines.
	for _, pass := range interlacing {
		nOffset := pass.start * dx // steps through the output as defined by pass.
		for y := pass.start; y < dy; y += pass.skip {
			copy(nPix[nOffset:nOffset+dx], m.Pix[offset:offset+dx])
			offset += dx
			nOffset += dx * pass.skip
		}
	}
	m.Pix = nPix
}

// Ensure Decoder implements ports.ContainerDecoder
var _ ports.ContainerDecoder = (*Decoder)(nil)
