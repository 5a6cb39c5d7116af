package gifencoder

import (
	"bytes"
	"compress/lzw"
	"image"
	"image/color"
	"image/color/palette"
	"math/bits"

	"golang.org/x/image/draw"

	"github.com/AT-290690/gif-player/pkg/pipeline"
)

// compressedFrame is a frame ready to be written: its colour table, the
// transparent index and the sub-blocked LZW stream.
type compressedFrame struct {
	table       []byte // padded RGB triplets, 3<<bits bytes
	bits        int    // log2 of the table size
	litWidth    int
	transparent int // -1 if none
	data        []byte
}

// compress converts a frame to a paletted raster and compresses its pixels.
func compress(f pipeline.Frame) (compressedFrame, error) {
	pm := toPaletted(f.Image)
	n := len(pm.Palette)
	if n == 0 || n > 256 {
		return compressedFrame{}, encodeFailed("palette of %d colours", n)
	}

	cf := compressedFrame{transparent: -1}
	cf.bits = max(1, bits.Len(uint(n-1)))
	cf.litWidth = max(2, cf.bits)

	cf.table = make([]byte, 3<<cf.bits)
	for i, c := range pm.Palette {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		cf.table[3*i+0] = nc.R
		cf.table[3*i+1] = nc.G
		cf.table[3*i+2] = nc.B
		if nc.A == 0 && cf.transparent < 0 {
			cf.transparent = i
		}
	}

	b := pm.Bounds()
	dx := b.Dx()
	var buf bytes.Buffer
	bw := &blockWriter{w: &buf}
	lw := lzw.NewWriter(bw, lzw.LSB, cf.litWidth)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := pm.PixOffset(b.Min.X, y)
		row := pm.Pix[off : off+dx]
		if n < 256 {
			for _, p := range row {
				if int(p) >= n {
					return compressedFrame{}, encodeFailed("pixel index %d outside palette of %d colours", p, n)
				}
			}
		}
		if _, err := lw.Write(row); err != nil {
			return compressedFrame{}, encodeFailed("lzw: %v", err)
		}
	}
	if err := lw.Close(); err != nil {
		return compressedFrame{}, encodeFailed("lzw: %v", err)
	}
	bw.close()
	cf.data = buf.Bytes()
	return cf, nil
}

// toPaletted returns img as a paletted raster with the same bounds.
// Paletted input is used as is. Images with at most 256 distinct colours
// are mapped exactly; anything else is dithered onto the Plan 9 palette.
func toPaletted(img image.Image) *image.Paletted {
	if p, ok := img.(*image.Paletted); ok {
		return p
	}
	b := img.Bounds()
	pal, exact, transparent := scanColors(img)
	if exact {
		pm := image.NewPaletted(b, pal)
		draw.Draw(pm, b, img, b.Min, draw.Src)
		return pm
	}
	pal = palette.Plan9
	if transparent {
		pal = append(pal[:255:255], color.RGBA{})
	}
	pm := image.NewPaletted(b, pal)
	draw.FloydSteinberg.Draw(pm, b, img, b.Min)
	return pm
}

// scanColors collects the distinct colours of img in scan order. exact is
// false when there are more than 256; transparent reports whether any pixel
// is fully transparent.
func scanColors(img image.Image) (pal color.Palette, exact, transparent bool) {
	b := img.Bounds()
	seen := make(map[color.RGBA]struct{}, 256)
	exact = true
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if c.A == 0 {
				transparent = true
			}
			if !exact {
				continue
			}
			if _, ok := seen[c]; ok {
				continue
			}
			if len(seen) == 256 {
				exact = false
				continue
			}
			seen[c] = struct{}{}
			pal = append(pal, c)
		}
	}
	return pal, exact, transparent
}

// blockWriter splits a byte stream into data sub-blocks of at most 255
// bytes. close writes the zero-length terminator.
type blockWriter struct {
	w   *bytes.Buffer
	buf [255]byte
	n   int
}

func (b *blockWriter) Write(p []byte) (int, error) {
	written := len(p)
	for len(p) > 0 {
		c := copy(b.buf[b.n:], p)
		b.n += c
		p = p[c:]
		if b.n == len(b.buf) {
			b.flush()
		}
	}
	return written, nil
}

func (b *blockWriter) flush() {
	if b.n == 0 {
		return
	}
	b.w.WriteByte(byte(b.n))
	b.w.Write(b.buf[:b.n])
	b.n = 0
}

func (b *blockWriter) close() {
	b.flush()
	b.w.WriteByte(0)
}
