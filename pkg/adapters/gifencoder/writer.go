package gifencoder

import (
	"bytes"
	"time"

	"github.com/AT-290690/gif-player/pkg/pipeline"
)

// Block and flag constants of the GIF89a container.
const (
	fColorTable = 1 << 7

	ifColorTable = 1 << 7

	gcTransparentColorSet = 1 << 0
	gcBlockSize           = 0x04

	sExtension       = 0x21
	sImageDescriptor = 0x2C
	sTrailer         = 0x3B

	eGraphicControl = 0xF9
	eApplication    = 0xFF
)

// writer appends container blocks to an in-memory buffer.
type writer struct {
	buf    *bytes.Buffer
	global []byte
}

func (w *writer) writeLE16(v int) {
	w.buf.WriteByte(byte(v))
	w.buf.WriteByte(byte(v >> 8))
}

// writeHeader writes the signature, logical screen descriptor and global
// colour table.
func (w *writer) writeHeader(width, height int, table []byte) {
	w.global = table
	bits := tableBits(table)
	w.buf.WriteString("GIF89a")
	w.writeLE16(width)
	w.writeLE16(height)
	w.buf.WriteByte(fColorTable | byte(bits-1)<<4 | byte(bits-1))
	w.buf.WriteByte(0) // background colour index
	w.buf.WriteByte(0) // pixel aspect ratio
	w.buf.Write(table)
}

// writeLoopCount writes a NETSCAPE2.0 application extension.
func (w *writer) writeLoopCount(n int) {
	w.buf.Write([]byte{sExtension, eApplication, 0x0B})
	w.buf.WriteString("NETSCAPE2.0")
	w.buf.Write([]byte{0x03, 0x01})
	w.writeLE16(n)
	w.buf.WriteByte(0x00)
}

// writeFrame writes the graphic control extension, image descriptor,
// optional local colour table and image data of one frame.
func (w *writer) writeFrame(f pipeline.Frame, cf compressedFrame) {
	flags := byte(f.Disposal) << 2
	transparent := 0
	if cf.transparent >= 0 {
		flags |= gcTransparentColorSet
		transparent = cf.transparent
	}
	w.buf.Write([]byte{sExtension, eGraphicControl, gcBlockSize, flags})
	w.writeLE16(delayToUnits(f.Delay))
	w.buf.WriteByte(byte(transparent))
	w.buf.WriteByte(0x00)

	b := f.Bounds()
	w.buf.WriteByte(sImageDescriptor)
	w.writeLE16(b.Min.X)
	w.writeLE16(b.Min.Y)
	w.writeLE16(b.Dx())
	w.writeLE16(b.Dy())
	if bytes.Equal(cf.table, w.global) {
		w.buf.WriteByte(0)
	} else {
		w.buf.WriteByte(ifColorTable | byte(cf.bits-1))
		w.buf.Write(cf.table)
	}

	w.buf.WriteByte(byte(cf.litWidth))
	w.buf.Write(cf.data)
}

func (w *writer) writeTrailer() {
	w.buf.WriteByte(sTrailer)
}

// tableBits returns log2 of the number of entries in a padded colour table.
func tableBits(table []byte) int {
	bits := 1
	for 3<<bits < len(table) {
		bits++
	}
	return bits
}

// delayToUnits rounds d to the nearest container delay unit.
func delayToUnits(d time.Duration) int {
	return int(min((d+pipeline.DelayUnit/2)/pipeline.DelayUnit, 0xffff))
}
