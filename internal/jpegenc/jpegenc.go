// Package jpegenc writes baseline JFIF streams from pre-assembled
// compression blocks. It accepts one MCU at a time, already laid out
// in the pipeline's interleaved YCbCr formats, so it never needs a
// whole-image buffer.
package jpegenc

import (
	"errors"
	"io"

	"github.com/rkarls/go-rawjpeg/internal/demosaic"
)

// block is an 8x8 coefficient block in natural order.
type block [blockSize]int32

const blockSize = 64

var (
	ErrBadDimensions = errors.New("jpegenc: image dimensions out of range")
	ErrNotStarted    = errors.New("jpegenc: AddBlock before Begin")
)

// Encoder streams one JPEG image to w. Begin writes the headers,
// AddBlock consumes MCUs in scan order, End flushes the entropy coder
// and writes the trailer. Write errors stick: after the first failure
// every call reports it and writes nothing more.
type Encoder struct {
	w   io.Writer
	err error

	sub     demosaic.Subsampling
	started bool

	buf    [64]byte
	bits   uint32
	nBits  uint32
	quant  [nQuantIndex][blockSize]byte
	prevDC [3]int32
}

// New returns an encoder writing to w. The encoder is reusable: a
// Begin after End starts a fresh image.
func New(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Err returns the first write error, if any.
func (e *Encoder) Err() error { return e.err }

// Begin validates the geometry, scales the quantization tables for
// quality (clamped to 1..100) and writes all headers up to and
// including SOS.
func (e *Encoder) Begin(width, height int, sub demosaic.Subsampling, quality int) error {
	if e.err != nil {
		return e.err
	}
	if width < 1 || width > 65535 || height < 1 || height > 65535 {
		return ErrBadDimensions
	}
	e.sub = sub
	e.started = true
	e.bits, e.nBits = 0, 0
	e.prevDC = [3]int32{}

	if quality < 1 {
		quality = 1
	} else if quality > 100 {
		quality = 100
	}
	var scale int
	if quality < 50 {
		scale = 5000 / quality
	} else {
		scale = 200 - quality*2
	}
	for i := range e.quant {
		for j := range e.quant[i] {
			x := int(unscaledQuant[i][j])
			x = (x*scale + 50) / 100
			if x < 1 {
				x = 1
			}
			if x > 255 {
				x = 255
			}
			e.quant[i][j] = uint8(x)
		}
	}

	e.writeByte(0xff)
	e.writeByte(soiMarker)
	e.writeJFIF()
	e.writeDQT()
	e.writeSOF0(width, height)
	e.writeDHT()
	e.writeSOS()
	return e.err
}

// AddBlock consumes one MCU. The layout of mcu depends on the
// subsampling mode: 3 bytes per pixel Y Cb Cr for 4:4:4, the 4-byte
// pair group Y0 Cb Y1 Cr otherwise, with pitch bytes between rows.
func (e *Encoder) AddBlock(mcu []byte, pitch int) error {
	if e.err != nil {
		return e.err
	}
	if !e.started {
		return ErrNotStarted
	}
	var b block
	switch e.sub {
	case demosaic.Sub444:
		for c := 0; c < 3; c++ {
			for j := 0; j < 8; j++ {
				row := mcu[j*pitch:]
				for i := 0; i < 8; i++ {
					b[8*j+i] = int32(row[3*i+c])
				}
			}
			e.writeComponent(&b, c)
		}
	case demosaic.Sub422:
		for bx := 0; bx < 2; bx++ {
			e.lumaBlock(&b, mcu, pitch, bx*8, 0)
			e.writeComponent(&b, 0)
		}
		e.chromaBlock(&b, mcu, pitch, 1, 1)
		e.writeComponent(&b, 1)
		e.chromaBlock(&b, mcu, pitch, 3, 1)
		e.writeComponent(&b, 2)
	default: // Sub420
		for by := 0; by < 2; by++ {
			for bx := 0; bx < 2; bx++ {
				e.lumaBlock(&b, mcu, pitch, bx*8, by*8)
				e.writeComponent(&b, 0)
			}
		}
		// 4:2:0 chroma lives on the even rows of the pair layout.
		e.chromaBlock(&b, mcu, pitch, 1, 2)
		e.writeComponent(&b, 1)
		e.chromaBlock(&b, mcu, pitch, 3, 2)
		e.writeComponent(&b, 2)
	}
	return e.err
}

// End flushes the entropy coder with one-filled padding and writes EOI.
func (e *Encoder) End() error {
	if e.err != nil {
		return e.err
	}
	if !e.started {
		return ErrNotStarted
	}
	e.emit(0x7f, 7)
	e.writeByte(0xff)
	e.writeByte(eoiMarker)
	e.started = false
	return e.err
}

// lumaBlock gathers an 8x8 luma block starting at pixel (x0, y0) of an
// MCU in pair layout.
func (e *Encoder) lumaBlock(b *block, mcu []byte, pitch, x0, y0 int) {
	for j := 0; j < 8; j++ {
		row := mcu[(y0+j)*pitch:]
		for i := 0; i < 8; i++ {
			x := x0 + i
			b[8*j+i] = int32(row[4*(x>>1)+2*(x&1)])
		}
	}
}

// chromaBlock gathers an 8x8 chroma block from the pair layout, taking
// byte off of each pair group and stepping rowStep MCU rows per block
// row.
func (e *Encoder) chromaBlock(b *block, mcu []byte, pitch, off, rowStep int) {
	for j := 0; j < 8; j++ {
		row := mcu[j*rowStep*pitch:]
		for i := 0; i < 8; i++ {
			b[8*j+i] = int32(row[4*i+off])
		}
	}
}

// writeComponent entropy-codes one block of component c, where c is 0
// for luma and 1 or 2 for chroma.
func (e *Encoder) writeComponent(b *block, c int) {
	q := quantIndexLuminance
	if c > 0 {
		q = quantIndexChrominance
	}
	e.prevDC[c] = e.writeBlock(b, q, e.prevDC[c])
}

// div returns a/b rounded to the nearest integer, away from zero on a
// tie. b must be positive.
func div(a, b int32) int32 {
	if a >= 0 {
		return (a + (b >> 1)) / b
	}
	return -((-a + (b >> 1)) / b)
}

// writeBlock transforms, quantizes and entropy-codes one block,
// returning its DC value for the next block's prediction.
func (e *Encoder) writeBlock(b *block, q quantIndex, prevDC int32) int32 {
	fdct(b)
	// fdct output is scaled by 8, folded into the divisor here.
	dc := div(b[0], 8*int32(e.quant[q][0]))
	e.emitHuffRLE(huffIndex(2*q+0), 0, dc-prevDC)
	h := huffIndex(2*q + 1)
	runLength := int32(0)
	for zig := 1; zig < blockSize; zig++ {
		ac := div(b[unzig[zig]], 8*int32(e.quant[q][zig]))
		if ac == 0 {
			runLength++
		} else {
			for runLength > 15 {
				e.emitHuff(h, 0xf0)
				runLength -= 16
			}
			e.emitHuffRLE(h, runLength, ac)
			runLength = 0
		}
	}
	if runLength > 0 {
		e.emitHuff(h, 0x00)
	}
	return dc
}
