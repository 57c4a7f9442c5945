// Package pixel converts raw sensor bytes into 16-bit samples and
// applies black-level correction.
//
// All unpackers leave samples in the sensor's native range; range
// normalization happens later in the demosaic stage. Trailing bytes
// beyond the last whole sample group are never read.
package pixel

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Format identifies the byte layout of one raw sample row.
type Format int

const (
	// Raw8 is one byte per sample.
	Raw8 Format = iota
	// Raw16 is two bytes per sample, little-endian, with 12 significant
	// bits MSB-aligned in the 16-bit word (the primary sensor format).
	Raw16
	// Raw10Packed packs four 10-bit samples into five bytes.
	Raw10Packed
	// Raw12Packed packs two 12-bit samples into three bytes.
	Raw12Packed
	// Raw10 is two bytes per sample with the low 10 bits significant.
	Raw10
	// Raw12 is two bytes per sample with the low 12 bits significant.
	Raw12
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case Raw8:
		return "raw8"
	case Raw16:
		return "raw16"
	case Raw10Packed:
		return "raw10p"
	case Raw12Packed:
		return "raw12p"
	case Raw10:
		return "raw10"
	case Raw12:
		return "raw12"
	default:
		return "unknown"
	}
}

// BitDepth returns the number of significant bits per unpacked sample.
func (f Format) BitDepth() int {
	switch f {
	case Raw8:
		return 8
	case Raw10Packed, Raw10:
		return 10
	default:
		// Raw16 carries 12 significant bits after alignment.
		return 12
	}
}

// ErrStride reports a non-positive computed row stride.
var ErrStride = errors.New("pixel: non-positive row stride")

// RowStride returns the number of raw bytes occupied by one image row.
func RowStride(f Format, width int) (int, error) {
	var n int
	switch f {
	case Raw8:
		n = width
	case Raw16, Raw10, Raw12:
		n = width * 2
	case Raw10Packed:
		n = (width*10 + 7) / 8
	case Raw12Packed:
		n = (width*12 + 7) / 8
	default:
		return 0, fmt.Errorf("pixel: unknown format %d", int(f))
	}
	if n <= 0 {
		return 0, ErrStride
	}
	return n, nil
}

// UnpackRow converts one raw row into width 16-bit samples.
// src must hold at least RowStride(f, width) bytes.
func UnpackRow(dst []uint16, src []byte, f Format, width int) {
	switch f {
	case Raw8:
		for x := 0; x < width; x++ {
			dst[x] = uint16(src[x])
		}
	case Raw16:
		// MSB-aligned 12-in-16: shift down to the native 12-bit range.
		for x := 0; x < width; x++ {
			dst[x] = binary.LittleEndian.Uint16(src[2*x:]) >> 4
		}
	case Raw10:
		for x := 0; x < width; x++ {
			dst[x] = binary.LittleEndian.Uint16(src[2*x:]) & 0x3FF
		}
	case Raw12:
		for x := 0; x < width; x++ {
			dst[x] = binary.LittleEndian.Uint16(src[2*x:]) & 0xFFF
		}
	case Raw10Packed:
		unpack10(dst, src, width)
	case Raw12Packed:
		unpack12(dst, src, width)
	}
}

// unpack10 expands groups of five bytes into four 10-bit samples: four
// bytes of high bits followed by one byte holding the four 2-bit tails.
func unpack10(dst []uint16, src []byte, width int) {
	x := 0
	for ; x+4 <= width; x += 4 {
		g := src[x/4*5:]
		low := g[4]
		dst[x+0] = uint16(g[0])<<2 | uint16(low)&3
		dst[x+1] = uint16(g[1])<<2 | uint16(low>>2)&3
		dst[x+2] = uint16(g[2])<<2 | uint16(low>>4)&3
		dst[x+3] = uint16(g[3])<<2 | uint16(low>>6)&3
	}
	if x < width {
		g := src[x/4*5:]
		var low byte
		if rem := width - x; len(g) > rem {
			low = g[rem]
		}
		for i := 0; x < width; i, x = i+1, x+1 {
			dst[x] = uint16(g[i])<<2 | uint16(low>>(2*i))&3
		}
	}
}

// unpack12 expands groups of three bytes into two 12-bit samples: two
// bytes of high bits followed by one byte holding both 4-bit tails.
func unpack12(dst []uint16, src []byte, width int) {
	x := 0
	for ; x+2 <= width; x += 2 {
		g := src[x/2*3:]
		dst[x+0] = uint16(g[0])<<4 | uint16(g[2])&0xF
		dst[x+1] = uint16(g[1])<<4 | uint16(g[2]>>4)&0xF
	}
	if x < width {
		g := src[x/2*3:]
		var low byte
		if len(g) > 1 {
			low = g[1]
		}
		dst[x] = uint16(g[0])<<4 | uint16(low)&0xF
	}
}
