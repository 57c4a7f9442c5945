// Package demosaic reconstructs per-pixel RGB from Bayer mosaic rows
// and converts directly to the pipeline's luma/chroma representation.
//
// Two interchangeable implementations share the Converter signature: a
// floating-point reference path and an integer fixed-point fast path
// (Q8 white-balance gains, shift-based normalization). The fast path
// must stay within a small rounding tolerance of the reference for
// every pattern and subsampling mode; the reference is the source of
// truth.
//
// Reconstruction averages same-color neighbors. Green sites take the
// two horizontal and the two vertical neighbors; red and blue sites
// take the four cross neighbors for green and the four diagonal
// neighbors for the opposite color. Missing neighbors at image edges
// are excluded from the average rather than substituted.
package demosaic

// Subsampling selects the chroma layout of the converted output.
type Subsampling int

const (
	// Sub444 emits one luma and two chroma bytes per pixel.
	Sub444 Subsampling = iota
	// Sub422 shares chroma horizontally across pixel pairs.
	Sub422
	// Sub420 shares chroma across 2x2 pixel quads.
	Sub420
)

// String returns the string representation of the subsampling mode.
func (s Subsampling) String() string {
	switch s {
	case Sub444:
		return "444"
	case Sub422:
		return "422"
	case Sub420:
		return "420"
	default:
		return "Unknown"
	}
}

// BytesPerPixel returns the converted output bytes per pixel: three
// for Sub444 (Y Cb Cr), two for the shared-chroma modes (Y0 Cb Y1 Cr
// per pair).
func (s Subsampling) BytesPerPixel() int {
	if s == Sub444 {
		return 3
	}
	return 2
}

// Default white-balance gains, calibrated for the primary sensor.
// Chosen exactly representable in Q8 so the fast path applies them
// without quantization error.
const (
	DefaultGainR = 1.75
	DefaultGainG = 1.0
	DefaultGainB = 1.375
)

// RGB to YCbCr coefficients, full range, scaled by 256. The fast path
// applies them as integers; the reference path uses the same rational
// values in floating point so the matrix itself is shared.
const (
	coefYR, coefYG, coefYB    = 77, 150, 29
	coefCbR, coefCbG, coefCbB = -43, -85, 128
	coefCrR, coefCrG, coefCrB = 128, -107, -21
)

// Options configure a row converter.
type Options struct {
	Width       int
	Pattern     Pattern
	Subsampling Subsampling
	// BitDepth is the significant bits per unpacked sample; the
	// normalization shift to 8-bit output derives from it.
	BitDepth int
	// WhiteBalance enables per-channel gains. Zero gains select the
	// calibrated defaults.
	WhiteBalance        bool
	GainR, GainG, GainB float64
	// Fast selects the fixed-point path.
	Fast bool
}

// A Converter turns a sliding window of unpacked sample rows into one
// converted output row.
//
// prev and next are the rows above and below cur; either may be nil at
// the image edges. y is the absolute row index, used for pattern phase
// and chroma-row parity. For Sub420, dstPrev is the previous converted
// row: odd rows copy its chroma bytes and write only luma.
type Converter interface {
	ConvertRow(dst, dstPrev []byte, prev, cur, next []uint16, y int)
}

// New builds the converter selected by o.
func New(o Options) Converter {
	gr, gg, gb := 1.0, 1.0, 1.0
	if o.WhiteBalance {
		gr, gg, gb = o.GainR, o.GainG, o.GainB
		if gr <= 0 {
			gr = DefaultGainR
		}
		if gg <= 0 {
			gg = DefaultGainG
		}
		if gb <= 0 {
			gb = DefaultGainB
		}
	}
	shift := o.BitDepth - 8
	if shift < 0 {
		shift = 0
	}
	if o.Fast {
		return &fastConverter{
			width:   o.Width,
			pattern: o.Pattern,
			sub:     o.Subsampling,
			gainR:   uint32(gr*256 + 0.5),
			gainG:   uint32(gg*256 + 0.5),
			gainB:   uint32(gb*256 + 0.5),
			shift:   uint(shift),
		}
	}
	return &refConverter{
		width:   o.Width,
		pattern: o.Pattern,
		sub:     o.Subsampling,
		gainR:   gr,
		gainG:   gg,
		gainB:   gb,
		scale:   1 / float64(int(1)<<shift),
	}
}
