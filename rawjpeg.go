// Package rawjpeg converts raw Bayer sensor frames into baseline JFIF
// JPEG using a bounded amount of memory.
//
// The pipeline never holds a whole frame: input is consumed one
// compression-block row at a time, demosaiced and color-converted in
// place, and handed to the JPEG entropy coder block by block. Peak
// memory is a function of the image width and the chroma subsampling
// mode only, and EstimateMemory reports it exactly without allocating.
//
// Basic usage:
//
//	enc := rawjpeg.NewEncoder()
//	cfg := rawjpeg.DefaultConfig()
//	cfg.Width, cfg.Height = 1920, 1080
//	n, err := enc.EncodeBytes(dst, raw, cfg)
//	if err != nil {
//	    log.Fatal(enc.LastError())
//	}
package rawjpeg

import (
	"github.com/rkarls/go-rawjpeg/internal/demosaic"
	"github.com/rkarls/go-rawjpeg/internal/pixel"
)

// PixelFormat identifies the byte layout of the raw input stream.
type PixelFormat int

const (
	// FormatRaw8 is one byte per sample.
	FormatRaw8 PixelFormat = iota
	// FormatRaw16 is two bytes per sample, little-endian, 12 significant
	// bits MSB-aligned in the 16-bit word. This is the primary sensor
	// format.
	FormatRaw16
	// FormatRaw10Packed packs four 10-bit samples into five bytes.
	FormatRaw10Packed
	// FormatRaw12Packed packs two 12-bit samples into three bytes.
	FormatRaw12Packed
	// FormatRaw10 is two bytes per sample, low 10 bits significant.
	FormatRaw10
	// FormatRaw12 is two bytes per sample, low 12 bits significant.
	FormatRaw12
)

// String returns the string representation of the pixel format.
func (f PixelFormat) String() string { return pixel.Format(f).String() }

// BitDepth returns the significant bits per sample for the format.
func (f PixelFormat) BitDepth() int { return pixel.Format(f).BitDepth() }

// BayerPattern identifies the color filter arrangement of the sensor,
// named by the top-left 2x2 cell.
type BayerPattern int

const (
	PatternRGGB BayerPattern = iota
	PatternBGGR
	PatternGRBG
	PatternGBRG
)

// String returns the string representation of the pattern.
func (p BayerPattern) String() string { return demosaic.Pattern(p).String() }

// Subsampling selects the chroma layout of the encoded image.
type Subsampling int

const (
	// Subsampling444 keeps full chroma resolution.
	Subsampling444 Subsampling = iota
	// Subsampling422 shares chroma horizontally across pixel pairs.
	Subsampling422
	// Subsampling420 shares chroma across 2x2 pixel quads.
	Subsampling420
)

// String returns the string representation of the subsampling mode.
func (s Subsampling) String() string { return demosaic.Subsampling(s).String() }

// Config holds the parameters of one conversion.
type Config struct {
	// Width and Height are the frame dimensions in pixels.
	Width  int
	Height int

	// Format is the raw byte layout of the input stream.
	Format PixelFormat

	// Pattern is the sensor's Bayer arrangement.
	Pattern BayerPattern

	// Quality is the JPEG quality, 1 to 100. Zero selects the default.
	Quality int

	// Subsampling selects the chroma layout.
	Subsampling Subsampling

	// SkipLines discards this many raw lines before the frame proper.
	// Running out of input during the skip is an error, unlike
	// truncation mid-frame.
	SkipLines int

	// BlackLevel is subtracted from every unpacked sample, saturating
	// at zero.
	BlackLevel uint16

	// WhiteBalance enables per-channel gains. Gains that are zero or
	// negative select the calibrated defaults.
	WhiteBalance bool

	// GainR, GainG, GainB are the white-balance multipliers, at most 64.
	// Only used when WhiteBalance is true.
	GainR float64
	GainG float64
	GainB float64

	// FastMode selects the integer fixed-point conversion path instead
	// of the floating-point reference path.
	FastMode bool

	// MemoryLimit caps the workspace size in bytes. An encode whose
	// estimated requirement exceeds the cap fails before allocating
	// anything. Zero means no cap.
	MemoryLimit int
}

// DefaultConfig returns a config with the calibrated defaults for the
// primary sensor. Width and Height must still be set.
func DefaultConfig() *Config {
	return &Config{
		Format:      FormatRaw16,
		Pattern:     PatternRGGB,
		Quality:     defaultQuality,
		Subsampling: Subsampling420,
		FastMode:    true,
	}
}

const (
	defaultQuality = 85

	// maxGain bounds the white-balance multipliers so the fixed-point
	// path's Q8 gains cannot overflow 32-bit intermediates.
	maxGain = 64
)
