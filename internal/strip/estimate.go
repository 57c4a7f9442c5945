package strip

import (
	"github.com/rkarls/go-rawjpeg/internal/demosaic"
	"github.com/rkarls/go-rawjpeg/internal/pixel"
)

// Params carries the validated geometry and tuning an encode runs with.
type Params struct {
	Width, Height       int
	Format              pixel.Format
	Pattern             demosaic.Pattern
	Subsampling         demosaic.Subsampling
	Quality             int
	SkipLines           int
	BlackLevel          uint16
	WhiteBalance        bool
	GainR, GainG, GainB float64
	Fast                bool
}

// MCUSize returns the compression block geometry for s in pixels.
func MCUSize(s demosaic.Subsampling) (w, h int) {
	switch s {
	case demosaic.Sub422:
		return 16, 8
	case demosaic.Sub420:
		return 16, 16
	default:
		return 8, 8
	}
}

// paddedWidth rounds the image width up to a whole number of blocks.
func paddedWidth(width, mcuW int) int {
	return (width + mcuW - 1) / mcuW * mcuW
}

// EstimateMemory returns the peak workspace requirement in bytes for
// an encode with p. It is a pure function of p and allocates nothing:
// callers use it both as a pre-flight "how much RAM" query and for the
// engine's own memory-ceiling check.
func EstimateMemory(p Params) (int, error) {
	stride, err := pixel.RowStride(p.Format, p.Width)
	if err != nil {
		return 0, err
	}
	mcuW, mcuH := MCUSize(p.Subsampling)
	outPitch := paddedWidth(p.Width, mcuW) * p.Subsampling.BytesPerPixel()

	raw := stride * mcuH
	unpack := p.Width * 2 * mcuH
	out := outPitch * mcuH
	carry := p.Width * 2
	lookahead := p.Width * 2
	return raw + unpack + out + carry + lookahead, nil
}
