package rawjpeg

import (
	"errors"
	"io"
	"math"

	"github.com/rkarls/go-rawjpeg/internal/demosaic"
	"github.com/rkarls/go-rawjpeg/internal/jpegenc"
	"github.com/rkarls/go-rawjpeg/internal/pixel"
	"github.com/rkarls/go-rawjpeg/internal/strip"
)

// Encoder converts raw frames to JPEG. It owns a reusable workspace:
// repeated conversions of same-sized frames allocate nothing after the
// first. An Encoder is not safe for concurrent use.
type Encoder struct {
	ws   strip.Workspace
	last *Error
}

// NewEncoder returns an encoder with an empty workspace.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// LastError returns the failure record of the most recent conversion,
// or nil if it succeeded.
func (e *Encoder) LastError() *Error { return e.last }

// Grows reports how many workspace buffer allocations the encoder has
// performed over its lifetime.
func (e *Encoder) Grows() int { return e.ws.Grows }

// fail records err as the most recent failure and returns it.
func (e *Encoder) fail(err *Error) *Error {
	e.last = err
	return err
}

// Encode converts one frame read from s into a JPEG written to s.
// On failure the returned error is also available via LastError.
func (e *Encoder) Encode(s Stream, cfg *Config) error {
	const op = "Encode"
	e.last = nil
	if s.Read == nil {
		return e.fail(newError(ErrNilInput, op, "stream has no read function"))
	}
	if s.Write == nil {
		return e.fail(newError(ErrNilOutput, op, "stream has no write function"))
	}
	p, code, msg := cfg.params()
	if code != ErrNone {
		return e.fail(newError(code, op, msg))
	}

	// The memory ceiling is checked against the pure estimate before
	// any buffer is touched, so a rejected config leaves the workspace
	// exactly as it was.
	need, err := strip.EstimateMemory(p)
	if err != nil {
		return e.fail(newError(ErrInvalidStride, op, err.Error()))
	}
	if cfg.MemoryLimit > 0 && need > cfg.MemoryLimit {
		return e.fail(newError(ErrMemoryLimit, op, "workspace estimate exceeds memory limit"))
	}

	sink := jpegenc.New(streamWriter{write: s.Write})
	orch, err := strip.New(p, &e.ws, s.Read, sink)
	if err != nil {
		return e.fail(e.mapPipelineError(op, err))
	}
	if err := orch.Run(); err != nil {
		return e.fail(e.mapPipelineError(op, err))
	}
	return nil
}

// EncodeBytes converts the frame in src into dst and returns the
// number of JPEG bytes written.
func (e *Encoder) EncodeBytes(dst, src []byte, cfg *Config) (int, error) {
	const op = "EncodeBytes"
	e.last = nil
	if src == nil {
		return 0, e.fail(newError(ErrNilInput, op, "nil input buffer"))
	}
	if dst == nil {
		return 0, e.fail(newError(ErrNilOutput, op, "nil output buffer"))
	}
	if len(dst) == 0 {
		return 0, e.fail(newError(ErrZeroOutputCapacity, op, "output buffer has zero capacity"))
	}

	off := 0
	read := func(p []byte) int {
		n := copy(p, src[off:])
		off += n
		return n
	}
	bw := &boundedWriter{dst: dst}
	if err := e.Encode(Stream{Read: read, Write: bw.write}, cfg); err != nil {
		return 0, err
	}
	return bw.n, nil
}

// mapPipelineError translates pipeline sentinel errors to stable codes.
// Anything else came out of the output path.
func (e *Encoder) mapPipelineError(op string, err error) *Error {
	code := ErrOutputOverflow
	switch {
	case errors.Is(err, strip.ErrShortSkip):
		code = ErrShortSkip
	case errors.Is(err, io.ErrShortWrite):
		// A sink that stops taking bytes is an overflow even when it
		// happens during header writes.
		code = ErrOutputOverflow
	case errors.Is(err, strip.ErrCompressorInit):
		code = ErrCompressorInit
	case errors.Is(err, strip.ErrRawChunkAlloc):
		code = ErrAllocRawChunk
	case errors.Is(err, strip.ErrUnpackStripAlloc):
		code = ErrAllocUnpackStrip
	case errors.Is(err, strip.ErrOutputStripAlloc):
		code = ErrAllocOutputStrip
	case errors.Is(err, strip.ErrCarryRowAlloc):
		code = ErrAllocCarryRow
	case errors.Is(err, strip.ErrLookaheadRowAlloc):
		code = ErrAllocLookaheadRow
	case errors.Is(err, pixel.ErrStride):
		code = ErrInvalidStride
	}
	return newError(code, op, err.Error())
}

// params validates the config and lowers it to pipeline parameters.
// The returned code is ErrNone on success.
func (c *Config) params() (strip.Params, ErrorCode, string) {
	var p strip.Params
	if c == nil {
		return p, ErrInvalidArgument, "nil config"
	}
	if c.Width < 1 || c.Width > 65535 || c.Height < 1 || c.Height > 65535 {
		return p, ErrInvalidDimensions, "width and height must be in 1..65535"
	}
	if c.Format < FormatRaw8 || c.Format > FormatRaw12 {
		return p, ErrInvalidArgument, "unknown pixel format"
	}
	if c.Pattern < PatternRGGB || c.Pattern > PatternGBRG {
		return p, ErrInvalidArgument, "unknown Bayer pattern"
	}
	if c.Subsampling < Subsampling444 || c.Subsampling > Subsampling420 {
		return p, ErrInvalidArgument, "unknown subsampling mode"
	}
	if c.Quality < 0 || c.Quality > 100 {
		return p, ErrInvalidArgument, "quality must be in 0..100"
	}
	if c.SkipLines < 0 {
		return p, ErrInvalidArgument, "negative skip line count"
	}
	if c.WhiteBalance {
		// Zero and negative gains select the calibrated defaults; a gain
		// above maxGain would overflow the fast path's Q8 representation.
		for _, g := range [3]float64{c.GainR, c.GainG, c.GainB} {
			if g > maxGain || math.IsNaN(g) {
				return p, ErrInvalidArgument, "white-balance gain out of range"
			}
		}
	}
	quality := c.Quality
	if quality == 0 {
		quality = defaultQuality
	}
	p = strip.Params{
		Width:        c.Width,
		Height:       c.Height,
		Format:       pixel.Format(c.Format),
		Pattern:      demosaic.Pattern(c.Pattern),
		Subsampling:  demosaic.Subsampling(c.Subsampling),
		Quality:      quality,
		SkipLines:    c.SkipLines,
		BlackLevel:   c.BlackLevel,
		WhiteBalance: c.WhiteBalance,
		GainR:        c.GainR,
		GainG:        c.GainG,
		GainB:        c.GainB,
		Fast:         c.FastMode,
	}
	return p, ErrNone, ""
}
