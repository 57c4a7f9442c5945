package strip

import (
	"errors"
	"fmt"

	"github.com/rkarls/go-rawjpeg/internal/demosaic"
	"github.com/rkarls/go-rawjpeg/internal/pixel"
)

// State tracks the orchestrator's position in the block-row loop.
type State int

const (
	StateAwaitingBlockRow State = iota
	StateReading
	StateUnpacking
	StateDemosaicing
	StateEmitting
	StateDone
)

var (
	// ErrShortSkip reports end of input while discarding leading lines.
	ErrShortSkip = errors.New("strip: input ended while skipping leading lines")
	// ErrCompressorInit reports a compression engine that refused to start.
	ErrCompressorInit = errors.New("strip: compression engine init failed")
)

// ReadFunc pulls up to len(p) bytes from the input. A zero return
// reports end of input; a short return ends the current request early.
type ReadFunc func(p []byte) int

// BlockSink consumes color-converted compression blocks. The
// orchestrator guarantees one fully converted block per AddBlock call,
// strictly in scan order: left to right within a block row, block rows
// top to bottom.
type BlockSink interface {
	Begin(width, height int, sub demosaic.Subsampling, quality int) error
	AddBlock(block []byte, pitch int) error
	End() error
}

// Orchestrator walks the image one compression-block row at a time.
// Across block boundaries it keeps the previous block's last unpacked
// row (carry-over) and pre-fetches one row of the next block
// (lookahead), so every row sees its vertical neighbors without
// re-reading consumed input.
type Orchestrator struct {
	p    Params
	read ReadFunc
	sink BlockSink
	conv demosaic.Converter

	state    State
	stride   int
	mcuW     int
	mcuH     int
	paddedW  int
	outPitch int
	rowBytes int
	bpp      int

	raw   []byte
	strip []uint16
	out   []byte
	carry []uint16
	look  []uint16

	haveCarry bool
	haveLook  bool
	eof       bool
}

// New sizes the workspace for p and builds an orchestrator over it.
func New(p Params, ws *Workspace, read ReadFunc, sink BlockSink) (*Orchestrator, error) {
	stride, err := pixel.RowStride(p.Format, p.Width)
	if err != nil {
		return nil, err
	}
	mcuW, mcuH := MCUSize(p.Subsampling)
	bpp := p.Subsampling.BytesPerPixel()
	paddedW := paddedWidth(p.Width, mcuW)
	rowBytes := p.Width * 3
	if bpp == 2 {
		rowBytes = (p.Width + 1) / 2 * 4
	}

	o := &Orchestrator{
		p:        p,
		read:     read,
		sink:     sink,
		stride:   stride,
		mcuW:     mcuW,
		mcuH:     mcuH,
		paddedW:  paddedW,
		outPitch: paddedW * bpp,
		rowBytes: rowBytes,
		bpp:      bpp,
	}
	if o.raw, err = ws.EnsureBytes(BufRawChunk, stride*mcuH); err != nil {
		return nil, err
	}
	if o.strip, err = ws.EnsureSamples(BufUnpackStrip, p.Width*mcuH); err != nil {
		return nil, err
	}
	if o.out, err = ws.EnsureBytes(BufOutputStrip, o.outPitch*mcuH); err != nil {
		return nil, err
	}
	if o.carry, err = ws.EnsureSamples(BufCarryRow, p.Width); err != nil {
		return nil, err
	}
	if o.look, err = ws.EnsureSamples(BufLookaheadRow, p.Width); err != nil {
		return nil, err
	}
	o.conv = demosaic.New(demosaic.Options{
		Width:        p.Width,
		Pattern:      p.Pattern,
		Subsampling:  p.Subsampling,
		BitDepth:     p.Format.BitDepth(),
		WhiteBalance: p.WhiteBalance,
		GainR:        p.GainR,
		GainG:        p.GainG,
		GainB:        p.GainB,
		Fast:         p.Fast,
	})
	return o, nil
}

// State returns the current pipeline state.
func (o *Orchestrator) State() State { return o.state }

// Run drives the pipeline to completion.
func (o *Orchestrator) Run() error {
	if err := o.skipLeading(); err != nil {
		return err
	}
	if err := o.sink.Begin(o.p.Width, o.p.Height, o.p.Subsampling, o.p.Quality); err != nil {
		return fmt.Errorf("%w: %w", ErrCompressorInit, err)
	}

	blockRows := (o.p.Height + o.mcuH - 1) / o.mcuH
	for br := 0; br < blockRows; br++ {
		o.state = StateAwaitingBlockRow
		y0 := br * o.mcuH
		valid := o.p.Height - y0
		if valid > o.mcuH {
			valid = o.mcuH
		}

		o.state = StateReading
		start := 0
		if o.haveLook {
			// The pre-fetched row is this block's first row; it was
			// already unpacked and corrected.
			copy(o.stripRow(0), o.look)
			start = 1
		}
		for i := start; i < valid; i++ {
			o.readRow(o.rawRow(i))
		}

		o.state = StateUnpacking
		for i := start; i < valid; i++ {
			row := o.stripRow(i)
			pixel.UnpackRow(row, o.rawRow(i), o.p.Format, o.p.Width)
			pixel.SubtractBlack(row, o.p.BlackLevel)
		}

		o.haveLook = false
		if y0+valid < o.p.Height {
			o.readRow(o.raw[:o.stride])
			pixel.UnpackRow(o.look, o.raw[:o.stride], o.p.Format, o.p.Width)
			pixel.SubtractBlack(o.look, o.p.BlackLevel)
			o.haveLook = true
		}

		o.state = StateDemosaicing
		o.demosaicBlock(y0, valid)

		o.state = StateEmitting
		if err := o.emitBlockRow(); err != nil {
			return err
		}

		copy(o.carry, o.stripRow(valid-1))
		o.haveCarry = true
	}

	o.state = StateDone
	return o.sink.End()
}

// skipLeading discards the configured number of leading raw lines.
// Unlike mid-image reads, running out of input here is an error: the
// image proper has not started yet.
func (o *Orchestrator) skipLeading() error {
	for i := 0; i < o.p.SkipLines; i++ {
		if !o.readRow(o.raw[:o.stride]) {
			return ErrShortSkip
		}
	}
	return nil
}

// readRow fills buf from the input and reports whether the full row
// arrived. Bytes the stream does not deliver are zeroed, never left
// stale: a truncated image renders black, not smeared.
func (o *Orchestrator) readRow(buf []byte) bool {
	got := 0
	if !o.eof {
		got = o.read(buf)
		if got < 0 {
			got = 0
		}
		if got >= len(buf) {
			return true
		}
		if got == 0 {
			o.eof = true
		}
	}
	for i := got; i < len(buf); i++ {
		buf[i] = 0
	}
	return false
}

func (o *Orchestrator) demosaicBlock(y0, valid int) {
	for i := 0; i < valid; i++ {
		var prev, next []uint16
		switch {
		case i > 0:
			prev = o.stripRow(i - 1)
		case o.haveCarry:
			prev = o.carry
		}
		switch {
		case i < valid-1:
			next = o.stripRow(i + 1)
		case o.haveLook:
			next = o.look
		}
		dst := o.outRow(i)
		var dstPrev []byte
		if i > 0 {
			dstPrev = o.outRow(i - 1)
		}
		o.conv.ConvertRow(dst[:o.rowBytes], dstPrev, prev, o.stripRow(i), next, y0+i)
		o.padRight(dst)
	}
	// A partial final block still emits whole blocks: replicate the
	// last converted row downward.
	last := o.outRow(valid - 1)
	for i := valid; i < o.mcuH; i++ {
		copy(o.outRow(i), last)
	}
}

// padRight replicates the last converted pixel group out to the padded
// block width.
func (o *Orchestrator) padRight(dst []byte) {
	group := 3
	if o.bpp == 2 {
		group = 4
	}
	for off := o.rowBytes; off < o.outPitch; off += group {
		copy(dst[off:off+group], dst[o.rowBytes-group:o.rowBytes])
	}
}

func (o *Orchestrator) emitBlockRow() error {
	n := o.paddedW / o.mcuW
	step := o.mcuW * o.bpp
	for m := 0; m < n; m++ {
		if err := o.sink.AddBlock(o.out[m*step:], o.outPitch); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) stripRow(i int) []uint16 {
	return o.strip[i*o.p.Width : (i+1)*o.p.Width]
}

func (o *Orchestrator) rawRow(i int) []byte {
	return o.raw[i*o.stride : (i+1)*o.stride]
}

func (o *Orchestrator) outRow(i int) []byte {
	return o.out[i*o.outPitch : (i+1)*o.outPitch]
}
