// Package strip drives the encode pipeline one compression-block row
// at a time, keeping the minimal row window the demosaic neighborhood
// needs instead of the whole image.
package strip

import "errors"

// BufferID names one of the workspace scratch buffers.
type BufferID int

const (
	// BufRawChunk holds one block row of raw stream bytes.
	BufRawChunk BufferID = iota
	// BufUnpackStrip holds the unpacked 16-bit rows of the current block.
	BufUnpackStrip
	// BufOutputStrip holds the color-converted output rows.
	BufOutputStrip
	// BufCarryRow holds the previous block's last unpacked row.
	BufCarryRow
	// BufLookaheadRow holds the pre-fetched first row of the next block.
	BufLookaheadRow
	numBuffers
)

// Per-buffer allocation failures, each its own value so callers can
// report which buffer could not be sized.
var (
	ErrRawChunkAlloc     = errors.New("strip: raw chunk buffer request invalid")
	ErrUnpackStripAlloc  = errors.New("strip: unpack strip buffer request invalid")
	ErrOutputStripAlloc  = errors.New("strip: output strip buffer request invalid")
	ErrCarryRowAlloc     = errors.New("strip: carry-over row buffer request invalid")
	ErrLookaheadRowAlloc = errors.New("strip: lookahead row buffer request invalid")
)

// Workspace owns the scratch buffers for one encoder. A buffer grows
// when a request exceeds its capacity and is otherwise reused, so
// repeated encodes of same-sized images allocate nothing.
type Workspace struct {
	byteBufs   [numBuffers][]byte
	sampleBufs [numBuffers][]uint16

	// Grows counts buffer allocations, for tests that assert an encode
	// failed before touching the workspace.
	Grows int
}

// EnsureBytes returns the byte buffer id sized to exactly n.
func (w *Workspace) EnsureBytes(id BufferID, n int) ([]byte, error) {
	if n <= 0 {
		return nil, allocErr(id)
	}
	if cap(w.byteBufs[id]) < n {
		w.byteBufs[id] = make([]byte, n)
		w.Grows++
	}
	return w.byteBufs[id][:n], nil
}

// EnsureSamples returns the 16-bit sample buffer id sized to exactly n.
func (w *Workspace) EnsureSamples(id BufferID, n int) ([]uint16, error) {
	if n <= 0 {
		return nil, allocErr(id)
	}
	if cap(w.sampleBufs[id]) < n {
		w.sampleBufs[id] = make([]uint16, n)
		w.Grows++
	}
	return w.sampleBufs[id][:n], nil
}

func allocErr(id BufferID) error {
	switch id {
	case BufRawChunk:
		return ErrRawChunkAlloc
	case BufUnpackStrip:
		return ErrUnpackStripAlloc
	case BufOutputStrip:
		return ErrOutputStripAlloc
	case BufCarryRow:
		return ErrCarryRowAlloc
	default:
		return ErrLookaheadRowAlloc
	}
}
