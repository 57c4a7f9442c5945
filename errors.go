package rawjpeg

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// ErrorCode classifies a conversion failure. Codes are stable across
// releases so callers can switch on them.
type ErrorCode int

const (
	// ErrNone means no error.
	ErrNone ErrorCode = iota
	// ErrInvalidArgument is a config field outside its domain.
	ErrInvalidArgument
	// ErrInvalidDimensions is a width or height outside 1..65535.
	ErrInvalidDimensions
	// ErrInvalidStride is a raw row stride that comes out non-positive.
	ErrInvalidStride
	// ErrMemoryLimit is an estimated workspace requirement above the
	// configured cap.
	ErrMemoryLimit
	// ErrShortSkip is input that ended during the leading-line skip.
	ErrShortSkip
	// ErrCompressorInit is a JPEG encoder that failed to start.
	ErrCompressorInit
	// ErrAllocRawChunk through ErrAllocLookaheadRow identify the
	// workspace buffer whose sizing request was invalid.
	ErrAllocRawChunk
	ErrAllocUnpackStrip
	ErrAllocOutputStrip
	ErrAllocCarryRow
	ErrAllocLookaheadRow
	// ErrOutputOverflow is an output sink that stopped accepting bytes.
	ErrOutputOverflow
	// ErrNilInput is a missing input source.
	ErrNilInput
	// ErrNilOutput is a missing output sink.
	ErrNilOutput
	// ErrZeroOutputCapacity is an output buffer with no room at all.
	ErrZeroOutputCapacity
)

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrNone:
		return "ErrNone"
	case ErrInvalidArgument:
		return "ErrInvalidArgument"
	case ErrInvalidDimensions:
		return "ErrInvalidDimensions"
	case ErrInvalidStride:
		return "ErrInvalidStride"
	case ErrMemoryLimit:
		return "ErrMemoryLimit"
	case ErrShortSkip:
		return "ErrShortSkip"
	case ErrCompressorInit:
		return "ErrCompressorInit"
	case ErrAllocRawChunk:
		return "ErrAllocRawChunk"
	case ErrAllocUnpackStrip:
		return "ErrAllocUnpackStrip"
	case ErrAllocOutputStrip:
		return "ErrAllocOutputStrip"
	case ErrAllocCarryRow:
		return "ErrAllocCarryRow"
	case ErrAllocLookaheadRow:
		return "ErrAllocLookaheadRow"
	case ErrOutputOverflow:
		return "ErrOutputOverflow"
	case ErrNilInput:
		return "ErrNilInput"
	case ErrNilOutput:
		return "ErrNilOutput"
	case ErrZeroOutputCapacity:
		return "ErrZeroOutputCapacity"
	default:
		return "Unknown"
	}
}

// Error is the failure record kept by the encoder: a stable code, the
// public operation that failed, a human-readable message, and the
// source location that raised it.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	File    string
	Line    int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("rawjpeg: %s: %s: %s (%s:%d)", e.Op, e.Code, e.Message, e.File, e.Line)
	}
	return fmt.Sprintf("rawjpeg: %s: %s: %s", e.Op, e.Code, e.Message)
}

// newError builds an Error recording the caller's source location.
func newError(code ErrorCode, op, msg string) *Error {
	e := &Error{Code: code, Op: op, Message: msg}
	if _, file, line, ok := runtime.Caller(1); ok {
		e.File = filepath.Base(file)
		e.Line = line
	}
	return e
}
