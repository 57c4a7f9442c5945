package rawjpeg

import "io"

// Stream is the byte transport a conversion runs over. Read fills p
// and returns the number of bytes delivered; anything less than len(p)
// ends the current request, and zero marks end of input. Write
// consumes p and returns the number of bytes accepted.
//
// Plain functions rather than interfaces keep the transport free of
// error plumbing: the pipeline reacts only to byte counts, and maps
// shortfalls to its own error codes.
type Stream struct {
	Read  func(p []byte) int
	Write func(p []byte) int
}

// NewStream adapts a standard reader/writer pair. Read errors surface
// as short counts, which the pipeline treats as end of input.
func NewStream(r io.Reader, w io.Writer) Stream {
	return Stream{
		Read: func(p []byte) int {
			n, _ := io.ReadFull(r, p)
			return n
		},
		Write: func(p []byte) int {
			n, _ := w.Write(p)
			return n
		},
	}
}

// streamWriter adapts a Stream write function to io.Writer for the
// JPEG encoder. A sink that stops accepting bytes turns into
// io.ErrShortWrite, which the encoder latches.
type streamWriter struct {
	write func(p []byte) int
}

func (s streamWriter) Write(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n := s.write(p[total:])
		if n <= 0 {
			return total, io.ErrShortWrite
		}
		total += n
	}
	return total, nil
}

// boundedWriter fills a fixed byte slice and refuses bytes past its
// capacity.
type boundedWriter struct {
	dst []byte
	n   int
}

func (b *boundedWriter) write(p []byte) int {
	n := copy(b.dst[b.n:], p)
	b.n += n
	return n
}
