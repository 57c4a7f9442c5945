package jpegenc

import "github.com/rkarls/go-rawjpeg/internal/demosaic"

const (
	soiMarker  = 0xd8
	eoiMarker  = 0xd9
	app0Marker = 0xe0
	dqtMarker  = 0xdb
	sof0Marker = 0xc0
	dhtMarker  = 0xc4
	sosMarker  = 0xda
)

func (e *Encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(p)
}

func (e *Encoder) writeByte(b byte) {
	e.buf[0] = b
	e.write(e.buf[:1])
}

// writeMarkerHeader writes the marker and its 2-byte length field,
// which counts the length bytes themselves.
func (e *Encoder) writeMarkerHeader(marker uint8, markerlen int) {
	e.buf[0] = 0xff
	e.buf[1] = marker
	e.buf[2] = uint8(markerlen >> 8)
	e.buf[3] = uint8(markerlen & 0xff)
	e.write(e.buf[:4])
}

// writeJFIF writes the APP0 JFIF segment: version 1.1, aspect-ratio
// pixel density 1x1, no thumbnail.
func (e *Encoder) writeJFIF() {
	e.writeMarkerHeader(app0Marker, 16)
	copy(e.buf[:5], "JFIF\x00")
	e.buf[5] = 0x01
	e.buf[6] = 0x01
	e.buf[7] = 0x00
	e.buf[8] = 0x00
	e.buf[9] = 0x01
	e.buf[10] = 0x00
	e.buf[11] = 0x01
	e.buf[12] = 0x00
	e.buf[13] = 0x00
	e.write(e.buf[:14])
}

// writeDQT writes both quantization tables in a single DQT segment.
func (e *Encoder) writeDQT() {
	const markerlen = 2 + int(nQuantIndex)*(1+blockSize)
	e.writeMarkerHeader(dqtMarker, markerlen)
	for i := range e.quant {
		e.writeByte(uint8(i))
		e.write(e.quant[i][:])
	}
}

// writeSOF0 writes the baseline frame header for three components.
func (e *Encoder) writeSOF0(width, height int) {
	var lumaSampling uint8
	switch e.sub {
	case demosaic.Sub422:
		lumaSampling = 0x21
	case demosaic.Sub420:
		lumaSampling = 0x22
	default:
		lumaSampling = 0x11
	}
	const markerlen = 8 + 3*3
	e.writeMarkerHeader(sof0Marker, markerlen)
	e.buf[0] = 8 // sample precision
	e.buf[1] = uint8(height >> 8)
	e.buf[2] = uint8(height & 0xff)
	e.buf[3] = uint8(width >> 8)
	e.buf[4] = uint8(width & 0xff)
	e.buf[5] = 3
	e.buf[6] = 1
	e.buf[7] = lumaSampling
	e.buf[8] = 0
	e.buf[9] = 2
	e.buf[10] = 0x11
	e.buf[11] = 1
	e.buf[12] = 3
	e.buf[13] = 0x11
	e.buf[14] = 1
	e.write(e.buf[:15])
}

// writeDHT writes all four Huffman tables in a single DHT segment.
func (e *Encoder) writeDHT() {
	markerlen := 2
	specs := theHuffmanSpec[:]
	for _, s := range specs {
		markerlen += 1 + 16 + len(s.value)
	}
	e.writeMarkerHeader(dhtMarker, markerlen)
	// Table class in the high nibble, destination in the low.
	classID := [nHuffIndex]byte{0x00, 0x10, 0x01, 0x11}
	for i, s := range specs {
		e.writeByte(classID[i])
		e.write(s.count[:])
		e.write(s.value)
	}
}

// writeSOS writes the scan header; entropy-coded data follows.
func (e *Encoder) writeSOS() {
	e.write([]byte{
		0xff, sosMarker, 0x00, 0x0c,
		3,
		1, 0x00,
		2, 0x11,
		3, 0x11,
		0x00, 0x3f, 0x00,
	})
}
