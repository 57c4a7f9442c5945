package jpegenc

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"testing"

	"github.com/rkarls/go-rawjpeg/internal/demosaic"
)

// mcu444 builds one 8x8 MCU in the 3-byte-per-pixel layout with a
// constant color.
func mcu444(y, cb, cr byte) ([]byte, int) {
	const pitch = 24
	m := make([]byte, pitch*8)
	for j := 0; j < 8; j++ {
		for i := 0; i < 8; i++ {
			m[j*pitch+3*i+0] = y
			m[j*pitch+3*i+1] = cb
			m[j*pitch+3*i+2] = cr
		}
	}
	return m, pitch
}

// mcuPair builds one MCU in the Y0 Cb Y1 Cr pair layout for the given
// height (8 for 4:2:2, 16 for 4:2:0), with luma from f(x, y).
func mcuPair(height int, f func(x, y int) byte) ([]byte, int) {
	const pitch = 32
	m := make([]byte, pitch*height)
	for j := 0; j < height; j++ {
		for x := 0; x < 16; x += 2 {
			p := m[j*pitch+2*x:]
			p[0] = f(x, j)
			p[1] = 128
			p[2] = f(x+1, j)
			p[3] = 128
		}
	}
	return m, pitch
}

func decode(t *testing.T, buf *bytes.Buffer) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("stdlib decode failed: %v", err)
	}
	return img
}

func TestEncodeGray444(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf)
	if err := e.Begin(8, 8, demosaic.Sub444, 90); err != nil {
		t.Fatal(err)
	}
	m, pitch := mcu444(128, 128, 128)
	if err := e.AddBlock(m, pitch); err != nil {
		t.Fatal(err)
	}
	if err := e.End(); err != nil {
		t.Fatal(err)
	}

	img := decode(t, &buf)
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Fatalf("decoded size %dx%d, want 8x8", b.Dx(), b.Dy())
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			for _, v := range []uint32{r >> 8, g >> 8, b >> 8} {
				if v < 118 || v > 138 {
					t.Fatalf("pixel (%d,%d) = (%d,%d,%d), want ~128", x, y, r>>8, g>>8, b>>8)
				}
			}
		}
	}
}

func TestEncodeMultipleMCUs(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf)
	if err := e.Begin(16, 8, demosaic.Sub444, 85); err != nil {
		t.Fatal(err)
	}
	dark, pitch := mcu444(40, 128, 128)
	light, _ := mcu444(220, 128, 128)
	if err := e.AddBlock(dark, pitch); err != nil {
		t.Fatal(err)
	}
	if err := e.AddBlock(light, pitch); err != nil {
		t.Fatal(err)
	}
	if err := e.End(); err != nil {
		t.Fatal(err)
	}

	img := decode(t, &buf)
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Fatalf("decoded size %dx%d, want 16x8", b.Dx(), b.Dy())
	}
	lr, _, _, _ := img.At(2, 4).RGBA()
	rr, _, _, _ := img.At(13, 4).RGBA()
	if lr>>8 > 80 || rr>>8 < 180 {
		t.Errorf("left %d right %d: block order looks wrong", lr>>8, rr>>8)
	}
}

func TestEncode422(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf)
	if err := e.Begin(16, 8, demosaic.Sub422, 90); err != nil {
		t.Fatal(err)
	}
	m, pitch := mcuPair(8, func(x, y int) byte { return byte(60 + 10*(x/2)) })
	if err := e.AddBlock(m, pitch); err != nil {
		t.Fatal(err)
	}
	if err := e.End(); err != nil {
		t.Fatal(err)
	}

	img := decode(t, &buf)
	ycc, ok := img.(*image.YCbCr)
	if !ok {
		t.Fatalf("decoded type %T, want *image.YCbCr", img)
	}
	if ycc.SubsampleRatio != image.YCbCrSubsampleRatio422 {
		t.Errorf("subsample ratio %v, want 4:2:2", ycc.SubsampleRatio)
	}
	for x := 0; x < 16; x += 4 {
		want := int(60 + 10*(x/2))
		got := int(ycc.Y[ycc.YOffset(x, 4)])
		if d := got - want; d < -12 || d > 12 {
			t.Errorf("luma at x=%d: got %d, want ~%d", x, got, want)
		}
	}
}

func TestEncode420(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf)
	if err := e.Begin(16, 16, demosaic.Sub420, 90); err != nil {
		t.Fatal(err)
	}
	m, pitch := mcuPair(16, func(x, y int) byte { return byte(8 * (x + y)) })
	if err := e.AddBlock(m, pitch); err != nil {
		t.Fatal(err)
	}
	if err := e.End(); err != nil {
		t.Fatal(err)
	}

	img := decode(t, &buf)
	ycc, ok := img.(*image.YCbCr)
	if !ok {
		t.Fatalf("decoded type %T, want *image.YCbCr", img)
	}
	if ycc.SubsampleRatio != image.YCbCrSubsampleRatio420 {
		t.Errorf("subsample ratio %v, want 4:2:0", ycc.SubsampleRatio)
	}
	for _, pt := range [][2]int{{0, 0}, {8, 4}, {15, 15}, {3, 12}} {
		x, y := pt[0], pt[1]
		want := 8 * (x + y)
		got := int(ycc.Y[ycc.YOffset(x, y)])
		if d := got - want; d < -12 || d > 12 {
			t.Errorf("luma at (%d,%d): got %d, want ~%d", x, y, got, want)
		}
	}
}

func TestQualityChangesSize(t *testing.T) {
	run := func(q int) int {
		var buf bytes.Buffer
		e := New(&buf)
		if err := e.Begin(16, 16, demosaic.Sub420, q); err != nil {
			t.Fatal(err)
		}
		m, pitch := mcuPair(16, func(x, y int) byte { return byte(16*x + 3*y) })
		if err := e.AddBlock(m, pitch); err != nil {
			t.Fatal(err)
		}
		if err := e.End(); err != nil {
			t.Fatal(err)
		}
		return buf.Len()
	}
	low, high := run(20), run(95)
	if high <= low {
		t.Errorf("quality 95 produced %d bytes, quality 20 produced %d", high, low)
	}
}

func TestBeginRejectsBadDimensions(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf)
	if err := e.Begin(0, 8, demosaic.Sub444, 85); !errors.Is(err, ErrBadDimensions) {
		t.Errorf("Begin(0, 8) error = %v, want ErrBadDimensions", err)
	}
	if err := e.Begin(8, 70000, demosaic.Sub444, 85); !errors.Is(err, ErrBadDimensions) {
		t.Errorf("Begin(8, 70000) error = %v, want ErrBadDimensions", err)
	}
}

func TestAddBlockBeforeBegin(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf)
	m, pitch := mcu444(0, 128, 128)
	if err := e.AddBlock(m, pitch); !errors.Is(err, ErrNotStarted) {
		t.Errorf("AddBlock error = %v, want ErrNotStarted", err)
	}
}
