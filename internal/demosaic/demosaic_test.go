package demosaic

import (
	"math/rand"
	"testing"
)

func TestColorAt(t *testing.T) {
	tests := []struct {
		pattern Pattern
		want    [2][2]uint8 // [y][x]
	}{
		{RGGB, [2][2]uint8{{ColorR, ColorG}, {ColorG, ColorB}}},
		{BGGR, [2][2]uint8{{ColorB, ColorG}, {ColorG, ColorR}}},
		{GRBG, [2][2]uint8{{ColorG, ColorR}, {ColorB, ColorG}}},
		{GBRG, [2][2]uint8{{ColorG, ColorB}, {ColorR, ColorG}}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern.String(), func(t *testing.T) {
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					if got := ColorAt(tt.pattern, x, y); got != tt.want[y&1][x&1] {
						t.Errorf("ColorAt(%v, %d, %d) = %d, want %d",
							tt.pattern, x, y, got, tt.want[y&1][x&1])
					}
				}
			}
			// Every pattern has exactly two green sites per cell.
			greens := 0
			for y := 0; y < 2; y++ {
				for x := 0; x < 2; x++ {
					if ColorAt(tt.pattern, x, y) == ColorG {
						greens++
					}
				}
			}
			if greens != 2 {
				t.Errorf("pattern %v has %d green sites per cell, want 2", tt.pattern, greens)
			}
		})
	}
}

// TestPatternColorAssignment feeds a mosaic whose bright samples sit
// at one pattern's red sites. Converted under that pattern the image
// must come out red-dominant; converted under the mirrored pattern,
// which puts blue at the same sites, the same bytes must come out
// blue-dominant. This pins the site-to-channel wiring itself, not just
// the color table.
func TestPatternColorAssignment(t *testing.T) {
	const (
		width, height = 8, 8
		bright, dark  = 3200, 320 // 200 and 20 after 12-bit normalization
	)
	mirror := map[Pattern]Pattern{RGGB: BGGR, BGGR: RGGB, GRBG: GBRG, GBRG: GRBG}

	for _, pattern := range []Pattern{RGGB, BGGR, GRBG, GBRG} {
		img := make([][]uint16, height)
		for y := range img {
			img[y] = make([]uint16, width)
			for x := range img[y] {
				if ColorAt(pattern, x, y) == ColorR {
					img[y][x] = bright
				} else {
					img[y][x] = dark
				}
			}
		}
		for _, fast := range []bool{false, true} {
			o := Options{Width: width, Pattern: pattern, Subsampling: Sub444, BitDepth: 12, Fast: fast}
			red := convertImage(o, img)
			o.Pattern = mirror[pattern]
			blue := convertImage(o, img)

			// Interior pixels see uniform (200, 20, 20) under the true
			// pattern, so chroma is (98, 218); mirrored, (218, 113).
			for y := 2; y < height-2; y++ {
				for x := 2; x < width-2; x++ {
					cb, cr := red[y][3*x+1], red[y][3*x+2]
					if cr < 190 || cb > 110 {
						t.Fatalf("%v fast=%v (%d,%d): chroma (%d,%d), want red-dominant",
							pattern, fast, x, y, cb, cr)
					}
					cb, cr = blue[y][3*x+1], blue[y][3*x+2]
					if cb < 190 || cr > 125 {
						t.Fatalf("%v read as %v fast=%v (%d,%d): chroma (%d,%d), want blue-dominant",
							pattern, mirror[pattern], fast, x, y, cb, cr)
					}
				}
			}
		}
	}
}

func TestToneCurve(t *testing.T) {
	if Tone(0) != 0 {
		t.Errorf("Tone(0) = %d, want 0", Tone(0))
	}
	if Tone(255) != 255 {
		t.Errorf("Tone(255) = %d, want 255", Tone(255))
	}
	for v := 1; v < 256; v++ {
		if Tone(uint8(v)) < Tone(uint8(v-1)) {
			t.Fatalf("tone curve not monotonic at %d: %d < %d", v, Tone(uint8(v)), Tone(uint8(v-1)))
		}
	}
}

// convertImage runs a converter over a whole test image with the same
// row wiring the pipeline uses.
func convertImage(o Options, img [][]uint16) [][]byte {
	c := New(o)
	bpp := o.Subsampling.BytesPerPixel()
	rowBytes := o.Width * 3
	if bpp == 2 {
		rowBytes = (o.Width + 1) / 2 * 4
	}
	out := make([][]byte, len(img))
	for y := range img {
		out[y] = make([]byte, rowBytes)
		var prev, next []uint16
		if y > 0 {
			prev = img[y-1]
		}
		if y+1 < len(img) {
			next = img[y+1]
		}
		var dstPrev []byte
		if y > 0 {
			dstPrev = out[y-1]
		}
		c.ConvertRow(out[y], dstPrev, prev, img[y], next, y)
	}
	return out
}

func randomImage(rng *rand.Rand, width, height, bitDepth int) [][]uint16 {
	img := make([][]uint16, height)
	for y := range img {
		img[y] = make([]uint16, width)
		for x := range img[y] {
			img[y][x] = uint16(rng.Intn(1 << bitDepth))
		}
	}
	return img
}

// TestFastMatchesReference bounds the divergence between the
// fixed-point and floating-point paths at two output levels, for every
// pattern and subsampling mode, on random 12-bit input.
func TestFastMatchesReference(t *testing.T) {
	const (
		width, height = 17, 12
		tolerance     = 2
	)
	rng := rand.New(rand.NewSource(7))
	img := randomImage(rng, width, height, 12)

	for _, pattern := range []Pattern{RGGB, BGGR, GRBG, GBRG} {
		for _, sub := range []Subsampling{Sub444, Sub422, Sub420} {
			for _, wb := range []bool{false, true} {
				o := Options{
					Width:        width,
					Pattern:      pattern,
					Subsampling:  sub,
					BitDepth:     12,
					WhiteBalance: wb,
				}
				o.Fast = false
				ref := convertImage(o, img)
				o.Fast = true
				fast := convertImage(o, img)

				for y := range ref {
					for i := range ref[y] {
						d := int(ref[y][i]) - int(fast[y][i])
						if d < 0 {
							d = -d
						}
						if d > tolerance {
							t.Fatalf("%v %v wb=%v: row %d byte %d: ref %d fast %d",
								pattern, sub, wb, y, i, ref[y][i], fast[y][i])
						}
					}
				}
			}
		}
	}
}

// TestTinyImage runs both paths over a 2x2 image, where every pixel is
// a corner and no interior kernel applies.
func TestTinyImage(t *testing.T) {
	img := [][]uint16{{4095, 0}, {0, 4095}}
	for _, pattern := range []Pattern{RGGB, BGGR, GRBG, GBRG} {
		for _, sub := range []Subsampling{Sub444, Sub422, Sub420} {
			for _, fast := range []bool{false, true} {
				o := Options{Width: 2, Pattern: pattern, Subsampling: sub, BitDepth: 12, Fast: fast}
				out := convertImage(o, img)
				if len(out) != 2 {
					t.Fatalf("%v %v fast=%v: got %d rows", pattern, sub, fast, len(out))
				}
			}
		}
	}
}

// TestConvert420SharesChroma checks that odd rows carry the chroma
// bytes of the even row above them, byte for byte.
func TestConvert420SharesChroma(t *testing.T) {
	const width, height = 8, 4
	rng := rand.New(rand.NewSource(3))
	img := randomImage(rng, width, height, 12)
	o := Options{Width: width, Pattern: RGGB, Subsampling: Sub420, BitDepth: 12, Fast: true}
	out := convertImage(o, img)

	for y := 1; y < height; y += 2 {
		for x := 0; x < width; x += 2 {
			if out[y][2*x+1] != out[y-1][2*x+1] {
				t.Errorf("row %d pair %d: Cb %d != %d", y, x/2, out[y][2*x+1], out[y-1][2*x+1])
			}
			if out[y][2*x+3] != out[y-1][2*x+3] {
				t.Errorf("row %d pair %d: Cr %d != %d", y, x/2, out[y][2*x+3], out[y-1][2*x+3])
			}
		}
	}
}

// TestUniformFieldIsNeutral feeds a uniform mosaic without white
// balance; chroma must come out neutral since R=G=B everywhere.
func TestUniformFieldIsNeutral(t *testing.T) {
	const width, height = 8, 6
	img := make([][]uint16, height)
	for y := range img {
		img[y] = make([]uint16, width)
		for x := range img[y] {
			img[y][x] = 2048
		}
	}
	for _, fast := range []bool{false, true} {
		o := Options{Width: width, Pattern: RGGB, Subsampling: Sub444, BitDepth: 12, Fast: fast}
		out := convertImage(o, img)
		for y := range out {
			for x := 0; x < width; x++ {
				cb, cr := out[y][3*x+1], out[y][3*x+2]
				if cb < 127 || cb > 129 || cr < 127 || cr > 129 {
					t.Fatalf("fast=%v (%d,%d): chroma (%d,%d), want ~128", fast, x, y, cb, cr)
				}
			}
		}
	}
}
