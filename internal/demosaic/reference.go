package demosaic

// refConverter is the floating-point reference path. It is slower than
// the fixed-point path but is the source of truth for correctness;
// edge handling divides by the actual neighbor count everywhere.
type refConverter struct {
	width               int
	pattern             Pattern
	sub                 Subsampling
	gainR, gainG, gainB float64
	scale               float64 // native range to 8-bit
}

func (c *refConverter) ConvertRow(dst, dstPrev []byte, prev, cur, next []uint16, y int) {
	switch c.sub {
	case Sub444:
		c.convert444(dst, prev, cur, next, y)
	case Sub422:
		c.convert422(dst, prev, cur, next, y)
	default:
		c.convert420(dst, dstPrev, prev, cur, next, y)
	}
}

func (c *refConverter) convert444(dst []byte, prev, cur, next []uint16, y int) {
	for x := 0; x < c.width; x++ {
		yv, cb, cr := c.pixel(x, prev, cur, next, y)
		dst[3*x+0] = yv
		dst[3*x+1] = cb
		dst[3*x+2] = cr
	}
}

func (c *refConverter) convert422(dst []byte, prev, cur, next []uint16, y int) {
	for x := 0; x < c.width; x += 2 {
		y0, cb0, cr0 := c.pixel(x, prev, cur, next, y)
		x1 := x + 1
		if x1 >= c.width {
			x1 = x
		}
		y1, cb1, cr1 := c.pixel(x1, prev, cur, next, y)
		p := dst[2*x : 2*x+4]
		p[0] = y0
		p[1] = uint8((uint32(cb0) + uint32(cb1) + 1) >> 1)
		p[2] = y1
		p[3] = uint8((uint32(cr0) + uint32(cr1) + 1) >> 1)
	}
}

// convert420 computes chroma on even rows only; odd rows copy the
// chroma bytes already emitted for the row above and overwrite luma.
// The copy is exact, not an approximation: 420 chroma is defined as
// shared between the row pair.
func (c *refConverter) convert420(dst, dstPrev []byte, prev, cur, next []uint16, y int) {
	if y&1 == 0 || dstPrev == nil {
		c.convert422(dst, prev, cur, next, y)
		return
	}
	for x := 0; x < c.width; x += 2 {
		y0, _, _ := c.pixel(x, prev, cur, next, y)
		x1 := x + 1
		if x1 >= c.width {
			x1 = x
		}
		y1, _, _ := c.pixel(x1, prev, cur, next, y)
		p := dst[2*x : 2*x+4]
		q := dstPrev[2*x : 2*x+4]
		p[0] = y0
		p[1] = q[1]
		p[2] = y1
		p[3] = q[3]
	}
}

func (c *refConverter) pixel(x int, prev, cur, next []uint16, y int) (yv, cb, cr uint8) {
	r, g, b := c.rgbAt(x, prev, cur, next, y)
	r = clamp8f(r * c.gainR * c.scale)
	g = clamp8f(g * c.gainG * c.scale)
	b = clamp8f(b * c.gainB * c.scale)
	yf := (coefYR*r + coefYG*g + coefYB*b) / 256
	cbf := (coefCbR*r+coefCbG*g+coefCbB*b)/256 + 128
	crf := (coefCrR*r+coefCrG*g+coefCrB*b)/256 + 128
	yv = toneTable[round8(yf)]
	cb = round8(cbf)
	cr = round8(crf)
	return
}

func (c *refConverter) rgbAt(x int, prev, cur, next []uint16, y int) (r, g, b float64) {
	switch colorTable[c.pattern][y&1][x&1] {
	case cfaG:
		g = float64(cur[x])
		h := c.avgHorizontal(cur, x)
		v := avgVertical(prev, next, x)
		if redRow(c.pattern, y) {
			r, b = h, v
		} else {
			r, b = v, h
		}
	case cfaR:
		r = float64(cur[x])
		g = c.avgCross(prev, cur, next, x)
		b = c.avgDiagonal(prev, next, x)
	default:
		b = float64(cur[x])
		g = c.avgCross(prev, cur, next, x)
		r = c.avgDiagonal(prev, next, x)
	}
	return
}

// avgHorizontal averages the left and right neighbors, excluding any
// outside the row.
func (c *refConverter) avgHorizontal(cur []uint16, x int) float64 {
	var sum float64
	var n int
	if x > 0 {
		sum += float64(cur[x-1])
		n++
	}
	if x+1 < c.width {
		sum += float64(cur[x+1])
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// avgVertical averages the samples directly above and below, excluding
// missing rows.
func avgVertical(prev, next []uint16, x int) float64 {
	var sum float64
	var n int
	if prev != nil {
		sum += float64(prev[x])
		n++
	}
	if next != nil {
		sum += float64(next[x])
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// avgCross averages the four horizontally and vertically adjacent
// samples that exist.
func (c *refConverter) avgCross(prev, cur, next []uint16, x int) float64 {
	var sum float64
	var n int
	if x > 0 {
		sum += float64(cur[x-1])
		n++
	}
	if x+1 < c.width {
		sum += float64(cur[x+1])
		n++
	}
	if prev != nil {
		sum += float64(prev[x])
		n++
	}
	if next != nil {
		sum += float64(next[x])
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// avgDiagonal averages the up-to-four diagonal samples that exist.
func (c *refConverter) avgDiagonal(prev, next []uint16, x int) float64 {
	var sum float64
	var n int
	if prev != nil {
		if x > 0 {
			sum += float64(prev[x-1])
			n++
		}
		if x+1 < c.width {
			sum += float64(prev[x+1])
			n++
		}
	}
	if next != nil {
		if x > 0 {
			sum += float64(next[x-1])
			n++
		}
		if x+1 < c.width {
			sum += float64(next[x+1])
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func clamp8f(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func round8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
