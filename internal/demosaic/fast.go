package demosaic

// fastConverter is the integer fixed-point path: Q8 white-balance
// gains, shift-based normalization, and integer YCbCr coefficients.
// Row interiors run a kernel with fixed divisors and no bounds checks;
// the first and last two samples of a row, and any row missing a
// vertical neighbor, fall back to the count-based edge kernel, which
// matches the reference exactly at image borders.
type fastConverter struct {
	width               int
	pattern             Pattern
	sub                 Subsampling
	gainR, gainG, gainB uint32 // Q8
	shift               uint   // native range to 8-bit
}

func (c *fastConverter) ConvertRow(dst, dstPrev []byte, prev, cur, next []uint16, y int) {
	switch c.sub {
	case Sub444:
		c.convert444(dst, prev, cur, next, y)
	case Sub422:
		c.convert422(dst, prev, cur, next, y)
	default:
		c.convert420(dst, dstPrev, prev, cur, next, y)
	}
}

func (c *fastConverter) convert444(dst []byte, prev, cur, next []uint16, y int) {
	x := 0
	if prev != nil && next != nil {
		for ; x < 2 && x < c.width; x++ {
			c.emit444(dst, x, prev, cur, next, y, false)
		}
		for ; x < c.width-2; x++ {
			c.emit444(dst, x, prev, cur, next, y, true)
		}
	}
	for ; x < c.width; x++ {
		c.emit444(dst, x, prev, cur, next, y, false)
	}
}

func (c *fastConverter) emit444(dst []byte, x int, prev, cur, next []uint16, y int, interior bool) {
	yv, cb, cr := c.pixel(x, prev, cur, next, y, interior)
	dst[3*x+0] = yv
	dst[3*x+1] = cb
	dst[3*x+2] = cr
}

func (c *fastConverter) convert422(dst []byte, prev, cur, next []uint16, y int) {
	for x := 0; x < c.width; x += 2 {
		y0, cb0, cr0 := c.pixelAt(x, prev, cur, next, y)
		x1 := x + 1
		if x1 >= c.width {
			x1 = x
		}
		y1, cb1, cr1 := c.pixelAt(x1, prev, cur, next, y)
		p := dst[2*x : 2*x+4]
		p[0] = y0
		p[1] = uint8((uint32(cb0) + uint32(cb1) + 1) >> 1)
		p[2] = y1
		p[3] = uint8((uint32(cr0) + uint32(cr1) + 1) >> 1)
	}
}

func (c *fastConverter) convert420(dst, dstPrev []byte, prev, cur, next []uint16, y int) {
	if y&1 == 0 || dstPrev == nil {
		c.convert422(dst, prev, cur, next, y)
		return
	}
	for x := 0; x < c.width; x += 2 {
		y0, _, _ := c.pixelAt(x, prev, cur, next, y)
		x1 := x + 1
		if x1 >= c.width {
			x1 = x
		}
		y1, _, _ := c.pixelAt(x1, prev, cur, next, y)
		p := dst[2*x : 2*x+4]
		q := dstPrev[2*x : 2*x+4]
		p[0] = y0
		p[1] = q[1]
		p[2] = y1
		p[3] = q[3]
	}
}

// pixelAt selects the interior or edge kernel for one pixel.
func (c *fastConverter) pixelAt(x int, prev, cur, next []uint16, y int) (yv, cb, cr uint8) {
	interior := prev != nil && next != nil && x >= 2 && x < c.width-2
	return c.pixel(x, prev, cur, next, y, interior)
}

func (c *fastConverter) pixel(x int, prev, cur, next []uint16, y int, interior bool) (yv, cb, cr uint8) {
	var r, g, b uint32
	if interior {
		r, g, b = c.rgbInterior(x, prev, cur, next, y)
	} else {
		r, g, b = c.rgbEdge(x, prev, cur, next, y)
	}
	rr := c.scale8(r, c.gainR)
	gg := c.scale8(g, c.gainG)
	bb := c.scale8(b, c.gainB)
	yi := (coefYR*rr + coefYG*gg + coefYB*bb + 128) >> 8
	cbi := ((coefCbR*rr+coefCbG*gg+coefCbB*bb+128)>>8 + 128)
	cri := ((coefCrR*rr+coefCrG*gg+coefCrB*bb+128)>>8 + 128)
	yv = toneTable[clamp8i(yi)]
	cb = clamp8i(cbi)
	cr = clamp8i(cri)
	return
}

// scale8 applies a Q8 gain and the normalization shift in one rounded
// step, clamping to the 8-bit range.
func (c *fastConverter) scale8(v, gain uint32) int32 {
	s := (v*gain + 1<<(7+c.shift)) >> (8 + c.shift)
	if s > 255 {
		s = 255
	}
	return int32(s)
}

// rgbInterior assumes both vertical neighbors and both horizontal
// neighbors are present, so the divisors are fixed.
func (c *fastConverter) rgbInterior(x int, prev, cur, next []uint16, y int) (r, g, b uint32) {
	switch colorTable[c.pattern][y&1][x&1] {
	case cfaG:
		g = uint32(cur[x])
		h := (uint32(cur[x-1]) + uint32(cur[x+1]) + 1) >> 1
		v := (uint32(prev[x]) + uint32(next[x]) + 1) >> 1
		if redRow(c.pattern, y) {
			r, b = h, v
		} else {
			r, b = v, h
		}
	case cfaR:
		r = uint32(cur[x])
		g = (uint32(cur[x-1]) + uint32(cur[x+1]) + uint32(prev[x]) + uint32(next[x]) + 2) >> 2
		b = (uint32(prev[x-1]) + uint32(prev[x+1]) + uint32(next[x-1]) + uint32(next[x+1]) + 2) >> 2
	default:
		b = uint32(cur[x])
		g = (uint32(cur[x-1]) + uint32(cur[x+1]) + uint32(prev[x]) + uint32(next[x]) + 2) >> 2
		r = (uint32(prev[x-1]) + uint32(prev[x+1]) + uint32(next[x-1]) + uint32(next[x+1]) + 2) >> 2
	}
	return
}

// rgbEdge divides by the actual neighbor count, mirroring the
// reference path.
func (c *fastConverter) rgbEdge(x int, prev, cur, next []uint16, y int) (r, g, b uint32) {
	switch colorTable[c.pattern][y&1][x&1] {
	case cfaG:
		g = uint32(cur[x])
		h := c.meanHorizontal(cur, x)
		v := meanVertical(prev, next, x)
		if redRow(c.pattern, y) {
			r, b = h, v
		} else {
			r, b = v, h
		}
	case cfaR:
		r = uint32(cur[x])
		g = c.meanCross(prev, cur, next, x)
		b = c.meanDiagonal(prev, next, x)
	default:
		b = uint32(cur[x])
		g = c.meanCross(prev, cur, next, x)
		r = c.meanDiagonal(prev, next, x)
	}
	return
}

func (c *fastConverter) meanHorizontal(cur []uint16, x int) uint32 {
	var sum, n uint32
	if x > 0 {
		sum += uint32(cur[x-1])
		n++
	}
	if x+1 < c.width {
		sum += uint32(cur[x+1])
		n++
	}
	if n == 0 {
		return 0
	}
	return (sum + n/2) / n
}

func meanVertical(prev, next []uint16, x int) uint32 {
	var sum, n uint32
	if prev != nil {
		sum += uint32(prev[x])
		n++
	}
	if next != nil {
		sum += uint32(next[x])
		n++
	}
	if n == 0 {
		return 0
	}
	return (sum + n/2) / n
}

func (c *fastConverter) meanCross(prev, cur, next []uint16, x int) uint32 {
	var sum, n uint32
	if x > 0 {
		sum += uint32(cur[x-1])
		n++
	}
	if x+1 < c.width {
		sum += uint32(cur[x+1])
		n++
	}
	if prev != nil {
		sum += uint32(prev[x])
		n++
	}
	if next != nil {
		sum += uint32(next[x])
		n++
	}
	if n == 0 {
		return 0
	}
	return (sum + n/2) / n
}

func (c *fastConverter) meanDiagonal(prev, next []uint16, x int) uint32 {
	var sum, n uint32
	if prev != nil {
		if x > 0 {
			sum += uint32(prev[x-1])
			n++
		}
		if x+1 < c.width {
			sum += uint32(prev[x+1])
			n++
		}
	}
	if next != nil {
		if x > 0 {
			sum += uint32(next[x-1])
			n++
		}
		if x+1 < c.width {
			sum += uint32(next[x+1])
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return (sum + n/2) / n
}

func clamp8i(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
