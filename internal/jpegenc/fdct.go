package jpegenc

// Scaled integer constants for the forward DCT, 13 bits of fractional
// precision (value * 1<<13, rounded).
const (
	fix_0_298631336 = 2446
	fix_0_390180644 = 3196
	fix_0_541196100 = 4433
	fix_0_765366865 = 6270
	fix_0_899976223 = 7373
	fix_1_175875602 = 9633
	fix_1_501321110 = 12299
	fix_1_847759065 = 15137
	fix_1_961570560 = 16069
	fix_2_053119869 = 16819
	fix_2_562915447 = 20995
	fix_3_072711026 = 25172
)

const (
	constBits     = 13
	pass1Bits     = 2
	centerJSample = 128
)

// fdct performs a forward DCT on an 8x8 block, including the level
// shift from unsigned samples. Output coefficients are scaled by 8.
func fdct(b *block) {
	// Pass 1: process rows.
	for y := 0; y < 8; y++ {
		y8 := y * 8
		s0 := b[y8+0]
		s1 := b[y8+1]
		s2 := b[y8+2]
		s3 := b[y8+3]
		s4 := b[y8+4]
		s5 := b[y8+5]
		s6 := b[y8+6]
		s7 := b[y8+7]

		// Even part.
		t0 := s0 + s7
		t1 := s1 + s6
		t2 := s2 + s5
		t3 := s3 + s4

		t10 := t0 + t3
		t12 := t0 - t3
		t11 := t1 + t2
		t13 := t1 - t2

		t0 = s0 - s7
		t1 = s1 - s6
		t2 = s2 - s5
		t3 = s3 - s4

		b[y8+0] = (t10 + t11 - 8*centerJSample) << pass1Bits
		b[y8+4] = (t10 - t11) << pass1Bits
		z1 := (t12 + t13) * fix_0_541196100
		z1 += 1 << (constBits - pass1Bits - 1)
		b[y8+2] = (z1 + t12*fix_0_765366865) >> (constBits - pass1Bits)
		b[y8+6] = (z1 - t13*fix_1_847759065) >> (constBits - pass1Bits)

		// Odd part.
		t12 = t0 + t2
		t13 = t1 + t3
		z1 = (t12 + t13) * fix_1_175875602
		z1 += 1 << (constBits - pass1Bits - 1)
		t12 = t12 * (-fix_0_390180644)
		t13 = t13 * (-fix_1_961570560)
		t12 += z1
		t13 += z1

		z2 := (t0 + t3) * (-fix_0_899976223)
		z3 := (t1 + t2) * (-fix_2_562915447)

		t0 = t0 * fix_1_501321110
		t1 = t1 * fix_3_072711026
		t2 = t2 * fix_2_053119869
		t3 = t3 * fix_0_298631336

		b[y8+1] = (t0 + z2 + t12) >> (constBits - pass1Bits)
		b[y8+3] = (t1 + z3 + t13) >> (constBits - pass1Bits)
		b[y8+5] = (t2 + z3 + t12) >> (constBits - pass1Bits)
		b[y8+7] = (t3 + z2 + t13) >> (constBits - pass1Bits)
	}
	// Pass 2: process columns, removing the extra pass-1 scaling.
	for x := 0; x < 8; x++ {
		s0 := b[0*8+x]
		s1 := b[1*8+x]
		s2 := b[2*8+x]
		s3 := b[3*8+x]
		s4 := b[4*8+x]
		s5 := b[5*8+x]
		s6 := b[6*8+x]
		s7 := b[7*8+x]

		// Even part.
		t0 := s0 + s7
		t1 := s1 + s6
		t2 := s2 + s5
		t3 := s3 + s4

		t10 := t0 + t3 + 1<<(pass1Bits-1)
		t12 := t0 - t3
		t11 := t1 + t2
		t13 := t1 - t2

		t0 = s0 - s7
		t1 = s1 - s6
		t2 = s2 - s5
		t3 = s3 - s4

		b[0*8+x] = (t10 + t11) >> pass1Bits
		b[4*8+x] = (t10 - t11) >> pass1Bits

		z1 := (t12 + t13) * fix_0_541196100
		z1 += 1 << (constBits + pass1Bits - 1)
		b[2*8+x] = (z1 + t12*fix_0_765366865) >> (constBits + pass1Bits)
		b[6*8+x] = (z1 - t13*fix_1_847759065) >> (constBits + pass1Bits)

		// Odd part.
		t12 = t0 + t2
		t13 = t1 + t3
		z1 = (t12 + t13) * fix_1_175875602
		z1 += 1 << (constBits + pass1Bits - 1)
		t12 = t12 * (-fix_0_390180644)
		t13 = t13 * (-fix_1_961570560)
		t12 += z1
		t13 += z1

		z2 := (t0 + t3) * (-fix_0_899976223)
		z3 := (t1 + t2) * (-fix_2_562915447)

		t0 = t0 * fix_1_501321110
		t1 = t1 * fix_3_072711026
		t2 = t2 * fix_2_053119869
		t3 = t3 * fix_0_298631336

		b[1*8+x] = (t0 + z2 + t12) >> (constBits + pass1Bits)
		b[3*8+x] = (t1 + z3 + t13) >> (constBits + pass1Bits)
		b[5*8+x] = (t2 + z3 + t12) >> (constBits + pass1Bits)
		b[7*8+x] = (t3 + z2 + t13) >> (constBits + pass1Bits)
	}
}
