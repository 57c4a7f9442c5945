//go:build !purego

package pixel

// useFast indicates the packed dual-lane path is available
const useFast = true

// subtractBlackPacked subtracts level from two samples per step using
// dual 16-bit lanes in a uint32. Setting the top bit of each lane
// before the subtraction prevents borrows from crossing lanes; the
// surviving top bit then marks lanes that did not underflow.
//
// Requires every sample below 0x8000, which holds for all unpacked
// formats (at most 12 significant bits).
func subtractBlackPacked(row []uint16, level uint16) {
	const hi = 0x80008000
	bb := uint32(level)<<16 | uint32(level)
	n := len(row) &^ 1
	for i := 0; i < n; i += 2 {
		x := uint32(row[i]) | uint32(row[i+1])<<16
		t := (x | hi) - bb
		keep := ((t & hi) >> 15) * 0xFFFF
		t = (t &^ hi) & keep
		row[i] = uint16(t)
		row[i+1] = uint16(t >> 16)
	}
	if n < len(row) {
		if v := row[n]; v > level {
			row[n] = v - level
		} else {
			row[n] = 0
		}
	}
}
