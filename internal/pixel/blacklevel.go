package pixel

// SubtractBlack subtracts level from every sample in row, flooring at
// zero. A zero level leaves the row untouched.
func SubtractBlack(row []uint16, level uint16) {
	if level == 0 {
		return
	}
	if useFast && level < 0x8000 {
		subtractBlackPacked(row, level)
		return
	}
	subtractBlackScalar(row, level)
}

// subtractBlackScalar is the portable per-sample loop and the source of
// truth for the packed variant.
func subtractBlackScalar(row []uint16, level uint16) {
	for i, v := range row {
		if v > level {
			row[i] = v - level
		} else {
			row[i] = 0
		}
	}
}
