//go:build purego

package pixel

// useFast indicates the packed dual-lane path is not available
const useFast = false

func subtractBlackPacked(row []uint16, level uint16) {
	subtractBlackScalar(row, level)
}
