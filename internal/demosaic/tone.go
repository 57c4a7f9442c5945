package demosaic

import "math"

// toneTable is the luma tone-reproduction curve: a mild gamma lift
// combined with a contrast expansion around the mid-gray pivot. Both
// the reference and the fast path index the same table, so the curve
// itself never contributes to their divergence.
var toneTable = buildToneTable()

func buildToneTable() (t [256]uint8) {
	const (
		gamma    = 1.0 / 1.1
		contrast = 1.08
		pivot    = 128.0
	)
	for i := range t {
		g := 255 * math.Pow(float64(i)/255, gamma)
		v := pivot + (g-pivot)*contrast
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		t[i] = uint8(v + 0.5)
	}
	return t
}

// Tone returns the tone-mapped value for an 8-bit luma sample.
func Tone(v uint8) uint8 { return toneTable[v] }
