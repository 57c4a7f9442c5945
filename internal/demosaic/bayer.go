package demosaic

// Pattern is the 2x2 repeating color filter arrangement of the sensor.
type Pattern int

const (
	// RGGB has red at (0,0), green at (1,0) and (0,1), blue at (1,1).
	RGGB Pattern = iota
	// BGGR has blue at (0,0) and red at (1,1).
	BGGR
	// GRBG has green at (0,0) with red to its right.
	GRBG
	// GBRG has green at (0,0) with blue to its right.
	GBRG
)

// String returns the string representation of the pattern.
func (p Pattern) String() string {
	switch p {
	case RGGB:
		return "RGGB"
	case BGGR:
		return "BGGR"
	case GRBG:
		return "GRBG"
	case GBRG:
		return "GBRG"
	default:
		return "Unknown"
	}
}

// cfaColor identifies the mosaic color captured at one pixel site.
type cfaColor uint8

const (
	cfaR cfaColor = iota
	cfaG
	cfaB
)

// colorTable maps [pattern][row parity][column parity] to the mosaic
// color at that site.
var colorTable = [4][2][2]cfaColor{
	RGGB: {{cfaR, cfaG}, {cfaG, cfaB}},
	BGGR: {{cfaB, cfaG}, {cfaG, cfaR}},
	GRBG: {{cfaG, cfaR}, {cfaB, cfaG}},
	GBRG: {{cfaG, cfaB}, {cfaR, cfaG}},
}

// ColorAt returns the mosaic color of pattern p at pixel (x, y).
func ColorAt(p Pattern, x, y int) uint8 {
	return uint8(colorTable[p][y&1][x&1])
}

// Mosaic color codes returned by ColorAt.
const (
	ColorR = uint8(cfaR)
	ColorG = uint8(cfaG)
	ColorB = uint8(cfaB)
)

// redRow reports whether the row with parity ry carries red samples.
// Green pixels on a red row take their horizontal neighbors as red and
// their vertical neighbors as blue; blue rows are the reverse.
func redRow(p Pattern, ry int) bool {
	return colorTable[p][ry&1][0] == cfaR || colorTable[p][ry&1][1] == cfaR
}
