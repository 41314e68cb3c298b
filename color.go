// Package camterm holds the primitives shared by the camera overlay packages.
//
// This package contains:
//   - Color, the per-cell true color used by the glyph pipeline and compositor
//   - PTY interfaces and the Unix pseudo-terminal implementation
//   - Shell process spawning with a non-blocking exit check
//   - Host terminal capability detection
//
// The image pipeline lives in package ascii, frame acquisition in capture,
// the screen compositor in overlay and the interactive session in cli.
package camterm

// Color is a 24-bit color averaged over one output cell.
type Color struct {
	R, G, B uint8
}

// TrueColor creates a 24-bit true color
func TrueColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Sum returns R+G+B, the overlay's measure of how much a cell stands out.
func (c Color) Sum() int {
	return int(c.R) + int(c.G) + int(c.B)
}

// FgSGR returns the SGR parameters that set this color as the foreground.
func (c Color) FgSGR() string {
	return "38;2;" + itoa(int(c.R)) + ";" + itoa(int(c.G)) + ";" + itoa(int(c.B))
}

// itoa is a simple non-negative int to string conversion
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}
