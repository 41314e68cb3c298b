package ascii

import "strings"

// Character ramps ordered from darkest to brightest.
var (
	StandardRamp = []rune{' ', '.', ':', '-', '=', '+', '*', '#', '%', '@'}
	BlocksRamp   = []rune{' ', '░', '▒', '▓', '█'}
	MinimalRamp  = []rune{' ', '.', ':', '#'}
)

// Charset selects how brightness becomes glyphs.
type Charset int

const (
	CharsetStandard Charset = iota // 10-level ASCII density ramp
	CharsetBlocks                  // Unicode shade blocks
	CharsetMinimal                 // 4-level clean look
	CharsetBraille                 // 2x4 sub-pixel braille patterns
)

var charsetNames = [...]string{
	CharsetStandard: "standard",
	CharsetBlocks:   "blocks",
	CharsetMinimal:  "minimal",
	CharsetBraille:  "braille",
}

// StaticRamp returns the charset's ramp. Braille has no ramp and reports
// false; it is rendered by RenderBraille instead.
func (c Charset) StaticRamp() ([]rune, bool) {
	switch c {
	case CharsetStandard:
		return StandardRamp, true
	case CharsetBlocks:
		return BlocksRamp, true
	case CharsetMinimal:
		return MinimalRamp, true
	default:
		return nil, false
	}
}

// IsBraille reports whether c takes the braille path.
func (c Charset) IsBraille() bool {
	return c == CharsetBraille
}

// Next returns the charset after c in the cycle standard, blocks, minimal, braille.
func (c Charset) Next() Charset {
	return (c + 1) % Charset(len(charsetNames))
}

func (c Charset) String() string {
	if c < 0 || int(c) >= len(charsetNames) {
		return "unknown"
	}
	return charsetNames[c]
}

// ParseCharset parses a charset name case-insensitively.
func ParseCharset(name string) (Charset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range charsetNames {
		if n == name {
			return Charset(i), true
		}
	}
	return CharsetStandard, false
}
