package ascii

import "math"

// Gamma is the display gamma the correction table compensates for.
const Gamma = 2.2

// gammaTable maps brightness through (v/255)^(1/Gamma)*255, rounded.
var gammaTable = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = byte(math.Round(math.Pow(float64(i)/255, 1/Gamma) * 255))
	}
	return t
}()

// GammaCorrect applies the gamma table to one brightness value.
func GammaCorrect(b byte) byte {
	return gammaTable[b]
}

// adjust applies inversion and then optional gamma correction.
func adjust(b byte, invert, gamma bool) byte {
	if invert {
		b = 255 - b
	}
	if gamma {
		b = gammaTable[b]
	}
	return b
}

// rampIndex quantizes b onto a ramp of the given number of levels.
func rampIndex(b byte, levels int) int {
	return int(b) * (levels - 1) / 255
}

// MapToChars maps each brightness value to a glyph on ramp (darkest first).
// With invert set, bright input picks dark glyphs. An empty ramp yields spaces.
func MapToChars(brightness []byte, ramp []rune, invert bool) []rune {
	return MapToCharsGammaInto(nil, brightness, ramp, invert, false)
}

// MapToCharsInto is MapToChars writing into dst.
func MapToCharsInto(dst []rune, brightness []byte, ramp []rune, invert bool) []rune {
	return MapToCharsGammaInto(dst, brightness, ramp, invert, false)
}

// MapToCharsGamma is MapToChars with optional gamma correction, which lifts
// shadow detail in photographic content.
func MapToCharsGamma(brightness []byte, ramp []rune, invert, gamma bool) []rune {
	return MapToCharsGammaInto(nil, brightness, ramp, invert, gamma)
}

// MapToCharsGammaInto is MapToCharsGamma writing into dst.
func MapToCharsGammaInto(dst []rune, brightness []byte, ramp []rune, invert, gamma bool) []rune {
	dst = resize(dst, len(brightness))
	if len(ramp) == 0 {
		for i := range dst {
			dst[i] = ' '
		}
		return dst
	}
	for i, b := range brightness {
		dst[i] = ramp[rampIndex(adjust(b, invert, gamma), len(ramp))]
	}
	return dst
}
