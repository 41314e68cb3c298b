package ascii

// BrailleBase is the empty braille pattern, U+2800.
const BrailleBase = '\u2800'

// brailleBits maps dot (column, row) to its bit in the braille code point.
var brailleBits = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// BrailleChar encodes a 2-wide by 4-tall dot grid, indexed [column][row].
func BrailleChar(dots [2][4]bool) rune {
	code := rune(0)
	for x := 0; x < 2; x++ {
		for y := 0; y < 4; y++ {
			if dots[x][y] {
				code |= brailleBits[x][y]
			}
		}
	}
	return BrailleBase + code
}

// RenderBraille renders gray (imgW x imgH) as charW x charH braille cells.
// Each cell samples a 2x4 block of sub-pixels from the scaled source; a dot
// is raised when the (optionally inverted) brightness is at least threshold.
func RenderBraille(gray []byte, imgW, imgH, charW, charH int, threshold byte, invert bool) []rune {
	return RenderBrailleInto(nil, gray, imgW, imgH, charW, charH, threshold, invert)
}

// RenderBrailleInto is RenderBraille writing into dst.
func RenderBrailleInto(dst []rune, gray []byte, imgW, imgH, charW, charH int, threshold byte, invert bool) []rune {
	if degenerate(len(gray), imgW, imgH, charW, charH) {
		return dst[:0]
	}
	dst = resize(dst, charW*charH)
	scaleX := float64(imgW) / float64(charW*2)
	scaleY := float64(imgH) / float64(charH*4)

	for cy := 0; cy < charH; cy++ {
		for cx := 0; cx < charW; cx++ {
			var dots [2][4]bool
			for dy := 0; dy < 4; dy++ {
				srcY := int(float64(cy*4+dy) * scaleY)
				if srcY >= imgH {
					continue
				}
				for dx := 0; dx < 2; dx++ {
					srcX := int(float64(cx*2+dx) * scaleX)
					idx := srcY*imgW + srcX
					if srcX >= imgW || idx >= len(gray) {
						continue
					}
					b := gray[idx]
					if invert {
						b = 255 - b
					}
					dots[dx][dy] = b >= threshold
				}
			}
			dst[cy*charW+cx] = BrailleChar(dots)
		}
	}
	return dst
}
