package ascii

import "math"

// DefaultCharAspect is the height/width ratio of a terminal character cell.
const DefaultCharAspect = 2.0

// CalculateDimensions fits an imgW x imgH image into at most maxW x maxH
// character cells, keeping its aspect ratio with DefaultCharAspect.
func CalculateDimensions(imgW, imgH, maxW, maxH int) (w, h int) {
	return CalculateDimensionsWithAspect(imgW, imgH, maxW, maxH, DefaultCharAspect)
}

// CalculateDimensionsWithAspect is CalculateDimensions for a given character
// aspect ratio. It tries the full width first and falls back to the full
// height when the resulting height would not fit. Zero input yields (0, 0).
func CalculateDimensionsWithAspect(imgW, imgH, maxW, maxH int, charAspect float64) (w, h int) {
	if imgW <= 0 || imgH <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	target := float64(imgW) / float64(imgH) * charAspect

	w = maxW
	h = int(math.Round(float64(w) / target))
	if h > 0 && h <= maxH {
		return w, h
	}

	h = maxH
	w = min(int(math.Round(float64(h)*target)), maxW)
	return max(w, 1), max(h, 1)
}
