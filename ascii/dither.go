package ascii

// levelValue is the brightness a ramp level reconstructs to.
func levelValue(idx, levels int) int {
	if levels < 2 {
		return 0
	}
	return idx * 255 / (levels - 1)
}

// nearestLevel quantizes v (0-255) to the closest ramp level.
func nearestLevel(v, levels int) int {
	if levels < 2 {
		return 0
	}
	idx := (v*(levels-1) + 127) / 255
	return min(max(idx, 0), levels-1)
}

// MapDithered maps a width x height brightness grid using Floyd-Steinberg
// error diffusion. Cells are visited in raster order and each quantization
// error is pushed right (7/16), below-left (3/16), below (5/16) and
// below-right (1/16). The result is deterministic for identical input.
func MapDithered(brightness []byte, width, height int, ramp []rune, invert, gamma bool) []rune {
	out, _ := MapDitheredInto(nil, nil, brightness, width, height, ramp, invert, gamma)
	return out
}

// MapDitheredInto is MapDithered writing glyphs into dst and using work as
// the error accumulator. Both buffers are returned for reuse.
func MapDitheredInto(dst []rune, work []int, brightness []byte, width, height int, ramp []rune, invert, gamma bool) ([]rune, []int) {
	n := width * height
	if width <= 0 || height <= 0 || len(brightness) < n {
		return MapToCharsGammaInto(dst, brightness, ramp, invert, gamma), work
	}
	out := resize(dst, n)
	levels := len(ramp)
	if levels == 0 {
		for i := range out {
			out[i] = ' '
		}
		return out, work
	}

	work = resize(work, n)
	for i := 0; i < n; i++ {
		work[i] = int(adjust(brightness[i], invert, gamma))
	}

	spread := func(x, y, err, weight int) {
		if x < 0 || x >= width || y >= height {
			return
		}
		work[y*width+x] += err * weight / 16
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			v := min(max(work[i], 0), 255)
			idx := nearestLevel(v, levels)
			out[i] = ramp[idx]

			err := v - levelValue(idx, levels)
			spread(x+1, y, err, 7)
			spread(x-1, y+1, err, 3)
			spread(x, y+1, err, 5)
			spread(x+1, y+1, err, 1)
		}
	}
	return out, work
}

// bayer4 is the 4x4 ordered dither threshold matrix.
var bayer4 = [4][4]int{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// MapOrderedDither maps a row-major brightness grid of the given width using
// a 4x4 Bayer pattern: each cell gets a fixed offset centered on the matrix
// midpoint and scaled to one ramp step before flat quantization. There is no
// error propagation, so cells are independent.
func MapOrderedDither(brightness []byte, width int, ramp []rune, invert, gamma bool) []rune {
	return MapOrderedDitherInto(nil, brightness, width, ramp, invert, gamma)
}

// MapOrderedDitherInto is MapOrderedDither writing into dst.
func MapOrderedDitherInto(dst []rune, brightness []byte, width int, ramp []rune, invert, gamma bool) []rune {
	out := resize(dst, len(brightness))
	levels := len(ramp)
	if levels == 0 || width <= 0 {
		for i := range out {
			out[i] = ' '
		}
		return out
	}
	step := 255.0 / float64(levels)

	for i, b := range brightness {
		x, y := i%width, i/width
		offset := (float64(bayer4[y%4][x%4]) - 7.5) / 16 * step
		v := clampByte(int(float64(adjust(b, invert, gamma)) + offset))
		out[i] = ramp[rampIndex(v, levels)]
	}
	return out
}
