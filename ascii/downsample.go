package ascii

import "github.com/phroun/camterm"

// cellSpan is the half-open source range [start, end) covered by one output
// cell along an axis. Cell sizes may differ by one pixel when the source
// does not divide evenly.
func cellSpan(index int, cellSize float64, limit int) (start, end int) {
	start = int(float64(index) * cellSize)
	end = int(float64(index+1) * cellSize)
	if end > limit {
		end = limit
	}
	return start, end
}

func degenerate(bufLen, imgW, imgH, outW, outH int) bool {
	return bufLen == 0 || imgW <= 0 || imgH <= 0 || outW <= 0 || outH <= 0
}

// Downsample averages gray (imgW x imgH) into an outW x outH brightness grid.
// A cell with no contributing samples yields 0.
func Downsample(gray []byte, imgW, imgH, outW, outH int) []byte {
	return DownsampleInto(nil, gray, imgW, imgH, outW, outH)
}

// DownsampleInto is Downsample writing into dst.
func DownsampleInto(dst, gray []byte, imgW, imgH, outW, outH int) []byte {
	if degenerate(len(gray), imgW, imgH, outW, outH) {
		return dst[:0]
	}
	dst = resize(dst, outW*outH)
	cellW := float64(imgW) / float64(outW)
	cellH := float64(imgH) / float64(outH)

	for cy := 0; cy < outH; cy++ {
		y0, y1 := cellSpan(cy, cellH, imgH)
		for cx := 0; cx < outW; cx++ {
			x0, x1 := cellSpan(cx, cellW, imgW)
			var sum, count uint32
			for y := y0; y < y1; y++ {
				row := y * imgW
				for x := x0; x < x1; x++ {
					if idx := row + x; idx < len(gray) {
						sum += uint32(gray[idx])
						count++
					}
				}
			}
			var v byte
			if count > 0 {
				v = byte(sum / count)
			}
			dst[cy*outW+cx] = v
		}
	}
	return dst
}

// DownsampleColors averages interleaved RGB into one color per output cell,
// using the same cell partition as Downsample.
func DownsampleColors(rgb []byte, imgW, imgH, outW, outH int) []camterm.Color {
	return DownsampleColorsInto(nil, rgb, imgW, imgH, outW, outH)
}

// DownsampleColorsInto is DownsampleColors writing into dst.
func DownsampleColorsInto(dst []camterm.Color, rgb []byte, imgW, imgH, outW, outH int) []camterm.Color {
	if degenerate(len(rgb), imgW, imgH, outW, outH) {
		return dst[:0]
	}
	dst = resize(dst, outW*outH)
	cellW := float64(imgW) / float64(outW)
	cellH := float64(imgH) / float64(outH)

	for cy := 0; cy < outH; cy++ {
		y0, y1 := cellSpan(cy, cellH, imgH)
		for cx := 0; cx < outW; cx++ {
			x0, x1 := cellSpan(cx, cellW, imgW)
			var r, g, b, count uint32
			for y := y0; y < y1; y++ {
				row := y * imgW
				for x := x0; x < x1; x++ {
					idx := (row + x) * 3
					if idx+2 < len(rgb) {
						r += uint32(rgb[idx])
						g += uint32(rgb[idx+1])
						b += uint32(rgb[idx+2])
						count++
					}
				}
			}
			var c camterm.Color
			if count > 0 {
				c = camterm.TrueColor(uint8(r/count), uint8(g/count), uint8(b/count))
			}
			dst[cy*outW+cx] = c
		}
	}
	return dst
}

// DownsampleContrast downsamples and then stretches each cell around mid
// gray by factor. A factor of 1 is plain Downsample.
func DownsampleContrast(gray []byte, imgW, imgH, outW, outH int, factor float64) []byte {
	return DownsampleContrastInto(nil, gray, imgW, imgH, outW, outH, factor)
}

// DownsampleContrastInto is DownsampleContrast writing into dst.
func DownsampleContrastInto(dst, gray []byte, imgW, imgH, outW, outH int, factor float64) []byte {
	dst = DownsampleInto(dst, gray, imgW, imgH, outW, outH)
	stretchContrast(dst, factor)
	return dst
}

// stretchContrast scales values away from mid gray in place. Factors of 1
// or below zero leave b untouched.
func stretchContrast(b []byte, factor float64) {
	if factor == 1 || factor < 0 {
		return
	}
	for i, v := range b {
		b[i] = clampByte(int((float64(v)-128)*factor + 128.5))
	}
}

// DownsampleEdgePreserve downsamples while pulling each cell toward whichever
// of its darkest or brightest sample lies farther from the mean. weight is
// clamped to [0, 1]; 0 is plain averaging, 1 picks the extreme outright.
// Thin high-contrast features survive that plain averaging would wash out.
func DownsampleEdgePreserve(gray []byte, imgW, imgH, outW, outH int, weight float64) []byte {
	return DownsampleEdgePreserveInto(nil, gray, imgW, imgH, outW, outH, weight)
}

// DownsampleEdgePreserveInto is DownsampleEdgePreserve writing into dst.
func DownsampleEdgePreserveInto(dst, gray []byte, imgW, imgH, outW, outH int, weight float64) []byte {
	if degenerate(len(gray), imgW, imgH, outW, outH) {
		return dst[:0]
	}
	weight = min(max(weight, 0), 1)
	out := resize(dst, outW*outH)
	cellW := float64(imgW) / float64(outW)
	cellH := float64(imgH) / float64(outH)

	for cy := 0; cy < outH; cy++ {
		y0, y1 := cellSpan(cy, cellH, imgH)
		for cx := 0; cx < outW; cx++ {
			x0, x1 := cellSpan(cx, cellW, imgW)
			var sum, count uint32
			lo, hi := byte(255), byte(0)
			for y := y0; y < y1; y++ {
				row := y * imgW
				for x := x0; x < x1; x++ {
					idx := row + x
					if idx >= len(gray) {
						continue
					}
					v := gray[idx]
					sum += uint32(v)
					count++
					lo = min(lo, v)
					hi = max(hi, v)
				}
			}
			if count == 0 {
				out[cy*outW+cx] = 0
				continue
			}
			mean := float64(sum) / float64(count)
			extreme := float64(lo)
			if float64(hi)-mean > mean-float64(lo) {
				extreme = float64(hi)
			}
			out[cy*outW+cx] = clampByte(int(mean + (extreme-mean)*weight))
		}
	}
	return out
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
