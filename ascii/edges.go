package ascii

// sobel returns the Sobel gradients at interior pixel (x, y).
//
//	Gx = [-1 0 1; -2 0 2; -1 0 1]
//	Gy = [-1 -2 -1; 0 0 0; 1 2 1]
func sobel(gray []byte, w, x, y int) (gx, gy int) {
	at := func(dx, dy int) int { return int(gray[(y+dy)*w+x+dx]) }
	tl, t, tr := at(-1, -1), at(0, -1), at(1, -1)
	l, r := at(-1, 0), at(1, 0)
	bl, b, br := at(-1, 1), at(0, 1), at(1, 1)
	gx = -tl + tr - 2*l + 2*r - bl + br
	gy = -tl - 2*t - tr + bl + 2*b + br
	return gx, gy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ApplyEdgeDetection returns the Sobel edge magnitude, |gx|+|gy| capped at
// 255, for every pixel. The one-pixel border stays 0. Inputs smaller than
// 3x3 (or shorter than w*h) come back unmodified.
func ApplyEdgeDetection(gray []byte, w, h int) []byte {
	return ApplyEdgeDetectionInto(nil, gray, w, h)
}

// ApplyEdgeDetectionInto is ApplyEdgeDetection writing into dst.
func ApplyEdgeDetectionInto(dst, gray []byte, w, h int) []byte {
	if w < 3 || h < 3 || len(gray) < w*h {
		return append(dst[:0], gray...)
	}
	edges := resize(dst, len(gray))
	clear(edges)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx, gy := sobel(gray, w, x, y)
			edges[y*w+x] = byte(min(abs(gx)+abs(gy), 255))
		}
	}
	return edges
}

// Gradients returns the signed Sobel gx and gy of every pixel in a w x h
// image. Border pixels, and every pixel of an image smaller than 3x3, are 0.
// A buffer shorter than w*h yields nil slices.
func Gradients(gray []byte, w, h int) (gx, gy []int) {
	return GradientsInto(nil, nil, gray, w, h)
}

// GradientsInto is Gradients writing into gx and gy.
func GradientsInto(gx, gy []int, gray []byte, w, h int) ([]int, []int) {
	if w <= 0 || h <= 0 || len(gray) < w*h {
		return gx[:0], gy[:0]
	}
	gx = resize(gx, w*h)
	gy = resize(gy, w*h)
	clear(gx)
	clear(gy)
	if w < 3 || h < 3 {
		return gx, gy
	}
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx[y*w+x], gy[y*w+x] = sobel(gray, w, x, y)
		}
	}
	return gx, gy
}

// Direction is the dominant orientation of an edge.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionHorizontal
	DirectionVertical
	DirectionDiagonalDown // top-left to bottom-right, like '\'
	DirectionDiagonalUp   // bottom-left to top-right, like '/'
)

func (d Direction) String() string {
	switch d {
	case DirectionHorizontal:
		return "horizontal"
	case DirectionVertical:
		return "vertical"
	case DirectionDiagonalDown:
		return "diagonal-down"
	case DirectionDiagonalUp:
		return "diagonal-up"
	default:
		return "none"
	}
}

// gradientFloor is the gradient strength below which no direction is reported.
const gradientFloor = 30

// ClassifyGradient maps a gradient to an edge direction. A strong horizontal
// change (gx) is a vertical edge and vice versa; when neither component
// dominates by 2x the edge is diagonal, falling when gx and gy share a sign.
func ClassifyGradient(gx, gy float64) Direction {
	ax, ay := gx, gy
	if ax < 0 {
		ax = -ax
	}
	if ay < 0 {
		ay = -ay
	}
	switch {
	case ax < gradientFloor && ay < gradientFloor:
		return DirectionNone
	case ax > 2*ay:
		return DirectionVertical
	case ay > 2*ax:
		return DirectionHorizontal
	case (gx > 0) == (gy > 0):
		return DirectionDiagonalDown
	default:
		return DirectionDiagonalUp
	}
}

// CellStructure is the edge summary of one output cell.
type CellStructure struct {
	Direction Direction
	// Magnitude is the mean Sobel magnitude over the cell's interior pixels.
	Magnitude uint8
}

// AnalyzeStructure summarizes edges per output cell. Direction comes from
// the average gx and gy over every interior source pixel in the cell;
// cells with no interior pixels report DirectionNone.
func AnalyzeStructure(gray []byte, imgW, imgH, outW, outH int) []CellStructure {
	if degenerate(len(gray), imgW, imgH, outW, outH) {
		return nil
	}
	gx, gy := Gradients(gray, imgW, imgH)
	return AnalyzeStructureInto(nil, gx, gy, imgW, imgH, outW, outH)
}

// AnalyzeStructureInto is AnalyzeStructure over gradients already computed
// by Gradients, writing into dst. Gradients shorter than imgW*imgH leave
// every cell at DirectionNone.
func AnalyzeStructureInto(dst []CellStructure, gx, gy []int, imgW, imgH, outW, outH int) []CellStructure {
	if imgW <= 0 || imgH <= 0 || outW <= 0 || outH <= 0 {
		return dst[:0]
	}
	out := resize(dst, outW*outH)
	clear(out)
	if imgW < 3 || imgH < 3 || len(gx) < imgW*imgH || len(gy) < imgW*imgH {
		return out
	}
	cellW := float64(imgW) / float64(outW)
	cellH := float64(imgH) / float64(outH)

	for cy := 0; cy < outH; cy++ {
		y0, y1 := cellSpan(cy, cellH, imgH)
		y0, y1 = max(y0, 1), min(y1, imgH-1)
		for cx := 0; cx < outW; cx++ {
			x0, x1 := cellSpan(cx, cellW, imgW)
			x0, x1 = max(x0, 1), min(x1, imgW-1)

			var sx, sy, smag, count int
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					dx, dy := gx[y*imgW+x], gy[y*imgW+x]
					sx += dx
					sy += dy
					smag += min(abs(dx)+abs(dy), 255)
					count++
				}
			}
			if count == 0 {
				continue
			}
			out[cy*outW+cx] = CellStructure{
				Direction: ClassifyGradient(float64(sx)/float64(count), float64(sy)/float64(count)),
				Magnitude: uint8(smag / count),
			}
		}
	}
	return out
}
