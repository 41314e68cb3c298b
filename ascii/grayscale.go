package ascii

// Luminance returns the BT.601 brightness of one pixel using integer weights
// scaled by 1000.
func Luminance(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b)) / 1000)
}

// ToGrayscale converts interleaved RGB bytes to one brightness byte per
// pixel. A trailing partial pixel is ignored.
func ToGrayscale(rgb []byte) []byte {
	return ToGrayscaleInto(nil, rgb)
}

// ToGrayscaleInto is ToGrayscale writing into dst.
func ToGrayscaleInto(dst, rgb []byte) []byte {
	n := len(rgb) / 3
	dst = resize(dst, n)
	for i := 0; i < n; i++ {
		p := rgb[i*3 : i*3+3]
		dst[i] = Luminance(p[0], p[1], p[2])
	}
	return dst
}

// resize returns buf with length n, reallocating only when cap is too small.
func resize[T any](buf []T, n int) []T {
	if cap(buf) < n {
		return make([]T, n)
	}
	return buf[:n]
}
