package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// RawFrame is a frame as delivered by a device, before normalization.
type RawFrame struct {
	Format PixelFormat
	Width  int
	Height int
	Data   []byte
}

// ToRGB normalizes the frame to interleaved RGB24. MJPEG frames are decoded
// and take their dimensions from the JPEG header.
func (f RawFrame) ToRGB() ([]byte, int, int, error) {
	w, h := f.Width, f.Height
	n := w * h
	need := func(size int) error {
		if w <= 0 || h <= 0 || len(f.Data) < size {
			return fmt.Errorf("%s frame %dx%d: short buffer (%d bytes)", f.Format, w, h, len(f.Data))
		}
		return nil
	}

	switch f.Format {
	case FormatRGB24:
		if err := need(n * 3); err != nil {
			return nil, 0, 0, err
		}
		return append([]byte(nil), f.Data[:n*3]...), w, h, nil
	case FormatBGR24:
		if err := need(n * 3); err != nil {
			return nil, 0, 0, err
		}
		out := make([]byte, n*3)
		for i := 0; i < n; i++ {
			out[i*3], out[i*3+1], out[i*3+2] = f.Data[i*3+2], f.Data[i*3+1], f.Data[i*3]
		}
		return out, w, h, nil
	case FormatGray:
		if err := need(n); err != nil {
			return nil, 0, 0, err
		}
		out := make([]byte, n*3)
		for i, v := range f.Data[:n] {
			out[i*3], out[i*3+1], out[i*3+2] = v, v, v
		}
		return out, w, h, nil
	case FormatYUYV:
		if err := need(n * 2); err != nil {
			return nil, 0, 0, err
		}
		return yuyvToRGB(f.Data, w, h), w, h, nil
	case FormatNV12:
		if err := need(n + n/2); err != nil {
			return nil, 0, 0, err
		}
		return nv12ToRGB(f.Data, w, h), w, h, nil
	case FormatMJPEG:
		img, err := jpeg.Decode(bytes.NewReader(f.Data))
		if err != nil {
			return nil, 0, 0, fmt.Errorf("decode MJPEG frame: %w", err)
		}
		rgb, w, h := imageToRGB(img)
		return rgb, w, h, nil
	default:
		return nil, 0, 0, fmt.Errorf("unsupported pixel format %s", f.Format)
	}
}

// yuvToRGB converts one BT.601 limited-range sample using integer math.
func yuvToRGB(y, u, v byte) (r, g, b byte) {
	c := int(y) - 16
	d := int(u) - 128
	e := int(v) - 128
	clamp := func(x int) byte {
		x = (x + 128) >> 8
		if x < 0 {
			return 0
		}
		if x > 255 {
			return 255
		}
		return byte(x)
	}
	return clamp(298*c + 409*e), clamp(298*c - 100*d - 208*e), clamp(298*c + 516*d)
}

// yuyvToRGB converts packed 4:2:2 (Y0 U Y1 V) to RGB24.
func yuyvToRGB(data []byte, w, h int) []byte {
	out := make([]byte, w*h*3)
	for i := 0; i+1 < w*h; i += 2 {
		p := data[i*2 : i*2+4]
		y0, u, y1, v := p[0], p[1], p[2], p[3]
		out[i*3], out[i*3+1], out[i*3+2] = yuvToRGB(y0, u, v)
		out[i*3+3], out[i*3+4], out[i*3+5] = yuvToRGB(y1, u, v)
	}
	return out
}

// nv12ToRGB converts planar Y followed by interleaved UV at half resolution.
func nv12ToRGB(data []byte, w, h int) []byte {
	out := make([]byte, w*h*3)
	uv := data[w*h:]
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ci := (y/2)*w + (x/2)*2
			var u, v byte = 128, 128
			if ci+1 < len(uv) {
				u, v = uv[ci], uv[ci+1]
			}
			o := (y*w + x) * 3
			out[o], out[o+1], out[o+2] = yuvToRGB(data[y*w+x], u, v)
		}
	}
	return out
}

// imageToRGB flattens any image.Image into RGB24.
func imageToRGB(img image.Image) ([]byte, int, int) {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride:]
		for x := 0; x < w; x++ {
			copy(out[(y*w+x)*3:], row[x*4:x*4+3])
		}
	}
	return out, w, h
}

// MirrorHorizontal flips an RGB24 image left to right in place.
func MirrorHorizontal(rgb []byte, w, h int) {
	if len(rgb) < w*h*3 {
		return
	}
	for y := 0; y < h; y++ {
		row := rgb[y*w*3 : (y+1)*w*3]
		for l, r := 0, w-1; l < r; l, r = l+1, r-1 {
			lp, rp := row[l*3:l*3+3], row[r*3:r*3+3]
			lp[0], rp[0] = rp[0], lp[0]
			lp[1], rp[1] = rp[1], lp[1]
			lp[2], rp[2] = rp[2], lp[2]
		}
	}
}
