package capture

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"
)

// ImageDriver serves a still image file as a single camera, index 0. It is
// useful on machines without a camera and for demos.
type ImageDriver struct {
	Path string
}

// Devices reports the image as device 0.
func (d *ImageDriver) Devices() ([]DeviceInfo, error) {
	if _, err := os.Stat(d.Path); err != nil {
		return nil, err
	}
	return []DeviceInfo{{Index: 0, Name: filepath.Base(d.Path), Description: "still image"}}, nil
}

// Open decodes the image and scales it to the requested size. A
// highest-resolution request keeps the native size.
func (d *ImageDriver) Open(index int, req FormatRequest) (Device, error) {
	if index != 0 {
		return nil, fmt.Errorf("image source has no device %d", index)
	}
	f, err := os.Open(d.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.Path, err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if req.Kind == RequestClosest && req.Width > 0 && req.Height > 0 {
		w, h = req.Width, req.Height
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	rgb, _, _ := imageToRGB(dst)

	fps := req.FPS
	if fps <= 0 {
		fps = 30
	}
	return &stillDevice{
		frame:    RawFrame{Format: FormatRGB24, Width: w, Height: h, Data: rgb},
		fmt:      Format{Width: w, Height: h, FPS: fps},
		interval: time.Second / time.Duration(fps),
	}, nil
}

type stillDevice struct {
	frame    RawFrame
	fmt      Format
	interval time.Duration
	last     time.Time
}

func (d *stillDevice) StartStream() error { return nil }

// Capture hands out the image at the negotiated frame rate.
func (d *stillDevice) Capture() (RawFrame, error) {
	now := time.Now()
	if now.Sub(d.last) < d.interval {
		return RawFrame{}, ErrNoFrame
	}
	d.last = now
	return d.frame, nil
}

func (d *stillDevice) Format() Format    { return d.fmt }
func (d *stillDevice) StopStream() error { return nil }
func (d *stillDevice) Close() error      { return nil }
