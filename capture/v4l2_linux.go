//go:build linux

package capture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/blackjack/webcam"
)

// fourcc builds a V4L2 pixel format code.
func fourcc(s string) webcam.PixelFormat {
	return webcam.PixelFormat(uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24)
}

var v4l2Formats = map[PixelFormat]webcam.PixelFormat{
	FormatYUYV:  fourcc("YUYV"),
	FormatMJPEG: fourcc("MJPG"),
	FormatNV12:  fourcc("NV12"),
	FormatRGB24: fourcc("RGB3"),
	FormatBGR24: fourcc("BGR3"),
	FormatGray:  fourcc("GREY"),
}

func fromV4L2(code webcam.PixelFormat) (PixelFormat, bool) {
	for f, c := range v4l2Formats {
		if c == code {
			return f, true
		}
	}
	return FormatAny, false
}

// V4L2Driver captures from Video4Linux devices (/dev/videoN).
type V4L2Driver struct {
	// Dir holds the device nodes (default /dev)
	Dir string
}

func (d *V4L2Driver) dir() string {
	if d.Dir == "" {
		return "/dev"
	}
	return d.Dir
}

// Devices lists /dev/video* nodes in index order.
func (d *V4L2Driver) Devices() ([]DeviceInfo, error) {
	paths, err := filepath.Glob(filepath.Join(d.dir(), "video*"))
	if err != nil {
		return nil, err
	}
	var devices []DeviceInfo
	for _, p := range paths {
		idx, err := strconv.Atoi(strings.TrimPrefix(filepath.Base(p), "video"))
		if err != nil {
			continue
		}
		name := "Video4Linux device"
		if b, err := os.ReadFile(fmt.Sprintf("/sys/class/video4linux/video%d/name", idx)); err == nil {
			name = strings.TrimSpace(string(b))
		}
		devices = append(devices, DeviceInfo{Index: idx, Name: name, Description: p})
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].Index < devices[j].Index })
	return devices, nil
}

// Open opens /dev/video<index> and applies req.
func (d *V4L2Driver) Open(index int, req FormatRequest) (Device, error) {
	cam, err := webcam.Open(filepath.Join(d.dir(), "video"+strconv.Itoa(index)))
	if err != nil {
		return nil, err
	}

	code, w, h, err := pickV4L2Mode(cam, req)
	if err != nil {
		cam.Close()
		return nil, err
	}
	got, gw, gh, err := cam.SetImageFormat(code, w, h)
	if err != nil {
		cam.Close()
		return nil, fmt.Errorf("set format %dx%d: %w", w, h, err)
	}
	pf, ok := fromV4L2(got)
	if !ok {
		cam.Close()
		return nil, fmt.Errorf("device switched to unsupported format %#x", uint32(got))
	}

	fps := req.FPS
	if fps <= 0 {
		fps = 30
	}
	return &v4l2Device{
		cam:    cam,
		format: pf,
		fmt:    Format{Width: int(gw), Height: int(gh), FPS: fps},
	}, nil
}

// pickV4L2Mode chooses a format code and frame size for req.
func pickV4L2Mode(cam *webcam.Webcam, req FormatRequest) (webcam.PixelFormat, uint32, uint32, error) {
	supported := cam.GetSupportedFormats()

	if req.Kind == RequestClosest {
		code, ok := v4l2Formats[req.Format]
		if _, has := supported[code]; !ok || !has {
			return 0, 0, 0, fmt.Errorf("format %s not supported", req.Format)
		}
		w, h, ok := closestSize(cam.GetSupportedFrameSizes(code), req.Width, req.Height)
		if !ok {
			return 0, 0, 0, fmt.Errorf("no frame sizes for %s", req.Format)
		}
		return code, w, h, nil
	}

	var (
		best         webcam.PixelFormat
		bestW, bestH uint32
	)
	for code := range supported {
		if _, ok := fromV4L2(code); !ok {
			continue
		}
		for _, fs := range cam.GetSupportedFrameSizes(code) {
			if fs.MaxWidth*fs.MaxHeight > bestW*bestH {
				best, bestW, bestH = code, fs.MaxWidth, fs.MaxHeight
			}
		}
	}
	if bestW == 0 {
		return 0, 0, 0, errors.New("no supported pixel format")
	}
	return best, bestW, bestH, nil
}

// closestSize picks the frame size nearest to w x h, clamping into
// stepwise ranges.
func closestSize(sizes []webcam.FrameSize, w, h int) (uint32, uint32, bool) {
	var (
		bestW, bestH uint32
		bestDist     = -1
	)
	for _, fs := range sizes {
		cw := clampU32(uint32(max(w, 0)), fs.MinWidth, fs.MaxWidth)
		ch := clampU32(uint32(max(h, 0)), fs.MinHeight, fs.MaxHeight)
		dist := abs(int(cw)-w) + abs(int(ch)-h)
		if bestDist < 0 || dist < bestDist {
			bestW, bestH, bestDist = cw, ch, dist
		}
	}
	return bestW, bestH, bestDist >= 0
}

func clampU32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type v4l2Device struct {
	cam    *webcam.Webcam
	format PixelFormat
	fmt    Format
}

func (d *v4l2Device) StartStream() error {
	if err := d.cam.StartStreaming(); err != nil {
		return &Error{Kind: KindStreamFailed, Err: err}
	}
	return nil
}

// Capture waits up to one second for a frame.
func (d *v4l2Device) Capture() (RawFrame, error) {
	err := d.cam.WaitForFrame(1)
	var timeout *webcam.Timeout
	if errors.As(err, &timeout) {
		return RawFrame{}, ErrNoFrame
	}
	if err != nil {
		return RawFrame{}, err
	}
	data, err := d.cam.ReadFrame()
	if err != nil {
		return RawFrame{}, err
	}
	if len(data) == 0 {
		return RawFrame{}, ErrNoFrame
	}
	return RawFrame{
		Format: d.format,
		Width:  d.fmt.Width,
		Height: d.fmt.Height,
		// the driver reuses its mmap buffers
		Data: append([]byte(nil), data...),
	}, nil
}

func (d *v4l2Device) Format() Format {
	return d.fmt
}

func (d *v4l2Device) StopStream() error {
	return d.cam.StopStreaming()
}

func (d *v4l2Device) Close() error {
	return d.cam.Close()
}
