package capture

import (
	"errors"
	"fmt"
)

// ErrNoFrame is returned by Device.Capture when no frame is ready yet.
var ErrNoFrame = errors.New("no frame ready")

// PixelFormat is the layout of a raw device frame.
type PixelFormat int

const (
	FormatAny PixelFormat = iota
	FormatRGB24
	FormatBGR24
	FormatYUYV
	FormatNV12
	FormatMJPEG
	FormatGray
)

func (f PixelFormat) String() string {
	switch f {
	case FormatRGB24:
		return "RGB24"
	case FormatBGR24:
		return "BGR24"
	case FormatYUYV:
		return "YUYV"
	case FormatNV12:
		return "NV12"
	case FormatMJPEG:
		return "MJPEG"
	case FormatGray:
		return "GRAY"
	default:
		return "any"
	}
}

// RequestKind says how a driver should pick among the device's modes.
type RequestKind int

const (
	// RequestClosest picks the mode closest to the requested size and rate
	RequestClosest RequestKind = iota
	// RequestHighestResolution picks the largest mode in any format
	RequestHighestResolution
)

// FormatRequest is one attempt in format negotiation.
type FormatRequest struct {
	Kind   RequestKind
	Format PixelFormat
	Width  int
	Height int
	FPS    int
}

func (r FormatRequest) String() string {
	if r.Kind == RequestHighestResolution {
		return "highest resolution, any format"
	}
	return fmt.Sprintf("%s closest to %dx%d@%d", r.Format, r.Width, r.Height, r.FPS)
}

// negotiationOrder lists the requests tried when opening a device: NV12
// then MJPEG at the closest mode, then the highest resolution in any format.
func negotiationOrder(s Settings) []FormatRequest {
	return []FormatRequest{
		{Kind: RequestClosest, Format: FormatNV12, Width: s.Width, Height: s.Height, FPS: s.FPS},
		{Kind: RequestClosest, Format: FormatMJPEG, Width: s.Width, Height: s.Height, FPS: s.FPS},
		{Kind: RequestHighestResolution, Format: FormatAny},
	}
}

// Driver enumerates and opens capture devices.
type Driver interface {
	// Devices lists the available cameras
	Devices() ([]DeviceInfo, error)

	// Open opens device index with the requested format
	Open(index int, req FormatRequest) (Device, error)
}

// Device is an opened camera. Capture must not block for long: it returns
// ErrNoFrame when nothing is ready so the caller can check for shutdown.
type Device interface {
	// StartStream begins streaming
	StartStream() error

	// Capture returns the next raw frame or ErrNoFrame
	Capture() (RawFrame, error)

	// Format reports the negotiated size and rate
	Format() Format

	// StopStream stops streaming
	StopStream() error

	// Close releases the device
	Close() error
}

// ListDevices returns the driver's devices, failing with KindNoDevices when
// there are none.
func ListDevices(d Driver) ([]DeviceInfo, error) {
	devices, err := d.Devices()
	if err != nil {
		return nil, &Error{Kind: KindQueryFailed, Err: err}
	}
	if len(devices) == 0 {
		return nil, ErrNoDevices
	}
	return devices, nil
}

// mirroredDevice is implemented by devices whose frames arrive already
// flipped horizontally.
type mirroredDevice interface {
	Mirrored() bool
}

// needsFlip reports whether frames from dev must be mirrored to match the
// requested orientation.
func needsFlip(dev Device, mirror bool) bool {
	if md, ok := dev.(mirroredDevice); ok && md.Mirrored() {
		return !mirror
	}
	return mirror
}
