// Package capture acquires camera frames on a background goroutine and
// publishes only the newest one.
//
// A Capture owns one Device opened through a Driver. Once started, its loop
// polls the device, normalizes every frame to interleaved RGB, optionally
// mirrors it, and overwrites a single-frame slot. Readers always get the
// latest frame; slow readers silently miss intermediate ones.
package capture

import (
	"fmt"
	"strings"
	"time"
)

// Frame is one RGB24 image. Frames are immutable once published.
type Frame struct {
	// Pixels is interleaved RGB, row-major, 3 bytes per pixel
	Pixels []byte
	Width  int
	Height int
	// Timestamp is when the frame was captured
	Timestamp time.Time
	// Seq is the monotonic capture sequence number
	Seq uint64
}

// Clone returns a deep copy of f.
func (f Frame) Clone() Frame {
	f.Pixels = append([]byte(nil), f.Pixels...)
	return f
}

// Resolution is a requested capture size preset.
type Resolution int

const (
	ResolutionLow    Resolution = iota // 320x240
	ResolutionMedium                   // 640x480
	ResolutionHigh                     // 1280x720
)

// Dimensions returns the width and height for the resolution
func (r Resolution) Dimensions() (width, height int) {
	switch r {
	case ResolutionLow:
		return 320, 240
	case ResolutionHigh:
		return 1280, 720
	default:
		return 640, 480
	}
}

// String returns a human-readable string representation of the resolution
func (r Resolution) String() string {
	switch r {
	case ResolutionLow:
		return "low"
	case ResolutionHigh:
		return "high"
	default:
		return "medium"
	}
}

// ParseResolution parses "low", "medium" or "high".
func ParseResolution(s string) (Resolution, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return ResolutionLow, true
	case "medium":
		return ResolutionMedium, true
	case "high":
		return ResolutionHigh, true
	}
	return ResolutionMedium, false
}

// Settings configures a Capture.
type Settings struct {
	DeviceIndex int
	Width       int
	Height      int
	FPS         int
	// Mirror flips frames horizontally, so the overlay behaves like a mirror
	Mirror bool
}

// DefaultSettings returns device 0 at 640x480, 30 fps, mirrored.
func DefaultSettings() Settings {
	return Settings{
		DeviceIndex: 0,
		Width:       640,
		Height:      480,
		FPS:         30,
		Mirror:      true,
	}
}

// WithResolution returns s with the preset's dimensions.
func (s Settings) WithResolution(r Resolution) Settings {
	s.Width, s.Height = r.Dimensions()
	return s
}

// Format is what a device actually negotiated.
type Format struct {
	Width  int
	Height int
	FPS    int
}

func (f Format) String() string {
	return fmt.Sprintf("%dx%d@%d", f.Width, f.Height, f.FPS)
}

// DeviceInfo describes an available camera.
type DeviceInfo struct {
	Index       int
	Name        string
	Description string
}

func (d DeviceInfo) String() string {
	return fmt.Sprintf("[%d] %s (%s)", d.Index, d.Name, d.Description)
}
