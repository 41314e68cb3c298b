//go:build !linux

package capture

import "errors"

var errNoV4L2 = errors.New("video4linux is only available on linux")

// V4L2Driver is unavailable on this platform; use ImageDriver or
// ReplayDriver instead.
type V4L2Driver struct {
	Dir string
}

func (d *V4L2Driver) Devices() ([]DeviceInfo, error) {
	return nil, nil
}

func (d *V4L2Driver) Open(index int, req FormatRequest) (Device, error) {
	return nil, errNoV4L2
}
