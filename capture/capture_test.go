package capture

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeDevice struct {
	mu        sync.Mutex
	frame     RawFrame
	streamErr error
	stopped   bool
	closed    bool
}

func (d *fakeDevice) StartStream() error { return d.streamErr }

func (d *fakeDevice) Capture() (RawFrame, error) {
	return d.frame, nil
}

func (d *fakeDevice) Format() Format {
	return Format{Width: d.frame.Width, Height: d.frame.Height, FPS: 30}
}

func (d *fakeDevice) StopStream() error {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	return errors.New("stop failed")
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

type fakeDriver struct {
	mu       sync.Mutex
	devices  []DeviceInfo
	queryErr error
	// openErrs is consumed one per Open call; nil entries succeed
	openErrs []error
	requests []FormatRequest
	device   *fakeDevice
}

func (d *fakeDriver) Devices() ([]DeviceInfo, error) {
	return d.devices, d.queryErr
}

func (d *fakeDriver) Open(index int, req FormatRequest) (Device, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, req)
	if len(d.openErrs) > 0 {
		err := d.openErrs[0]
		d.openErrs = d.openErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return d.device, nil
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		devices: []DeviceInfo{{Index: 0, Name: "Fake Camera", Description: "test"}},
		device: &fakeDevice{frame: RawFrame{
			Format: FormatRGB24, Width: 2, Height: 1,
			Data: []byte{1, 2, 3, 4, 5, 6},
		}},
	}
}

func waitFrame(t *testing.T, c *Capture) Frame {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f, ok := c.Frame(); ok {
			return f
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("no frame captured")
	return Frame{}
}

func TestCaptureLifecycle(t *testing.T) {
	drv := newFakeDriver()
	c, err := Open(drv, DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if c.State() != StateIdle {
		t.Fatalf("state = %v, want idle", c.State())
	}
	if _, ok := c.Frame(); ok {
		t.Fatal("frame available before start")
	}

	format, err := c.Start()
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if format.Width != 2 || format.Height != 1 {
		t.Errorf("format = %v", format)
	}
	if c.State() != StateRunning {
		t.Errorf("state = %v, want running", c.State())
	}

	f := waitFrame(t, c)
	want := []byte{4, 5, 6, 1, 2, 3} // mirrored
	if string(f.Pixels) != string(want) {
		t.Errorf("pixels = %v, want %v", f.Pixels, want)
	}
	if f.Seq == 0 || f.Timestamp.IsZero() {
		t.Errorf("frame metadata = seq %d, ts %v", f.Seq, f.Timestamp)
	}

	// Frames are handed out as copies.
	f.Pixels[0] = 99
	if again, _ := c.Frame(); again.Pixels[0] == 99 {
		t.Error("Frame() returned shared pixel memory")
	}

	if _, err := c.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start() = %v, want already running", err)
	}

	c.Stop()
	if c.State() != StateIdle {
		t.Errorf("state after stop = %v", c.State())
	}
	drv.device.mu.Lock()
	stopped, closed := drv.device.stopped, drv.device.closed
	drv.device.mu.Unlock()
	if !stopped || !closed {
		t.Errorf("device stopped=%v closed=%v", stopped, closed)
	}

	// Stop is idempotent and the capture can restart.
	c.Stop()
	if _, err := c.Start(); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	c.Close()
}

func TestCaptureNoMirror(t *testing.T) {
	s := DefaultSettings()
	s.Mirror = false
	c, err := Open(newFakeDriver(), s, nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := c.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer c.Stop()

	f := waitFrame(t, c)
	if string(f.Pixels) != string([]byte{1, 2, 3, 4, 5, 6}) {
		t.Errorf("pixels = %v", f.Pixels)
	}
}

func TestOpenDeviceNotFound(t *testing.T) {
	s := DefaultSettings()
	s.DeviceIndex = 5
	_, err := Open(newFakeDriver(), s, nil)
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("Open() = %v, want device not found", err)
	}
	if !strings.Contains(err.Error(), "5") {
		t.Errorf("message %q does not name the index", err)
	}
}

func TestOpenQueryFailed(t *testing.T) {
	drv := newFakeDriver()
	drv.queryErr = errors.New("backend down")
	_, err := Open(drv, DefaultSettings(), nil)
	if !errors.Is(err, ErrQueryFailed) {
		t.Fatalf("Open() = %v, want query failed", err)
	}
}

func TestNegotiationFallback(t *testing.T) {
	drv := newFakeDriver()
	drv.openErrs = []error{errors.New("no NV12"), errors.New("no MJPEG"), nil}
	c, err := Open(drv, DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := c.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	c.Stop()

	if len(drv.requests) != 3 {
		t.Fatalf("requests = %v", drv.requests)
	}
	if drv.requests[0].Format != FormatNV12 || drv.requests[1].Format != FormatMJPEG {
		t.Errorf("closest requests = %v", drv.requests[:2])
	}
	if drv.requests[2].Kind != RequestHighestResolution {
		t.Errorf("last request = %v", drv.requests[2])
	}
	if drv.requests[0].Width != 640 || drv.requests[0].Height != 480 || drv.requests[0].FPS != 30 {
		t.Errorf("requested mode = %+v", drv.requests[0])
	}
}

func TestStartErrors(t *testing.T) {
	tests := []struct {
		name      string
		openErrs  []error
		streamErr error
		want      error
	}{
		{
			name:     "permission denied",
			openErrs: []error{errors.New("open /dev/video0: permission denied")},
			want:     ErrPermissionDenied,
		},
		{
			name:     "authorization",
			openErrs: []error{errors.New("x"), errors.New("y"), errors.New("Authorization status not determined")},
			want:     ErrPermissionDenied,
		},
		{
			name:     "open failed",
			openErrs: []error{errors.New("busy"), errors.New("busy"), errors.New("device busy")},
			want:     ErrOpenFailed,
		},
		{
			name:      "stream failed",
			streamErr: errors.New("VIDIOC_STREAMON: invalid argument"),
			want:      ErrStreamFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drv := newFakeDriver()
			drv.openErrs = tt.openErrs
			drv.device.streamErr = tt.streamErr
			c, err := Open(drv, DefaultSettings(), nil)
			if err != nil {
				t.Fatalf("Open() failed: %v", err)
			}
			_, err = c.Start()
			if !errors.Is(err, tt.want) {
				t.Fatalf("Start() = %v, want %v", err, tt.want)
			}
			if c.State() != StateIdle {
				t.Errorf("state after failed start = %v", c.State())
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&Error{Kind: KindDeviceNotFound, Index: 3}, "Camera device 3 not found. Run 'list-cameras' to see available devices"},
		{ErrAlreadyRunning, "Capture thread is already running"},
		{ErrNoDevices, "No cameras found"},
		{&Error{Kind: KindOpenFailed, Err: errors.New("test")}, "Failed to open camera: test"},
		{&Error{Kind: KindStreamFailed, Err: errors.New("test")}, "Failed to start camera stream: test"},
		{&Error{Kind: KindQueryFailed, Err: errors.New("test")}, "Failed to query cameras: test"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
	if !strings.Contains(ErrPermissionDenied.Error(), "permission denied") {
		t.Errorf("permission message = %q", ErrPermissionDenied.Error())
	}
}

func TestListDevices(t *testing.T) {
	drv := newFakeDriver()
	devices, err := ListDevices(drv)
	if err != nil || len(devices) != 1 {
		t.Fatalf("ListDevices() = %v, %v", devices, err)
	}
	if got := devices[0].String(); got != "[0] Fake Camera (test)" {
		t.Errorf("String() = %q", got)
	}

	drv.devices = nil
	if _, err := ListDevices(drv); !errors.Is(err, ErrNoDevices) {
		t.Errorf("empty ListDevices() = %v", err)
	}
}

func TestResolution(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"low", 320, 240},
		{"medium", 640, 480},
		{"high", 1280, 720},
	}
	for _, tt := range tests {
		r, ok := ParseResolution(tt.name)
		if !ok {
			t.Fatalf("ParseResolution(%q) failed", tt.name)
		}
		if w, h := r.Dimensions(); w != tt.w || h != tt.h || r.String() != tt.name {
			t.Errorf("%s = %dx%d (%s)", tt.name, w, h, r)
		}
	}
	s := DefaultSettings().WithResolution(ResolutionHigh)
	if s.Width != 1280 || s.Height != 720 || s.FPS != 30 || !s.Mirror {
		t.Errorf("settings = %+v", s)
	}
}
