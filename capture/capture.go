package capture

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// State is the lifecycle of a Capture's background loop.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "idle"
	}
}

// pollInterval is the pause between capture attempts.
const pollInterval = time.Millisecond

// startResult is the one-shot report from the loop to Start.
type startResult struct {
	format Format
	err    error
}

// Capture runs a device on a background goroutine and keeps the most
// recent frame. All lifecycle methods are meant for a single owner;
// Frame may be called from any goroutine.
type Capture struct {
	driver   Driver
	settings Settings
	logger   *slog.Logger

	// mu serializes lifecycle transitions
	mu     sync.Mutex
	state  State
	stop   atomic.Bool
	cmds   chan struct{}
	done   chan struct{}
	format Format

	slotMu sync.Mutex
	latest *Frame
}

// Open validates settings.DeviceIndex against the driver's device list and
// returns an idle Capture. No device is opened until Start.
func Open(driver Driver, settings Settings, logger *slog.Logger) (*Capture, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	devices, err := driver.Devices()
	if err != nil {
		return nil, &Error{Kind: KindQueryFailed, Err: err}
	}
	found := false
	for _, d := range devices {
		if d.Index == settings.DeviceIndex {
			found = true
			break
		}
	}
	if !found {
		return nil, &Error{Kind: KindDeviceNotFound, Index: settings.DeviceIndex}
	}
	return &Capture{
		driver:   driver,
		settings: settings,
		logger:   logger.With("device", settings.DeviceIndex),
	}, nil
}

// State returns the current lifecycle state.
func (c *Capture) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Settings returns the settings the capture was opened with.
func (c *Capture) Settings() Settings {
	return c.settings
}

// Start opens the device on the background goroutine and blocks until it
// reports the negotiated format or an error.
func (c *Capture) Start() (Format, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return Format{}, ErrAlreadyRunning
	}
	c.state = StateStarting
	c.stop.Store(false)
	c.cmds = make(chan struct{}, 1)
	c.done = make(chan struct{})

	result := make(chan startResult, 1)
	go c.loop(result, c.cmds, c.done)

	r := <-result
	if r.err != nil {
		<-c.done
		c.state = StateIdle
		c.logger.Warn("capture start failed", "error", r.err)
		return Format{}, r.err
	}
	c.state = StateRunning
	c.format = r.format
	c.logger.Info("capture started", "format", r.format.String())
	return r.format, nil
}

// Stop signals the loop and waits for it to exit. Stopping an idle capture
// is a no-op. Device teardown errors are swallowed.
func (c *Capture) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRunning {
		return
	}
	c.state = StateStopping
	c.stop.Store(true)
	select {
	case c.cmds <- struct{}{}:
	default:
	}
	<-c.done
	c.state = StateIdle
	c.logger.Info("capture stopped")
}

// Close is an alias for Stop
func (c *Capture) Close() error {
	c.Stop()
	return nil
}

// Frame returns a copy of the most recent frame, or false if none has been
// captured yet.
func (c *Capture) Frame() (Frame, bool) {
	c.slotMu.Lock()
	f := c.latest
	c.slotMu.Unlock()
	if f == nil {
		return Frame{}, false
	}
	return f.Clone(), true
}

func (c *Capture) publish(f *Frame) {
	c.slotMu.Lock()
	c.latest = f
	c.slotMu.Unlock()
}

// negotiate opens the device with the first request in negotiationOrder
// that succeeds.
func (c *Capture) negotiate() (Device, error) {
	var lastErr error
	for _, req := range negotiationOrder(c.settings) {
		dev, err := c.driver.Open(c.settings.DeviceIndex, req)
		if err == nil {
			c.logger.Debug("device opened", "request", req.String())
			return dev, nil
		}
		c.logger.Debug("device open attempt failed", "request", req.String(), "error", err)
		if isPermissionError(err) {
			return nil, classifyOpenError(err)
		}
		lastErr = err
	}
	return nil, classifyOpenError(lastErr)
}

// loop owns the device for its whole life.
func (c *Capture) loop(result chan<- startResult, cmds <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	dev, err := c.negotiate()
	if err != nil {
		result <- startResult{err: err}
		return
	}
	defer dev.Close()

	if err := dev.StartStream(); err != nil {
		var ce *Error
		if !errors.As(err, &ce) {
			ce = &Error{Kind: KindStreamFailed, Err: err}
		}
		result <- startResult{err: ce}
		return
	}
	defer dev.StopStream()

	result <- startResult{format: dev.Format()}

	flip := needsFlip(dev, c.settings.Mirror)
	var seq uint64
	for {
		if c.stop.Load() {
			return
		}
		select {
		case <-cmds:
			return
		default:
		}

		if f, ok := c.grab(dev, seq+1, flip); ok {
			seq++
			c.publish(f)
		}
		time.Sleep(pollInterval)
	}
}

// grab captures and normalizes one frame, mirroring it when flip is set.
// Failures are retried on the next iteration.
func (c *Capture) grab(dev Device, seq uint64, flip bool) (*Frame, bool) {
	raw, err := dev.Capture()
	if err != nil {
		if !errors.Is(err, ErrNoFrame) {
			c.logger.Debug("capture failed", "error", err)
		}
		return nil, false
	}
	rgb, w, h, err := raw.ToRGB()
	if err != nil {
		c.logger.Debug("frame conversion failed", "format", raw.Format.String(), "error", err)
		return nil, false
	}
	if flip {
		MirrorHorizontal(rgb, w, h)
	}
	return &Frame{
		Pixels:    rgb,
		Width:     w,
		Height:    h,
		Timestamp: time.Now(),
		Seq:       seq,
	}, true
}
