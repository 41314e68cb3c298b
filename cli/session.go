package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"syscall"
	"time"

	"github.com/phroun/camterm"
	"github.com/phroun/camterm/ascii"
	"github.com/phroun/camterm/capture"
	"github.com/phroun/camterm/overlay"
)

// DefaultTickInterval paces camera re-renders at roughly 15 Hz.
const DefaultTickInterval = 67 * time.Millisecond

const (
	// drainTimeout bounds how long trailing shell output is collected
	// after the shell has exited.
	drainTimeout = 100 * time.Millisecond

	// exitPollInterval and exitPollAttempts bound the wait for the shell's
	// exit status once its terminal has closed.
	exitPollInterval = 10 * time.Millisecond
	exitPollAttempts = 50
)

// Process is the shell side of a session.
type Process interface {
	io.ReadWriter
	Resize(size camterm.Size) error
	TryWait() (camterm.ExitStatus, bool, error)
}

// FrameSource hands out the most recent camera frame.
type FrameSource interface {
	Frame() (capture.Frame, bool)
}

// Options configures a Session.
type Options struct {
	// Output receives shell output and overlay passes.
	Output io.Writer

	// Events delivers keys and resizes. A nil channel means no input.
	Events <-chan Event

	// Source provides camera frames. Nil disables the overlay content.
	Source FrameSource

	Layout   *overlay.Layout
	Pipeline *ascii.Pipeline

	// Cols and Rows are the host terminal size at startup.
	Cols, Rows int

	TickInterval time.Duration
	Logger       *slog.Logger
}

// Session relays bytes between the host terminal and the shell and paints
// the camera overlay on top.
type Session struct {
	proc     Process
	out      io.Writer
	events   <-chan Event
	source   FrameSource
	layout   *overlay.Layout
	pipeline *ascii.Pipeline
	comp     *overlay.Compositor
	logger   *slog.Logger
	interval time.Duration

	cols, rows int

	// lastRect is the area painted by the previous render pass; drawn is
	// false when nothing of the overlay is on screen.
	lastRect overlay.Rect
	drawn    bool
}

// NewSession creates a session around a running shell.
func NewSession(proc Process, opts Options) *Session {
	if opts.Layout == nil {
		opts.Layout = overlay.NewLayout()
	}
	if opts.Pipeline == nil {
		opts.Pipeline = ascii.NewPipeline(ascii.ModeFlat, false)
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Cols <= 0 || opts.Rows <= 0 {
		opts.Cols, opts.Rows = int(camterm.DefaultSize.Cols), int(camterm.DefaultSize.Rows)
	}

	return &Session{
		proc:     proc,
		out:      opts.Output,
		events:   opts.Events,
		source:   opts.Source,
		layout:   opts.Layout,
		pipeline: opts.Pipeline,
		comp:     overlay.NewCompositor(opts.Output),
		logger:   opts.Logger,
		interval: opts.TickInterval,
		cols:     opts.Cols,
		rows:     opts.Rows,
	}
}

// Layout returns the session's layout state.
func (s *Session) Layout() *overlay.Layout {
	return s.layout
}

// Size returns the tracked host terminal size.
func (s *Session) Size() (cols, rows int) {
	return s.cols, s.rows
}

// Run drives the session until the shell exits, its terminal closes, ctx is
// cancelled or writing to either side fails.
func (s *Session) Run(ctx context.Context) (camterm.ExitStatus, error) {
	done := make(chan struct{})
	defer close(done)

	output := make(chan []byte)
	go s.readLoop(output, done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		status, exited, err := s.proc.TryWait()
		if err != nil {
			return camterm.ExitStatus{}, err
		}
		if exited {
			s.logger.Info("shell exited", "code", status.Code, "signaled", status.Signaled)
			return status, s.drain(output)
		}

		select {
		case <-ctx.Done():
			return camterm.ExitStatus{}, ctx.Err()

		case ev, ok := <-s.events:
			if !ok {
				s.events = nil
				continue
			}
			if err := s.handleEvent(ev); err != nil {
				return camterm.ExitStatus{}, err
			}

		case data, ok := <-output:
			if !ok {
				return s.waitExit()
			}
			if err := s.writeOutput(data); err != nil {
				return camterm.ExitStatus{}, err
			}

		case <-ticker.C:
			if err := s.tick(); err != nil {
				return camterm.ExitStatus{}, err
			}
		}
	}
}

// readLoop drains shell output until the PTY reports EOF or EIO.
func (s *Session) readLoop(output chan<- []byte, done <-chan struct{}) {
	defer close(output)
	buf := make([]byte, 4096)
	for {
		n, err := s.proc.Read(buf)
		if n > 0 {
			select {
			case output <- bytes.Clone(buf[:n]):
			case <-done:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, syscall.EIO) {
				s.logger.Warn("shell read failed", "error", err)
			}
			return
		}
	}
}

// drain copies output still in flight after the shell has exited.
func (s *Session) drain(output <-chan []byte) error {
	timeout := time.NewTimer(drainTimeout)
	defer timeout.Stop()
	for {
		select {
		case data, ok := <-output:
			if !ok {
				return nil
			}
			if err := s.writeOutput(data); err != nil {
				return err
			}
		case <-timeout.C:
			return nil
		}
	}
}

// waitExit collects the exit status once the shell's terminal has closed.
func (s *Session) waitExit() (camterm.ExitStatus, error) {
	for i := 0; i < exitPollAttempts; i++ {
		status, exited, err := s.proc.TryWait()
		if err != nil {
			return camterm.ExitStatus{}, err
		}
		if exited {
			s.logger.Info("shell exited", "code", status.Code, "signaled", status.Signaled)
			return status, nil
		}
		time.Sleep(exitPollInterval)
	}
	s.logger.Warn("shell closed its terminal but is still running")
	return camterm.ExitStatus{}, nil
}

func (s *Session) writeOutput(data []byte) error {
	if _, err := s.out.Write(data); err != nil {
		return fmt.Errorf("write to terminal: %w", err)
	}
	return nil
}

func (s *Session) handleEvent(ev Event) error {
	switch ev.Kind {
	case EventResize:
		s.resize(ev.Cols, ev.Rows)
		return nil
	default:
		return s.handleKey(ev.Key)
	}
}

func (s *Session) handleKey(key KeyEvent) error {
	if hk := LookupHotkey(key); hk != HotkeyNone {
		ApplyHotkey(s.layout, hk)
		s.logger.Debug("hotkey", "action", hk.String(), "status", overlay.StatusLine(s.layout))
		if hk == HotkeyToggle && !s.layout.Visible {
			return s.clearOverlay()
		}
		return nil
	}

	data := forwardBytes(key)
	if len(data) == 0 {
		return nil
	}
	if _, err := s.proc.Write(data); err != nil {
		return fmt.Errorf("write to shell: %w", err)
	}
	return nil
}

func (s *Session) resize(cols, rows int) {
	s.cols, s.rows = cols, rows
	if err := s.proc.Resize(camterm.NewSize(cols, rows)); err != nil {
		s.logger.Warn("resize failed", "cols", cols, "rows", rows, "error", err)
		return
	}
	s.logger.Debug("resized", "cols", cols, "rows", rows)
}

func (s *Session) clearOverlay() error {
	if !s.drawn {
		return nil
	}
	s.drawn = false
	return s.comp.Clear(s.lastRect)
}

// tick renders the newest camera frame into the overlay.
func (s *Session) tick() error {
	if !s.layout.Visible || s.source == nil {
		return nil
	}
	frame, ok := s.source.Frame()
	if !ok {
		return nil
	}

	w, h := s.layout.ContentSize()
	glyphs, colors := s.pipeline.Render(frame.Pixels, frame.Width, frame.Height, w, h, s.layout.Charset)
	gf, err := overlay.NewColoredGlyphFrame(glyphs, colors, w, h)
	if err != nil {
		s.logger.Warn("dropping frame", "seq", frame.Seq, "error", err)
		return nil
	}
	s.layout.SetFrame(gf)

	rect := s.layout.Rect(s.cols, s.rows)
	if s.drawn && rect != s.lastRect {
		if err := s.comp.Clear(s.lastRect); err != nil {
			return err
		}
	}
	if err := s.comp.Render(s.layout, s.cols, s.rows); err != nil {
		return err
	}
	s.lastRect, s.drawn = rect, true
	return nil
}
