package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phroun/camterm"
	"github.com/phroun/camterm/capture"
	"github.com/phroun/camterm/overlay"
)

// fakeProcess stands in for a shell on a PTY.
type fakeProcess struct {
	output chan []byte

	mu    sync.Mutex
	input bytes.Buffer
	sizes []camterm.Size

	exited    atomic.Bool
	exitOnEOF bool
	status    camterm.ExitStatus
}

func newFakeProcess() *fakeProcess {
	return &fakeProcess{output: make(chan []byte, 4)}
}

func (p *fakeProcess) Read(b []byte) (int, error) {
	data, ok := <-p.output
	if !ok {
		if p.exitOnEOF {
			p.exited.Store(true)
		}
		return 0, io.EOF
	}
	return copy(b, data), nil
}

func (p *fakeProcess) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input.Write(b)
}

func (p *fakeProcess) Resize(size camterm.Size) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sizes = append(p.sizes, size)
	return nil
}

func (p *fakeProcess) TryWait() (camterm.ExitStatus, bool, error) {
	if p.exited.Load() {
		return p.status, true, nil
	}
	return camterm.ExitStatus{}, false, nil
}

func (p *fakeProcess) written() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input.String()
}

// fakeSource serves a fixed frame and reports each request.
type fakeSource struct {
	frame capture.Frame
	asked chan struct{}
}

func (s *fakeSource) Frame() (capture.Frame, bool) {
	select {
	case s.asked <- struct{}{}:
	default:
	}
	return s.frame, true
}

func whiteFrame(w, h int) capture.Frame {
	return capture.Frame{Pixels: bytes.Repeat([]byte{255}, w*h*3), Width: w, Height: h}
}

type runResult struct {
	status camterm.ExitStatus
	err    error
}

func startSession(t *testing.T, s *Session) <-chan runResult {
	t.Helper()
	ch := make(chan runResult, 1)
	go func() {
		st, err := s.Run(context.Background())
		ch <- runResult{st, err}
	}()
	return ch
}

func waitResult(t *testing.T, ch <-chan runResult) runResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("session did not finish")
		return runResult{}
	}
}

func TestSessionPassesOutputThrough(t *testing.T) {
	proc := newFakeProcess()
	proc.exitOnEOF = true
	proc.status = camterm.ExitStatus{Code: 3}

	var out bytes.Buffer
	s := NewSession(proc, Options{Output: &out})

	proc.output <- []byte("hello\x1b[31m world")
	close(proc.output)

	r := waitResult(t, startSession(t, s))
	if r.err != nil {
		t.Fatalf("Run: %v", r.err)
	}
	if r.status.Code != 3 {
		t.Errorf("exit code = %d, want 3", r.status.Code)
	}
	if got := out.String(); got != "hello\x1b[31m world" {
		t.Errorf("output = %q", got)
	}
}

func TestSessionForwardsKeys(t *testing.T) {
	proc := newFakeProcess()
	events := make(chan Event)
	var out bytes.Buffer
	s := NewSession(proc, Options{Output: &out, Events: events})
	res := startSession(t, s)

	for _, ev := range []KeyEvent{
		{Code: KeyRune, Rune: 'l'},
		{Code: KeyRune, Rune: 'c', Mods: ModCtrl},
		{Code: KeyUp},
		{Code: KeyUp, Mods: ModCtrl, Raw: []byte("\x1b[1;5A")},
		{Code: KeyRune, Rune: 'p', Mods: ModAlt},
		{Code: KeyRune, Rune: 'c', Mods: ModAlt | ModCtrl},
	} {
		events <- Event{Kind: EventKey, Key: ev}
	}
	events <- Event{Kind: EventResize, Cols: 120, Rows: 40}
	proc.exited.Store(true)

	if r := waitResult(t, res); r.err != nil {
		t.Fatalf("Run: %v", r.err)
	}
	if got, want := proc.written(), "l\x03\x1b[A\x1b[1;5A\x1b\x03"; got != want {
		t.Errorf("shell received %q, want %q", got, want)
	}
	if s.Layout().Position != overlay.BottomLeft {
		t.Errorf("Alt+P did not cycle the position: %v", s.Layout().Position)
	}
	if len(proc.sizes) != 1 || proc.sizes[0] != (camterm.Size{Cols: 120, Rows: 40}) {
		t.Errorf("resizes = %+v", proc.sizes)
	}
	if cols, rows := s.Size(); cols != 120 || rows != 40 {
		t.Errorf("tracked size = %dx%d", cols, rows)
	}
}

func TestSessionRendersOverlay(t *testing.T) {
	proc := newFakeProcess()
	events := make(chan Event)
	src := &fakeSource{frame: whiteFrame(40, 20), asked: make(chan struct{})}

	var out bytes.Buffer
	layout := overlay.NewLayout()
	s := NewSession(proc, Options{
		Output:       &out,
		Events:       events,
		Source:       src,
		Layout:       layout,
		Cols:         80,
		Rows:         24,
		TickInterval: time.Millisecond,
	})
	res := startSession(t, s)

	events <- Event{Kind: EventKey, Key: KeyEvent{Code: KeyRune, Rune: 'c', Mods: ModAlt}}
	// The second request only happens once the first tick has rendered.
	<-src.asked
	<-src.asked
	events <- Event{Kind: EventKey, Key: KeyEvent{Code: KeyRune, Rune: 'C', Mods: ModAlt}}
	proc.exited.Store(true)

	if r := waitResult(t, res); r.err != nil {
		t.Fatalf("Run: %v", r.err)
	}
	if proc.written() != "" {
		t.Errorf("hotkeys leaked to the shell: %q", proc.written())
	}

	got := out.String()
	rect := overlay.Place(overlay.BottomRight, overlay.Small, false, 80, 24)
	if !strings.Contains(got, "\x1b[14;60H\x1b[38;2;255;255;255m@") {
		t.Errorf("overlay content missing from %q", got)
	}
	if !strings.HasSuffix(got, overlay.ClearPass(rect)) {
		t.Errorf("hiding the overlay did not clear %+v", rect)
	}
	if layout.Frame == nil || layout.Frame.Width != 20 || layout.Frame.Height != 10 {
		t.Errorf("layout frame = %+v", layout.Frame)
	}
}

func TestSessionClearsMovedOverlay(t *testing.T) {
	proc := newFakeProcess()
	events := make(chan Event)
	src := &fakeSource{frame: whiteFrame(8, 8), asked: make(chan struct{})}

	var out bytes.Buffer
	layout := overlay.NewLayout()
	layout.Visible = true
	s := NewSession(proc, Options{
		Output:       &out,
		Events:       events,
		Source:       src,
		Layout:       layout,
		Cols:         80,
		Rows:         24,
		TickInterval: time.Millisecond,
	})
	res := startSession(t, s)

	<-src.asked
	<-src.asked
	events <- Event{Kind: EventKey, Key: KeyEvent{Code: KeyRune, Rune: 'p', Mods: ModAlt}}
	<-src.asked
	<-src.asked
	proc.exited.Store(true)

	if r := waitResult(t, res); r.err != nil {
		t.Fatalf("Run: %v", r.err)
	}
	old := overlay.Place(overlay.BottomRight, overlay.Small, false, 80, 24)
	if !strings.Contains(out.String(), overlay.ClearPass(old)) {
		t.Error("moving the overlay did not clear its old position")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestSessionOutputWriteFailure(t *testing.T) {
	proc := newFakeProcess()
	proc.output <- []byte("x")
	s := NewSession(proc, Options{Output: failWriter{}})

	r := waitResult(t, startSession(t, s))
	if r.err == nil || !strings.Contains(r.err.Error(), "broken pipe") {
		t.Fatalf("Run error = %v", r.err)
	}
}

func TestSessionContextCancel(t *testing.T) {
	proc := newFakeProcess()
	s := NewSession(proc, Options{Output: io.Discard})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
}
