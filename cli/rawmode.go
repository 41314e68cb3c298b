package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"golang.org/x/term"
)

// RawModeGuard puts a terminal into raw mode and puts it back exactly once.
type RawModeGuard struct {
	mu       sync.Mutex
	fd       int
	out      io.Writer
	oldState *term.State
	restored bool
}

var (
	activeGuard  atomic.Pointer[RawModeGuard]
	fallbackOnce sync.Once
)

// EnterRawMode switches fd to raw mode. When the guard is restored, out
// (if non-nil) receives an attribute reset and the cursor is shown again.
//
// The most recent guard is also registered with a process-wide fallback
// that restores it on SIGTERM, SIGHUP or SIGQUIT, and through
// RestoreTerminal from a panic handler.
func EnterRawMode(fd int, out io.Writer) (*RawModeGuard, error) {
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	g := &RawModeGuard{fd: fd, out: out, oldState: oldState}
	activeGuard.Store(g)
	fallbackOnce.Do(installSignalFallback)
	return g, nil
}

// Restore returns the terminal to the state it had before raw mode.
// Later calls do nothing.
func (g *RawModeGuard) Restore() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.restored {
		return nil
	}
	g.restored = true
	activeGuard.CompareAndSwap(g, nil)

	if g.out != nil {
		io.WriteString(g.out, "\x1b[0m\x1b[?25h")
	}
	return term.Restore(g.fd, g.oldState)
}

// Restored reports whether Restore has run.
func (g *RawModeGuard) Restored() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.restored
}

// RestoreTerminal restores the active guard, if any. It is safe to call
// from a deferred recover in main.
func RestoreTerminal() {
	if g := activeGuard.Load(); g != nil {
		g.Restore()
	}
}

func installSignalFallback() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	go func() {
		sig := <-sigChan
		RestoreTerminal()
		code := 1
		if s, ok := sig.(syscall.Signal); ok {
			code = 128 + int(s)
		}
		os.Exit(code)
	}()
}
