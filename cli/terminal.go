package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"
)

// EventKind distinguishes terminal events.
type EventKind int

const (
	EventKey EventKind = iota
	EventResize
)

// Event is a key press or a host terminal resize.
type Event struct {
	Kind EventKind
	Key  KeyEvent

	// Cols and Rows carry the new size of a resize event.
	Cols, Rows int
}

// HostSize returns the size of the terminal on fd, or 80x24 when it cannot
// be determined.
func HostSize(fd int) (cols, rows int) {
	cols, rows, err := term.GetSize(fd)
	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 24
	}
	return cols, rows
}

// WatchTerminal reads keys from in and listens for SIGWINCH, reporting the
// new size of the terminal on sizeFd. The returned channel is closed once
// ctx is done and the reader has stopped.
func WatchTerminal(ctx context.Context, in io.Reader, sizeFd int) <-chan Event {
	events := make(chan Event)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		inputLoop(ctx, in, events)
	}()
	go func() {
		defer wg.Done()
		handleSIGWINCH(ctx, sizeFd, events)
	}()
	go func() {
		wg.Wait()
		close(events)
	}()

	return events
}

// inputLoop reads and decodes input until in fails or ctx is done.
func inputLoop(ctx context.Context, in io.Reader, events chan<- Event) {
	var dec KeyDecoder
	buf := make([]byte, 256)
	for {
		n, err := in.Read(buf)
		for _, key := range dec.Decode(buf[:n]) {
			select {
			case events <- Event{Kind: EventKey, Key: key}:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// handleSIGWINCH listens for terminal resize signals
func handleSIGWINCH(ctx context.Context, fd int, events chan<- Event) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGWINCH)
	defer signal.Stop(sigChan)

	for {
		select {
		case <-sigChan:
			cols, rows := HostSize(fd)
			select {
			case events <- Event{Kind: EventResize, Cols: cols, Rows: rows}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
