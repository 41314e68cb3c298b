// Package cli runs the interactive side of camterm: it relays bytes between
// the host terminal and a shell on a pseudo-terminal and paints the camera
// overlay on top.
//
// # Session loop
//
// A Session multiplexes three wakeup sources on one goroutine:
//
//   - terminal events (keys and SIGWINCH resizes) from WatchTerminal
//   - shell output, read by a dedicated goroutine
//   - a ~15 Hz ticker that re-renders the newest camera frame
//
// Before every wait it polls the shell without blocking and stops once it
// has exited. Shell output is written to the host terminal unchanged; the
// overlay is layered on afterwards with cursor-addressed writes.
//
// # Keys
//
// KeyDecoder turns raw stdin bytes into KeyEvents. Alt+C, Alt+P, Alt+S,
// Alt+A and Alt+T are hotkeys that change the overlay layout; every other
// key is re-encoded with EncodeKey and written to the shell. Sequences with
// no canonical encoding are forwarded as received.
//
// # Raw mode
//
//	guard, err := cli.EnterRawMode(int(os.Stdin.Fd()), os.Stdout)
//	if err != nil {
//	    return err
//	}
//	defer guard.Restore()
//
// Restore is idempotent. RestoreTerminal restores whichever guard is active
// and is meant for deferred panic handlers.
package cli
