package camterm

import "os/exec"

// PTY is the interface for platform-specific pseudo-terminal implementations
type PTY interface {
	// Start starts the PTY with the given command
	Start(cmd *exec.Cmd) error

	// Read reads from the PTY
	Read(p []byte) (n int, err error)

	// Write writes to the PTY
	Write(p []byte) (n int, err error)

	// Resize resizes the PTY
	Resize(size Size) error

	// Close closes the PTY
	Close() error
}

// Size is a terminal size in character cells.
type Size struct {
	Cols uint16
	Rows uint16
}

// DefaultSize is used when the host terminal cannot report its size.
var DefaultSize = Size{Cols: 80, Rows: 24}

// NewSize builds a Size from int dimensions, falling back to DefaultSize
// for non-positive values.
func NewSize(cols, rows int) Size {
	s := DefaultSize
	if cols > 0 && cols <= 0xFFFF {
		s.Cols = uint16(cols)
	}
	if rows > 0 && rows <= 0xFFFF {
		s.Rows = uint16(rows)
	}
	return s
}
