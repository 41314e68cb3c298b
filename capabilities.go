package camterm

import "strings"

// HostCapabilities describes the terminal camterm is drawing on.
type HostCapabilities struct {
	TermType   string // e.g., "xterm-256color"
	IsTerminal bool   // true if this is an interactive terminal
	ColorDepth int    // 0=none, 8=basic, 256=256color, 24=truecolor

	// Screen dimensions
	Width  int // columns
	Height int // rows
}

// DetectHost derives capabilities from the environment. getenv is usually
// os.Getenv.
func DetectHost(getenv func(string) string, isTerminal bool, cols, rows int) HostCapabilities {
	caps := HostCapabilities{
		TermType:   getenv("TERM"),
		IsTerminal: isTerminal,
		Width:      cols,
		Height:     rows,
	}
	if caps.TermType == "" {
		caps.TermType = "unknown"
	}

	colorterm := strings.ToLower(getenv("COLORTERM"))
	switch {
	case !isTerminal || caps.TermType == "dumb":
		caps.ColorDepth = 0
	case colorterm == "truecolor" || colorterm == "24bit":
		caps.ColorDepth = 24
	case strings.Contains(caps.TermType, "256color"):
		caps.ColorDepth = 256
	default:
		caps.ColorDepth = 8
	}
	return caps
}

// SupportsTrueColor reports whether 24-bit SGR colors will render as sent.
func (c HostCapabilities) SupportsTrueColor() bool {
	return c.ColorDepth == 24
}
