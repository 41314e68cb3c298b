package cli

import (
	"unicode"

	"github.com/phroun/camterm/overlay"
)

// Hotkey is an overlay action bound to an Alt+letter chord.
type Hotkey int

const (
	HotkeyNone Hotkey = iota
	HotkeyToggle
	HotkeyPosition
	HotkeySize
	HotkeyCharset
	HotkeyTransparency
)

var hotkeyNames = [...]string{
	HotkeyNone:         "none",
	HotkeyToggle:       "toggle",
	HotkeyPosition:     "position",
	HotkeySize:         "size",
	HotkeyCharset:      "charset",
	HotkeyTransparency: "transparency",
}

func (h Hotkey) String() string {
	if h < 0 || int(h) >= len(hotkeyNames) {
		return "unknown"
	}
	return hotkeyNames[h]
}

var hotkeyTable = map[rune]Hotkey{
	'c': HotkeyToggle,
	'p': HotkeyPosition,
	's': HotkeySize,
	'a': HotkeyCharset,
	't': HotkeyTransparency,
}

// LookupHotkey returns the action bound to ev, or HotkeyNone. Only plain Alt
// chords are bound; letters match in either case.
func LookupHotkey(ev KeyEvent) Hotkey {
	if ev.Code != KeyRune || ev.Mods != ModAlt {
		return HotkeyNone
	}
	return hotkeyTable[unicode.ToLower(ev.Rune)]
}

// ApplyHotkey mutates l for the given action.
func ApplyHotkey(l *overlay.Layout, h Hotkey) {
	switch h {
	case HotkeyToggle:
		l.Toggle()
	case HotkeyPosition:
		l.CyclePosition()
	case HotkeySize:
		l.CycleSize()
	case HotkeyCharset:
		l.CycleCharset()
	case HotkeyTransparency:
		l.CycleTransparency()
	}
}
