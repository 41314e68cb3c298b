package cli

import (
	"bytes"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// KeyCode identifies a decoded key.
type KeyCode int

const (
	KeyNone KeyCode = iota
	KeyRune
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// KeyUnknown is a sequence the decoder does not understand. Its Raw
	// bytes are forwarded to the shell untouched.
	KeyUnknown
)

// Modifier flags
const (
	ModShift = 1 << iota
	ModAlt
	ModCtrl
)

// KeyEvent is one key press read from the host terminal.
type KeyEvent struct {
	Code KeyCode
	Rune rune // set when Code is KeyRune
	Mods int

	// Raw holds the bytes the event was decoded from.
	Raw []byte
}

// KeyDecoder turns raw terminal input into key events. Sequences split
// across reads are held back until the rest arrives.
type KeyDecoder struct {
	pending []byte
}

// maxSequence bounds how long an unterminated escape sequence may grow.
const maxSequence = 32

// Decode consumes data and returns the complete key events it contains.
func (d *KeyDecoder) Decode(data []byte) []KeyEvent {
	buf := data
	if len(d.pending) > 0 {
		buf = append(d.pending, data...)
		d.pending = nil
	}

	var events []KeyEvent
	for i := 0; i < len(buf); {
		ev, n := decodeKey(buf[i:])
		if n == 0 {
			d.pending = bytes.Clone(buf[i:])
			break
		}
		ev.Raw = bytes.Clone(buf[i : i+n])
		events = append(events, ev)
		i += n
	}
	return events
}

// decodeKey decodes the first key in b. It returns n == 0 when b holds only
// the start of a sequence.
func decodeKey(b []byte) (KeyEvent, int) {
	if b[0] != 0x1b {
		return decodePlain(b)
	}
	if len(b) == 1 {
		// A lone ESC at the end of a read is the Escape key.
		return KeyEvent{Code: KeyEscape}, 1
	}

	switch b[1] {
	case '[':
		return parseCSISequence(b)
	case 'O':
		return parseSS3Sequence(b)
	case 0x1b:
		return KeyEvent{Code: KeyEscape}, 1
	}

	// Alt+key: ESC followed by the key
	ev, n := decodePlain(b[1:])
	if n == 0 {
		return ev, 0
	}
	ev.Mods |= ModAlt
	return ev, n + 1
}

func decodePlain(b []byte) (KeyEvent, int) {
	c := b[0]
	switch {
	case c == '\r':
		return KeyEvent{Code: KeyEnter}, 1
	case c == '\t':
		return KeyEvent{Code: KeyTab}, 1
	case c == 0x7f:
		return KeyEvent{Code: KeyBackspace}, 1
	case c == 0x00:
		return KeyEvent{Code: KeyRune, Rune: ' ', Mods: ModCtrl}, 1
	case c >= 0x01 && c <= 0x1a:
		return KeyEvent{Code: KeyRune, Rune: rune('a' + c - 1), Mods: ModCtrl}, 1
	case c >= 0x1c && c <= 0x1f:
		return KeyEvent{Code: KeyRune, Rune: rune(`\]^_`[c-0x1c]), Mods: ModCtrl}, 1
	case c < utf8.RuneSelf:
		return KeyEvent{Code: KeyRune, Rune: rune(c)}, 1
	}

	if !utf8.FullRune(b) {
		return KeyEvent{}, 0
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError {
		return KeyEvent{Code: KeyUnknown}, size
	}
	return KeyEvent{Code: KeyRune, Rune: r}, size
}

var csiLetterKeys = map[byte]KeyCode{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
}

var csiTildeKeys = map[int]KeyCode{
	1:  KeyHome,
	2:  KeyInsert,
	3:  KeyDelete,
	4:  KeyEnd,
	5:  KeyPageUp,
	6:  KeyPageDown,
	7:  KeyHome,
	8:  KeyEnd,
	11: KeyF1,
	12: KeyF2,
	13: KeyF3,
	14: KeyF4,
	15: KeyF5,
	17: KeyF6,
	18: KeyF7,
	19: KeyF8,
	20: KeyF9,
	21: KeyF10,
	23: KeyF11,
	24: KeyF12,
}

// parseCSISequence parses CSI (ESC [) sequences
func parseCSISequence(seq []byte) (KeyEvent, int) {
	// Find the final byte; parameters and intermediates lie in 0x20-0x3f.
	end := -1
	for i := 2; i < len(seq) && i < maxSequence; i++ {
		if seq[i] >= 0x40 && seq[i] <= 0x7e {
			end = i
			break
		}
		if seq[i] < 0x20 || seq[i] > 0x3f {
			return KeyEvent{Code: KeyUnknown}, i
		}
	}
	if end < 0 {
		if len(seq) >= maxSequence {
			return KeyEvent{Code: KeyUnknown}, maxSequence
		}
		return KeyEvent{}, 0 // Need more data
	}

	n := end + 1
	params := strings.Split(string(seq[2:end]), ";")
	final := seq[end]

	var code KeyCode
	switch {
	case final == '~':
		num, err := strconv.Atoi(params[0])
		if err != nil {
			return KeyEvent{Code: KeyUnknown}, n
		}
		code = csiTildeKeys[num]
	default:
		code = csiLetterKeys[final]
		if params[0] != "" && params[0] != "1" {
			code = KeyNone
		}
	}
	if code == KeyNone {
		return KeyEvent{Code: KeyUnknown}, n
	}

	ev := KeyEvent{Code: code}
	if len(params) > 1 {
		ev.Mods = parseModifier(params[1])
	}
	return ev, n
}

// parseModifier decodes the xterm "1 + bitmask" modifier parameter.
func parseModifier(p string) int {
	m, err := strconv.Atoi(p)
	if err != nil || m < 2 {
		return 0
	}
	bits := m - 1
	mods := 0
	if bits&1 != 0 {
		mods |= ModShift
	}
	if bits&2 != 0 {
		mods |= ModAlt
	}
	if bits&4 != 0 {
		mods |= ModCtrl
	}
	return mods
}

// parseSS3Sequence parses SS3 (ESC O) sequences
func parseSS3Sequence(seq []byte) (KeyEvent, int) {
	if len(seq) < 3 {
		return KeyEvent{}, 0
	}
	code, ok := csiLetterKeys[seq[2]]
	if !ok {
		return KeyEvent{Code: KeyUnknown}, 3
	}
	return KeyEvent{Code: code}, 3
}

var keySequences = map[KeyCode]string{
	KeyEnter:     "\r",
	KeyTab:       "\t",
	KeyBackspace: "\x7f",
	KeyEscape:    "\x1b",
	KeyUp:        "\x1b[A",
	KeyDown:      "\x1b[B",
	KeyRight:     "\x1b[C",
	KeyLeft:      "\x1b[D",
	KeyHome:      "\x1b[H",
	KeyEnd:       "\x1b[F",
	KeyPageUp:    "\x1b[5~",
	KeyPageDown:  "\x1b[6~",
	KeyInsert:    "\x1b[2~",
	KeyDelete:    "\x1b[3~",
	KeyF1:        "\x1bOP",
	KeyF2:        "\x1bOQ",
	KeyF3:        "\x1bOR",
	KeyF4:        "\x1bOS",
	KeyF5:        "\x1b[15~",
	KeyF6:        "\x1b[17~",
	KeyF7:        "\x1b[18~",
	KeyF8:        "\x1b[19~",
	KeyF9:        "\x1b[20~",
	KeyF10:       "\x1b[21~",
	KeyF11:       "\x1b[23~",
	KeyF12:       "\x1b[24~",
}

var ctrlPunct = map[rune]byte{
	'[':  0x1b,
	'\\': 0x1c,
	']':  0x1d,
	'^':  0x1e,
	'_':  0x1f,
	' ':  0x00,
}

// EncodeKey returns the bytes a terminal sends to a program for ev, or nil
// when the key has no encoding (for example Ctrl with a non-character key).
// Alt+Ctrl chords are the control byte behind an ESC prefix.
func EncodeKey(ev KeyEvent) []byte {
	if ev.Mods&ModCtrl != 0 {
		if ev.Code != KeyRune {
			return nil
		}
		var prefix []byte
		if ev.Mods&ModAlt != 0 {
			prefix = []byte{0x1b}
		}
		r := unicode.ToLower(ev.Rune)
		if r >= 'a' && r <= 'z' {
			return append(prefix, byte(r-'a')+1)
		}
		if c, ok := ctrlPunct[ev.Rune]; ok {
			return append(prefix, c)
		}
		return nil
	}

	if ev.Mods&ModAlt != 0 {
		if ev.Code != KeyRune {
			return nil
		}
		return utf8.AppendRune([]byte{0x1b}, ev.Rune)
	}

	if ev.Code == KeyRune {
		return utf8.AppendRune(nil, ev.Rune)
	}
	if s, ok := keySequences[ev.Code]; ok {
		return []byte(s)
	}
	return nil
}

// forwardBytes is what the shell receives for a key that is not a hotkey.
// Keys without a canonical encoding are passed through as they arrived.
func forwardBytes(ev KeyEvent) []byte {
	if b := EncodeKey(ev); b != nil {
		return b
	}
	return ev.Raw
}
