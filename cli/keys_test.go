package cli

import (
	"bytes"
	"testing"

	"github.com/phroun/camterm/ascii"
	"github.com/phroun/camterm/overlay"
)

func TestEncodeKey(t *testing.T) {
	tests := []struct {
		name string
		ev   KeyEvent
		want string
	}{
		{"rune", KeyEvent{Code: KeyRune, Rune: 'a'}, "a"},
		{"utf8 rune", KeyEvent{Code: KeyRune, Rune: 'é'}, "é"},
		{"ctrl+c", KeyEvent{Code: KeyRune, Rune: 'c', Mods: ModCtrl}, "\x03"},
		{"ctrl+d", KeyEvent{Code: KeyRune, Rune: 'd', Mods: ModCtrl}, "\x04"},
		{"ctrl+z", KeyEvent{Code: KeyRune, Rune: 'z', Mods: ModCtrl}, "\x1a"},
		{"ctrl+A upper", KeyEvent{Code: KeyRune, Rune: 'A', Mods: ModCtrl}, "\x01"},
		{"ctrl+[", KeyEvent{Code: KeyRune, Rune: '[', Mods: ModCtrl}, "\x1b"},
		{"ctrl+backslash", KeyEvent{Code: KeyRune, Rune: '\\', Mods: ModCtrl}, "\x1c"},
		{"ctrl+]", KeyEvent{Code: KeyRune, Rune: ']', Mods: ModCtrl}, "\x1d"},
		{"ctrl+^", KeyEvent{Code: KeyRune, Rune: '^', Mods: ModCtrl}, "\x1e"},
		{"ctrl+_", KeyEvent{Code: KeyRune, Rune: '_', Mods: ModCtrl}, "\x1f"},
		{"ctrl+space", KeyEvent{Code: KeyRune, Rune: ' ', Mods: ModCtrl}, "\x00"},
		{"alt+c", KeyEvent{Code: KeyRune, Rune: 'c', Mods: ModAlt}, "\x1bc"},
		{"alt+x", KeyEvent{Code: KeyRune, Rune: 'x', Mods: ModAlt}, "\x1bx"},
		{"alt+ctrl+a", KeyEvent{Code: KeyRune, Rune: 'a', Mods: ModAlt | ModCtrl}, "\x1b\x01"},
		{"alt+ctrl+]", KeyEvent{Code: KeyRune, Rune: ']', Mods: ModAlt | ModCtrl}, "\x1b\x1d"},
		{"enter", KeyEvent{Code: KeyEnter}, "\r"},
		{"tab", KeyEvent{Code: KeyTab}, "\t"},
		{"backspace", KeyEvent{Code: KeyBackspace}, "\x7f"},
		{"escape", KeyEvent{Code: KeyEscape}, "\x1b"},
		{"up", KeyEvent{Code: KeyUp}, "\x1b[A"},
		{"down", KeyEvent{Code: KeyDown}, "\x1b[B"},
		{"right", KeyEvent{Code: KeyRight}, "\x1b[C"},
		{"left", KeyEvent{Code: KeyLeft}, "\x1b[D"},
		{"home", KeyEvent{Code: KeyHome}, "\x1b[H"},
		{"end", KeyEvent{Code: KeyEnd}, "\x1b[F"},
		{"pgup", KeyEvent{Code: KeyPageUp}, "\x1b[5~"},
		{"pgdn", KeyEvent{Code: KeyPageDown}, "\x1b[6~"},
		{"insert", KeyEvent{Code: KeyInsert}, "\x1b[2~"},
		{"delete", KeyEvent{Code: KeyDelete}, "\x1b[3~"},
		{"f1", KeyEvent{Code: KeyF1}, "\x1bOP"},
		{"f4", KeyEvent{Code: KeyF4}, "\x1bOS"},
		{"f5", KeyEvent{Code: KeyF5}, "\x1b[15~"},
		{"f6", KeyEvent{Code: KeyF6}, "\x1b[17~"},
		{"f10", KeyEvent{Code: KeyF10}, "\x1b[21~"},
		{"f11", KeyEvent{Code: KeyF11}, "\x1b[23~"},
		{"f12", KeyEvent{Code: KeyF12}, "\x1b[24~"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeKey(tt.ev); string(got) != tt.want {
				t.Errorf("EncodeKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeKeyUnencodable(t *testing.T) {
	for _, ev := range []KeyEvent{
		{Code: KeyUp, Mods: ModCtrl},
		{Code: KeyF1, Mods: ModAlt},
		{Code: KeyRune, Rune: '1', Mods: ModCtrl},
		{Code: KeyUnknown},
	} {
		if got := EncodeKey(ev); got != nil {
			t.Errorf("EncodeKey(%+v) = %q, want nil", ev, got)
		}
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	keys := []KeyEvent{
		{Code: KeyRune, Rune: 'q'},
		{Code: KeyRune, Rune: 'Q'},
		{Code: KeyRune, Rune: '日'},
		{Code: KeyRune, Rune: 'x', Mods: ModCtrl},
		{Code: KeyRune, Rune: ']', Mods: ModCtrl},
		{Code: KeyRune, Rune: ' ', Mods: ModCtrl},
		{Code: KeyRune, Rune: 'c', Mods: ModAlt},
		{Code: KeyRune, Rune: 'ü', Mods: ModAlt},
		{Code: KeyRune, Rune: 'c', Mods: ModAlt | ModCtrl},
		{Code: KeyRune, Rune: '\\', Mods: ModAlt | ModCtrl},
		{Code: KeyEnter},
		{Code: KeyTab},
		{Code: KeyBackspace},
		{Code: KeyUp},
		{Code: KeyDown},
		{Code: KeyLeft},
		{Code: KeyRight},
		{Code: KeyHome},
		{Code: KeyEnd},
		{Code: KeyPageUp},
		{Code: KeyPageDown},
		{Code: KeyInsert},
		{Code: KeyDelete},
		{Code: KeyF1},
		{Code: KeyF2},
		{Code: KeyF3},
		{Code: KeyF4},
		{Code: KeyF5},
		{Code: KeyF6},
		{Code: KeyF7},
		{Code: KeyF8},
		{Code: KeyF9},
		{Code: KeyF10},
		{Code: KeyF11},
		{Code: KeyF12},
	}

	for _, want := range keys {
		raw := EncodeKey(want)
		var dec KeyDecoder
		got := dec.Decode(raw)
		if len(got) != 1 {
			t.Fatalf("Decode(%q) produced %d events", raw, len(got))
		}
		if got[0].Code != want.Code || got[0].Rune != want.Rune || got[0].Mods != want.Mods {
			t.Errorf("Decode(%q) = %+v, want %+v", raw, got[0], want)
		}
		if !bytes.Equal(got[0].Raw, raw) {
			t.Errorf("Raw = %q, want %q", got[0].Raw, raw)
		}
	}
}

func TestDecodeSequences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  KeyCode
		mods  int
	}{
		{"ctrl+up", "\x1b[1;5A", KeyUp, ModCtrl},
		{"shift+right", "\x1b[1;2C", KeyRight, ModShift},
		{"alt+shift+f3", "\x1b[1;4R", KeyF3, ModAlt | ModShift},
		{"ctrl+delete", "\x1b[3;5~", KeyDelete, ModCtrl},
		{"home variant", "\x1b[1~", KeyHome, 0},
		{"end variant", "\x1b[4~", KeyEnd, 0},
		{"ss3 arrow", "\x1bOA", KeyUp, 0},
		{"back tab", "\x1b[Z", KeyUnknown, 0},
		{"sgr mouse", "\x1b[<0;10;5M", KeyUnknown, 0},
		{"lone escape", "\x1b", KeyEscape, 0},
		{"ctrl+h", "\x08", KeyRune, ModCtrl},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dec KeyDecoder
			got := dec.Decode([]byte(tt.input))
			if len(got) != 1 {
				t.Fatalf("got %d events: %+v", len(got), got)
			}
			if got[0].Code != tt.code || got[0].Mods != tt.mods {
				t.Errorf("got code %d mods %d, want code %d mods %d", got[0].Code, got[0].Mods, tt.code, tt.mods)
			}
		})
	}
}

func TestDecodeSplitSequence(t *testing.T) {
	var dec KeyDecoder
	if got := dec.Decode([]byte("a\x1b[1")); len(got) != 1 || got[0].Rune != 'a' {
		t.Fatalf("first chunk: %+v", got)
	}
	got := dec.Decode([]byte(";5D"))
	if len(got) != 1 || got[0].Code != KeyLeft || got[0].Mods != ModCtrl {
		t.Fatalf("second chunk: %+v", got)
	}
	if string(got[0].Raw) != "\x1b[1;5D" {
		t.Errorf("Raw = %q", got[0].Raw)
	}

	// A multi-byte rune split across reads.
	r := []byte("é")
	if got := dec.Decode(r[:1]); len(got) != 0 {
		t.Fatalf("partial rune decoded: %+v", got)
	}
	if got := dec.Decode(r[1:]); len(got) != 1 || got[0].Rune != 'é' {
		t.Fatalf("completed rune: %+v", got)
	}
}

func TestDecodeMany(t *testing.T) {
	var dec KeyDecoder
	got := dec.Decode([]byte("ls\r\x1b[A\x03"))
	want := []KeyCode{KeyRune, KeyRune, KeyEnter, KeyUp, KeyRune}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Code != want[i] {
			t.Errorf("event %d: code %d, want %d", i, got[i].Code, want[i])
		}
	}
}

func TestForwardBytesPassesThroughUnknown(t *testing.T) {
	var dec KeyDecoder
	for _, seq := range []string{"\x1b[1;5A", "\x1b[Z", "\x1b\x7f"} {
		evs := dec.Decode([]byte(seq))
		if len(evs) != 1 {
			t.Fatalf("Decode(%q) = %+v", seq, evs)
		}
		if got := forwardBytes(evs[0]); string(got) != seq {
			t.Errorf("forwardBytes(%q) = %q", seq, got)
		}
	}
}

func TestLookupHotkey(t *testing.T) {
	tests := []struct {
		ev   KeyEvent
		want Hotkey
	}{
		{KeyEvent{Code: KeyRune, Rune: 'c', Mods: ModAlt}, HotkeyToggle},
		{KeyEvent{Code: KeyRune, Rune: 'C', Mods: ModAlt}, HotkeyToggle},
		{KeyEvent{Code: KeyRune, Rune: 'p', Mods: ModAlt}, HotkeyPosition},
		{KeyEvent{Code: KeyRune, Rune: 'S', Mods: ModAlt}, HotkeySize},
		{KeyEvent{Code: KeyRune, Rune: 'a', Mods: ModAlt}, HotkeyCharset},
		{KeyEvent{Code: KeyRune, Rune: 't', Mods: ModAlt}, HotkeyTransparency},
		{KeyEvent{Code: KeyRune, Rune: 'x', Mods: ModAlt}, HotkeyNone},
		{KeyEvent{Code: KeyRune, Rune: 'c'}, HotkeyNone},
		{KeyEvent{Code: KeyRune, Rune: 'c', Mods: ModCtrl}, HotkeyNone},
		{KeyEvent{Code: KeyRune, Rune: 'c', Mods: ModAlt | ModCtrl}, HotkeyNone},
		{KeyEvent{Code: KeyRune, Rune: 's', Mods: ModAlt | ModCtrl}, HotkeyNone},
		{KeyEvent{Code: KeyUp, Mods: ModAlt}, HotkeyNone},
	}
	for _, tt := range tests {
		if got := LookupHotkey(tt.ev); got != tt.want {
			t.Errorf("LookupHotkey(%+v) = %v, want %v", tt.ev, got, tt.want)
		}
	}
}

func TestApplyHotkey(t *testing.T) {
	l := overlay.NewLayout()

	ApplyHotkey(l, HotkeyToggle)
	if !l.Visible {
		t.Error("toggle did not show the overlay")
	}
	ApplyHotkey(l, HotkeyPosition)
	if l.Position != overlay.BottomLeft {
		t.Errorf("position = %v, want bottom-left", l.Position)
	}
	ApplyHotkey(l, HotkeySize)
	if l.Size != overlay.Medium {
		t.Errorf("size = %v, want medium", l.Size)
	}
	ApplyHotkey(l, HotkeyCharset)
	if l.Charset != ascii.CharsetBlocks {
		t.Errorf("charset = %v, want blocks", l.Charset)
	}
	ApplyHotkey(l, HotkeyTransparency)
	if l.Transparency != 90 {
		t.Errorf("transparency = %d, want 90", l.Transparency)
	}
}
