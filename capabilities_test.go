package camterm

import "testing"

func TestDetectHost(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		tty       bool
		wantDepth int
		wantTerm  string
	}{
		{"truecolor", map[string]string{"TERM": "xterm-256color", "COLORTERM": "truecolor"}, true, 24, "xterm-256color"},
		{"24bit", map[string]string{"TERM": "xterm", "COLORTERM": "24bit"}, true, 24, "xterm"},
		{"256", map[string]string{"TERM": "screen-256color"}, true, 256, "screen-256color"},
		{"basic", map[string]string{"TERM": "vt100"}, true, 8, "vt100"},
		{"dumb", map[string]string{"TERM": "dumb", "COLORTERM": "truecolor"}, true, 0, "dumb"},
		{"redirected", map[string]string{"TERM": "xterm-256color"}, false, 0, "xterm-256color"},
		{"unset", map[string]string{}, true, 8, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := DetectHost(func(k string) string { return tt.env[k] }, tt.tty, 100, 30)
			if caps.ColorDepth != tt.wantDepth || caps.TermType != tt.wantTerm {
				t.Errorf("DetectHost = %+v, want depth %d term %q", caps, tt.wantDepth, tt.wantTerm)
			}
			if caps.SupportsTrueColor() != (tt.wantDepth == 24) {
				t.Errorf("SupportsTrueColor = %v", caps.SupportsTrueColor())
			}
			if caps.Width != 100 || caps.Height != 30 {
				t.Errorf("size = %dx%d", caps.Width, caps.Height)
			}
		})
	}
}
