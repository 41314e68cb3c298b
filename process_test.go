//go:build unix

package camterm

import (
	"io"
	"testing"
	"time"
)

func TestResolveShell(t *testing.T) {
	t.Setenv("SHELL", "/bin/fish")
	if got := ResolveShell("/bin/bash"); got != "/bin/bash" {
		t.Errorf("explicit shell = %q", got)
	}
	if got := ResolveShell("", ""); got != "/bin/fish" {
		t.Errorf("env shell = %q", got)
	}
	t.Setenv("SHELL", "")
	if got := ResolveShell(); got != FallbackShell {
		t.Errorf("fallback shell = %q, want %q", got, FallbackShell)
	}
}

func TestNewSize(t *testing.T) {
	tests := []struct {
		cols, rows int
		want       Size
	}{
		{120, 40, Size{Cols: 120, Rows: 40}},
		{0, 0, DefaultSize},
		{-5, 30, Size{Cols: 80, Rows: 30}},
		{100, 0, Size{Cols: 100, Rows: 24}},
	}
	for _, tt := range tests {
		if got := NewSize(tt.cols, tt.rows); got != tt.want {
			t.Errorf("NewSize(%d, %d) = %+v, want %+v", tt.cols, tt.rows, got, tt.want)
		}
	}
}

func TestSpawnTryWait(t *testing.T) {
	p, err := Spawn("/bin/sh", Size{Cols: 80, Rows: 24})
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer p.Close()

	go io.Copy(io.Discard, p)

	if _, exited, err := p.TryWait(); err != nil || exited {
		t.Fatalf("TryWait() before exit = exited %v, err %v", exited, err)
	}
	if _, err := p.Write([]byte("exit 3\n")); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		status, exited, err := p.TryWait()
		if err != nil {
			t.Fatalf("TryWait() failed: %v", err)
		}
		if exited {
			if status.Code != 3 || status.Success() {
				t.Errorf("status = %+v, want code 3", status)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("child did not exit")
}
