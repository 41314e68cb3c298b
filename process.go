//go:build unix

package camterm

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"golang.org/x/sys/unix"
)

// FallbackShell is used when neither the caller nor $SHELL names a shell.
const FallbackShell = "/bin/zsh"

// ResolveShell picks the shell to run: the first non-empty candidate,
// then $SHELL, then FallbackShell.
func ResolveShell(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return FallbackShell
}

// ExitStatus describes how the child process ended.
type ExitStatus struct {
	Code     int
	Signaled bool
}

// Success reports whether the child exited normally with status 0.
func (s ExitStatus) Success() bool {
	return !s.Signaled && s.Code == 0
}

// Process is a shell running on a pseudo-terminal.
type Process struct {
	mu     sync.Mutex
	pty    PTY
	cmd    *exec.Cmd
	status *ExitStatus
}

// Spawn starts shell on a new PTY of the given size. The child inherits the
// environment with TERM and COLORTERM set for 24-bit color.
func Spawn(shell string, size Size) (*Process, error) {
	pty, err := NewPTY()
	if err != nil {
		return nil, fmt.Errorf("failed to create PTY: %w", err)
	}
	return spawnOn(pty, shell, size)
}

func spawnOn(pty PTY, shell string, size Size) (*Process, error) {
	if err := pty.Resize(size); err != nil {
		pty.Close()
		return nil, fmt.Errorf("failed to size PTY: %w", err)
	}

	cmd := exec.Command(shell)
	cmd.Dir, _ = os.Getwd()
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)

	if err := pty.Start(cmd); err != nil {
		pty.Close()
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	return &Process{pty: pty, cmd: cmd}, nil
}

// Read reads child output from the PTY master.
func (p *Process) Read(b []byte) (int, error) {
	return p.pty.Read(b)
}

// Write sends input bytes to the child.
func (p *Process) Write(b []byte) (int, error) {
	return p.pty.Write(b)
}

// Resize propagates a new terminal size to the child.
func (p *Process) Resize(size Size) error {
	return p.pty.Resize(size)
}

// Pid returns the child's process id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// TryWait reports the child's exit status without blocking. It returns
// (status, true, nil) once the child has exited and (zero, false, nil)
// while it is still running.
func (p *Process) TryWait() (ExitStatus, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != nil {
		return *p.status, true, nil
	}

	var ws unix.WaitStatus
	pid, err := unix.Wait4(p.cmd.Process.Pid, &ws, unix.WNOHANG, nil)
	if err != nil {
		if errors.Is(err, unix.ECHILD) {
			p.status = &ExitStatus{}
			return *p.status, true, nil
		}
		return ExitStatus{}, false, fmt.Errorf("wait4: %w", err)
	}
	if pid == 0 {
		return ExitStatus{}, false, nil
	}
	p.status = exitStatusOf(ws)
	return *p.status, true, nil
}

// Close kills the child if it is still running, reaps it and closes the PTY.
// Errors are swallowed; teardown must not fail.
func (p *Process) Close() error {
	if _, exited, _ := p.TryWait(); !exited {
		p.cmd.Process.Kill()
		p.mu.Lock()
		var ws unix.WaitStatus
		if _, err := unix.Wait4(p.cmd.Process.Pid, &ws, 0, nil); err == nil {
			p.status = exitStatusOf(ws)
		}
		p.mu.Unlock()
	}
	p.pty.Close()
	return nil
}

func exitStatusOf(ws unix.WaitStatus) *ExitStatus {
	if ws.Signaled() {
		return &ExitStatus{Code: 128 + int(ws.Signal()), Signaled: true}
	}
	return &ExitStatus{Code: ws.ExitStatus()}
}
