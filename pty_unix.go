//go:build unix

package camterm

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// UnixPTY implements PTY for Unix systems (Linux, macOS)
type UnixPTY struct {
	master *os.File
	slave  *os.File
}

// NewPTY creates a new PTY
func NewPTY() (PTY, error) {
	return newUnixPTY()
}

func newUnixPTY() (*UnixPTY, error) {
	master, slaveName, err := openMaster()
	if err != nil {
		return nil, err
	}

	// Open slave - don't use O_NOCTTY so it can become controlling terminal
	slave, err := os.OpenFile(slaveName, os.O_RDWR, 0)
	if err != nil {
		master.Close()
		return nil, err
	}

	return &UnixPTY{
		master: master,
		slave:  slave,
	}, nil
}

// Start starts the PTY with the given command
func (p *UnixPTY) Start(cmd *exec.Cmd) error {
	if p.slave == nil {
		return errors.New("pty already started")
	}
	cmd.Stdin = p.slave
	cmd.Stdout = p.slave
	cmd.Stderr = p.slave

	// Ctty is the fd in the child's perspective (after dup2, it's 0)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		Ctty:    0,
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	// Close slave in parent - child has its own copy
	p.slave.Close()
	p.slave = nil

	return nil
}

// Read reads from the PTY
func (p *UnixPTY) Read(b []byte) (int, error) {
	return p.master.Read(b)
}

// Write writes to the PTY
func (p *UnixPTY) Write(b []byte) (int, error) {
	return p.master.Write(b)
}

// Resize resizes the PTY
func (p *UnixPTY) Resize(size Size) error {
	ws := &unix.Winsize{Row: size.Rows, Col: size.Cols}
	if err := unix.IoctlSetWinsize(int(p.master.Fd()), unix.TIOCSWINSZ, ws); err != nil {
		return fmt.Errorf("TIOCSWINSZ failed: %w", err)
	}
	return nil
}

// Close closes the PTY
func (p *UnixPTY) Close() error {
	if p.slave != nil {
		p.slave.Close()
	}
	return p.master.Close()
}
