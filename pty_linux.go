//go:build linux

package camterm

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// openMaster opens /dev/ptmx, unlocks the slave side and returns its path.
func openMaster() (*os.File, string, error) {
	master, err := os.OpenFile("/dev/ptmx", os.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, "", err
	}
	fd := int(master.Fd())

	// unlockpt
	if err := unix.IoctlSetPointerInt(fd, unix.TIOCSPTLCK, 0); err != nil {
		master.Close()
		return nil, "", fmt.Errorf("unlockpt failed: %w", err)
	}

	// ptsname
	n, err := unix.IoctlGetUint32(fd, unix.TIOCGPTN)
	if err != nil {
		master.Close()
		return nil, "", fmt.Errorf("ptsname failed: %w", err)
	}
	return master, "/dev/pts/" + strconv.Itoa(int(n)), nil
}
