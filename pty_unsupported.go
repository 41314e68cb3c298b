//go:build unix && !linux && !darwin

package camterm

import (
	"errors"
	"os"
)

func openMaster() (*os.File, string, error) {
	return nil, "", errors.New("pty: unsupported platform")
}
