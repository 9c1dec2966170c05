//go:build !unix

package windowing

import (
	"errors"
	"os"
)

func getTerminalSize(int) (int, int, error) {
	return 0, 0, errors.New("winsize ioctl not supported")
}

// Without SIGWINCH, hosts call Refresh themselves.
func notifyResize(chan os.Signal) {}

func stopResize(chan os.Signal) {}
