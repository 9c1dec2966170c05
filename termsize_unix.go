//go:build unix

package windowing

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

func getTerminalSize(fd int) (int, int, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}

func notifyResize(ch chan os.Signal) { signal.Notify(ch, syscall.SIGWINCH) }

func stopResize(ch chan os.Signal) { signal.Stop(ch) }
