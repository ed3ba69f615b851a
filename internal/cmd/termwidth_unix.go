//go:build !windows

package cmd

import (
	"os"

	"golang.org/x/sys/unix"
)

// stdoutWidth asks the tty behind stdout for its column count. It returns 0
// when stdout is redirected.
func stdoutWidth() int {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0
	}
	return int(ws.Col)
}
