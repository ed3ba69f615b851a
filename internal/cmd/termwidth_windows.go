//go:build windows

package cmd

// stdoutWidth is not probed on Windows; terminalWidth uses $COLUMNS instead.
func stdoutWidth() int {
	return 0
}
