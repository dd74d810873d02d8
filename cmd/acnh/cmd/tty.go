package cmd

import "os"

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// isStdinPipe reports whether stdin is fed by a pipe or file, as when a
// script drives `acnh shell`.
func isStdinPipe() bool {
	return !isTerminal(os.Stdin)
}

// resolveColor decides whether output is colored. colorFlag is the --color
// value (auto, always or never); noColor is --no-color or NO_COLOR and wins.
func resolveColor(colorFlag string, noColor bool) bool {
	if noColor || colorFlag == "never" {
		return false
	}
	return colorFlag == "always" || isTerminal(os.Stdout)
}
