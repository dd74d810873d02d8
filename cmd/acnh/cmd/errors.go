package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/corey/acnh/internal/config"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns actionable guidance when the store is locked. It
// distinguishes a live server, a stale port file, and an unknown holder.
func diagnoseDBLock(paths *config.Paths) string {
	if addr, ok := runningServer(paths); ok {
		return fmt.Sprintf("storage is locked by the running server at %s\n"+
			"  → stop it first (Ctrl-C in its terminal)\n"+
			"  → then retry your command", addr)
	}

	if _, err := os.Stat(paths.PortFile); err == nil {
		return fmt.Sprintf("storage is locked; a server port file exists but the server is not responding\n"+
			"  → a previous server may have crashed\n"+
			"  → find the process:  ps aux | grep 'acnh serve'\n"+
			"  → kill it:           kill <PID>\n"+
			"  → clean up:          rm %s", paths.PortFile)
	}

	return "storage is locked by another process\n" +
		"  → find the process:  ps aux | grep 'acnh'\n" +
		"  → kill it:           kill <PID>\n" +
		"  → then retry your command"
}
