//go:build windows

package runner

import (
	"os"
	"os/exec"
)

func setProcAttr(cmd *exec.Cmd) {
	// No process group handling on Windows; the child is already detached
	// from the server's console events.
}

func alive(pid int) bool {
	// os.FindProcess opens a handle on Windows and fails for dead PIDs
	_, err := os.FindProcess(pid)
	return err == nil
}
