//go:build !windows

package runner

import (
	"errors"
	"os/exec"
	"syscall"
)

// setProcAttr puts the child in its own process group so terminal signals
// aimed at the server do not reach a robot mid-move.
func setProcAttr(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

func alive(pid int) bool {
	err := syscall.Kill(pid, 0)
	// EPERM means the process exists but belongs to another user
	return err == nil || errors.Is(err, syscall.EPERM)
}
