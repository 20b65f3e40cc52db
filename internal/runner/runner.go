// Package runner starts operator scripts as child processes with their
// combined output redirected into a log file, and checks PID liveness.
package runner

import (
	"fmt"
	"os"
	"os/exec"
)

// Handle tracks one started child process.
type Handle struct {
	cmd     *exec.Cmd
	logFile *os.File

	PID int
}

// Start launches argv[0] with the remaining arguments, writing the child's
// stdout and stderr into logFile. The child runs in its own process group
// and is not waited on; call Wait from a goroutine to observe its exit.
func Start(argv []string, logFile *os.File) (*Handle, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	setProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &Handle{
		cmd:     cmd,
		logFile: logFile,
		PID:     cmd.Process.Pid,
	}, nil
}

// Wait blocks until the child exits, closes the log file, and returns the
// exit code. A wait error without an exit code (signal kill, wait failure)
// reports -1.
func (h *Handle) Wait() int {
	err := h.cmd.Wait()
	h.logFile.Close()

	code := h.cmd.ProcessState.ExitCode()
	if err != nil && code == 0 {
		code = -1
	}
	return code
}

// Alive reports whether a process with the given PID still exists.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	return alive(pid)
}
