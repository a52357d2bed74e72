package mender

import (
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// processAttrs places the agent in its own process group so that everything
// it spawns can be killed together.
func processAttrs() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// killProcessGroup kills the group led by proc.
func killProcessGroup(proc *os.Process) error {
	if proc == nil {
		return nil
	}
	err := syscall.Kill(-proc.Pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return os.ErrProcessDone
	}
	return err
}
