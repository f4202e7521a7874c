package procattr

import (
	"os"
	"syscall"
)

// SignalGroup delivers sig to the whole process group of p. The negative
// PID targets every member of the group, not just the direct child.
func SignalGroup(p *os.Process, sig syscall.Signal) error {
	if p == nil {
		return nil
	}
	return syscall.Kill(-p.Pid, sig)
}

// KillGroup forcibly terminates the whole process group of p.
func KillGroup(p *os.Process) error {
	return SignalGroup(p, syscall.SIGKILL)
}
