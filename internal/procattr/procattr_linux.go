//go:build linux

// Package procattr configures spawned agent processes so they cannot
// outlive the host.
package procattr

import (
	"os/exec"
	"syscall"
)

// Set puts the child in its own process group and arranges for SIGTERM
// delivery if the host dies first (Pdeathsig). The group lets Stop signal
// the agent and everything it forked in one call.
func Set(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}
