//go:build !linux

package procattr

import (
	"os/exec"
	"syscall"
)

// Set puts the child in its own process group so Stop can signal the agent
// and its descendants together. Pdeathsig is Linux-only; other platforms
// rely on group signalling alone.
func Set(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
