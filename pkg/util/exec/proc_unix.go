//go:build !windows

package exec

import (
	"os/exec"
	"syscall"
)

// setProcessGroup starts cmd in its own process group so cancellation also
// reaches the children it spawned. A daemon that already forked and called
// setsid is not in that group and survives.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
