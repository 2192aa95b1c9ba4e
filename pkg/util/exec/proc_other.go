//go:build windows

package exec

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {}
