package exec

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// waitDelay bounds how long a cancelled command may keep its output pipes
// open through children it left behind.
const waitDelay = 5 * time.Second

// Executor is the main interface for all the exec commands
type Executor interface {
	ExecuteCommandWithOutput(ctx context.Context, command string, arg ...string) (string, error)
}

// CommandExecutor is the type of the Executor
type CommandExecutor struct{}

// ExecuteCommandWithOutput executes a command and waits for it to exit. The
// trimmed stdout is returned even on failure; the stderr of a failed command
// is carried in the error. Cancelling ctx kills the command and every process
// it started in its process group.
func (*CommandExecutor) ExecuteCommandWithOutput(ctx context.Context, command string, arg ...string) (string, error) {
	logCommand(command, arg...)
	cmd := exec.CommandContext(ctx, command, arg...)
	setProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := strings.TrimSpace(stdout.String())
	if err == nil {
		return out, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, errors.Wrapf(ctxErr, "command %s interrupted", command)
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return out, errors.Wrapf(err, "command %s failed: %s", command, msg)
	}
	return out, errors.Wrapf(err, "command %s failed", command)
}

func logCommand(command string, arg ...string) {
	klog.Infof("Running command: %s %s", command, strings.Join(arg, " "))
}
