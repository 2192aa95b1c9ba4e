package launcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"

	"github.com/opencurve/shard-launcher/pkg/topology"
	"github.com/opencurve/shard-launcher/pkg/util/exec"
)

var logger = capnslog.NewPackageLogger("github.com/opencurve/shard-launcher", "launcher")

// LaunchError is returned when a node's command could not run or exited
// non-zero.
type LaunchError struct {
	Node    string
	Command string
	Output  string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch node %s (%s): %v: %s", e.Node, e.Command, e.Err, preview(e.Output))
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Launcher runs the command of a node and waits for it to return. The servers
// fork themselves into the background, so the command returns once the child
// has reported its process id.
type Launcher struct {
	executor exec.Executor
}

func New(executor exec.Executor) *Launcher {
	return &Launcher{executor: executor}
}

// Launch runs the node and returns its captured stdout.
func (l *Launcher) Launch(ctx context.Context, node *topology.Node) (string, error) {
	args, err := node.Args()
	if err != nil {
		return "", err
	}

	command := strings.Join(append([]string{node.Binary}, args...), " ")
	logger.Debugf("launching node %s: %s", node.Name, command)

	output, err := l.executor.ExecuteCommandWithOutput(ctx, node.Binary, args...)
	if err != nil {
		return output, &LaunchError{Node: node.Name, Command: command, Output: output, Err: err}
	}
	return output, nil
}

// LaunchNode launches the node and extracts the forked process id from its output.
func (l *Launcher) LaunchNode(ctx context.Context, node *topology.Node) (string, error) {
	output, err := l.Launch(ctx, node)
	if err != nil {
		return "", err
	}

	pid, err := ExtractPID(output)
	if err != nil {
		return "", errors.Wrapf(err, "failed to get process id of node %s", node.Name)
	}
	logger.Infof("node %s forked process %s", node.Name, pid)

	return pid, nil
}
