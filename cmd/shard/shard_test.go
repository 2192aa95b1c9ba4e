package shard

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/opencurve/shard-launcher/api/v1"
	"github.com/opencurve/shard-launcher/pkg/clusterd"
	"github.com/opencurve/shard-launcher/pkg/registry"
	"github.com/opencurve/shard-launcher/pkg/util/exec"
)

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetContext(context.Background())
	return cmd, out
}

func TestPlanText(t *testing.T) {
	cmd, out := newTestCommand()
	opts := NewPlanOptions()

	require.NoError(t, opts.Run(cmd))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "mongod --port 27017 --dbpath "+filepath.Join("tools", "s1")+" --logpath "+filepath.Join("tools", "s1.log")+" --fork --shardsvr", lines[0])
	assert.Equal(t, "mongos --port 57017 --logpath "+filepath.Join("tools", "mongos.log")+" --fork --configdb localhost:47017,localhost:47018,localhost:47019", lines[5])
}

func TestPlanJSON(t *testing.T) {
	cmd, out := newTestCommand()
	opts := NewPlanOptions()
	opts.Output = "json"
	opts.Topology.MongodBinary = "/opt/mongo/bin/mongod"

	require.NoError(t, opts.Run(cmd))
	var specs []v1.NodeSpec
	require.NoError(t, json.Unmarshal(out.Bytes(), &specs))
	require.Len(t, specs, 6)
	assert.Equal(t, "cfg2", specs[3].Name)
	assert.Equal(t, "/opt/mongo/bin/mongod", specs[3].Binary)
	assert.Equal(t, 47018, specs[3].Port)
	assert.Empty(t, specs[5].DataDir)
}

func TestPlanUnknownOutput(t *testing.T) {
	cmd, _ := newTestCommand()
	opts := NewPlanOptions()
	opts.Output = "yaml"
	assert.Error(t, opts.Run(cmd))
}

func TestStartRun(t *testing.T) {
	cmd, out := newTestCommand()
	opts := NewStartOptions()
	opts.Topology.BaseDir = filepath.Join(t.TempDir(), "tools")
	opts.SkipReadyCheck = true

	next := 0
	clusterContext := &clusterd.Context{
		Executor: &exec.MockExecutor{
			MockExecuteCommandWithOutput: func(_ context.Context, command string, arg ...string) (string, error) {
				next++
				return fmt.Sprintf("forked process: %d%d%d%d%d", next, next, next, next, next), nil
			},
		},
		Log: logr.Discard(),
	}

	require.NoError(t, opts.Run(cmd, clusterContext))

	registryPath := filepath.Join(opts.Topology.BaseDir, ".shard.tmp")
	pids, err := registry.Load(registryPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"11111", "22222", "33333", "44444", "55555", "66666"}, pids)
	assert.Contains(t, out.String(), "mongos\t66666")
	assert.Contains(t, out.String(), registryPath)
}

func TestStartRunRegistryFile(t *testing.T) {
	cmd, _ := newTestCommand()
	opts := NewStartOptions()
	opts.Topology.BaseDir = filepath.Join(t.TempDir(), "tools")
	opts.RegistryFile = filepath.Join(t.TempDir(), "pids")
	opts.SkipReadyCheck = true

	clusterContext := &clusterd.Context{
		Executor: &exec.MockExecutor{
			MockExecuteCommandWithOutput: func(context.Context, string, ...string) (string, error) {
				return "forked process: 999", nil
			},
		},
	}

	require.NoError(t, opts.Run(cmd, clusterContext))
	pids, err := registry.Load(opts.RegistryFile)
	require.NoError(t, err)
	assert.Len(t, pids, 6)
}

func TestStartRunFailure(t *testing.T) {
	cmd, _ := newTestCommand()
	opts := NewStartOptions()
	opts.Topology.BaseDir = filepath.Join(t.TempDir(), "tools")
	opts.SkipReadyCheck = true

	clusterContext := &clusterd.Context{
		Executor: &exec.MockExecutor{
			MockExecuteCommandWithOutput: func(context.Context, string, ...string) (string, error) {
				return "", fmt.Errorf("exec: \"mongod\": executable file not found in $PATH")
			},
		},
	}

	err := opts.Run(cmd, clusterContext)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start cluster")
	assert.Contains(t, err.Error(), "executable file not found")
}

func TestStartOptionsValidate(t *testing.T) {
	opts := NewStartOptions()
	assert.NoError(t, opts.validate())

	opts.ReadyTimeout = 0
	assert.Error(t, opts.validate())
	opts.SkipReadyCheck = true
	assert.NoError(t, opts.validate())

	opts.Topology.BaseDir = ""
	assert.Error(t, opts.validate())
}

func TestStartFlags(t *testing.T) {
	cmd := &cobra.Command{}
	opts := NewStartOptions()
	opts.AddFlags(cmd.Flags())

	require.NoError(t, cmd.Flags().Parse([]string{"--base-dir", "/tmp/x", "--mongos", "/bin/mongos", "--ready-timeout", "5s"}))
	assert.Equal(t, "/tmp/x", opts.Topology.BaseDir)
	assert.Equal(t, "/bin/mongos", opts.Topology.MongosBinary)
	assert.Equal(t, "mongod", opts.Topology.MongodBinary)
	assert.Equal(t, filepath.Join("/tmp/x", ".shard.tmp"), opts.registryPath())
	assert.Equal(t, "5s", opts.ReadyTimeout.String())
}

func TestRootCommandStarts(t *testing.T) {
	assert.True(t, RootCmd.SilenceErrors)
	assert.True(t, RootCmd.SilenceUsage)

	var commands []string
	saved := newContext
	defer func() { newContext = saved }()
	newContext = func() *clusterd.Context {
		return &clusterd.Context{
			Executor: &exec.MockExecutor{
				MockExecuteCommandWithOutput: func(_ context.Context, command string, arg ...string) (string, error) {
					commands = append(commands, command)
					return fmt.Sprintf("forked process: %d", 100+len(commands)), nil
				},
			},
			Log: logr.Discard(),
		}
	}

	base := filepath.Join(t.TempDir(), "tools")
	out := &bytes.Buffer{}
	RootCmd.SetOut(out)
	RootCmd.SetErr(out)
	RootCmd.SetArgs([]string{"--base-dir", base, "--skip-ready-check"})
	defer RootCmd.SetArgs(nil)

	require.NoError(t, RootCmd.ExecuteContext(context.Background()))
	assert.Equal(t, []string{"mongod", "mongod", "mongod", "mongod", "mongod", "mongos"}, commands)

	pids, err := registry.Load(filepath.Join(base, ".shard.tmp"))
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "102", "103", "104", "105", "106"}, pids)
	assert.NotContains(t, out.String(), "Usage:")
}

func TestRootCommandErrorNotPrinted(t *testing.T) {
	saved := newContext
	defer func() { newContext = saved }()
	newContext = func() *clusterd.Context {
		return &clusterd.Context{
			Executor: &exec.MockExecutor{
				MockExecuteCommandWithOutput: func(context.Context, string, ...string) (string, error) {
					return "", fmt.Errorf("exit status 48")
				},
			},
		}
	}

	out := &bytes.Buffer{}
	RootCmd.SetOut(out)
	RootCmd.SetErr(out)
	RootCmd.SetArgs([]string{"--base-dir", filepath.Join(t.TempDir(), "tools"), "--skip-ready-check"})
	defer RootCmd.SetArgs(nil)

	err := RootCmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 48")
	assert.NotContains(t, out.String(), "exit status 48")
}
