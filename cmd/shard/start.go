package shard

import (
	gocontext "context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/opencurve/shard-launcher/pkg/cluster"
	"github.com/opencurve/shard-launcher/pkg/clusterd"
	"github.com/opencurve/shard-launcher/pkg/config"
	"github.com/opencurve/shard-launcher/pkg/readiness"
	"github.com/opencurve/shard-launcher/pkg/topology"
)

var StartCmd = &cobra.Command{
	Use:   "start",
	Short: "Create the data directories and launch every node",
	Args:  cobra.NoArgs,
}

func init() {
	options := NewStartOptions()
	options.AddFlags(StartCmd.Flags())
	StartCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return options.Run(cmd, newContext())
	}
}

type StartOptions struct {
	Topology *topology.Options

	// RegistryFile defaults to <base-dir>/.shard.tmp
	RegistryFile string

	ReadyTimeout   time.Duration
	ReadyInterval  time.Duration
	SkipReadyCheck bool
}

// NewStartOptions creates a new StartOptions with a default config
func NewStartOptions() *StartOptions {
	return &StartOptions{
		Topology:      topology.NewOptions(),
		ReadyTimeout:  30 * time.Second,
		ReadyInterval: 500 * time.Millisecond,
	}
}

// AddFlags adds flags to fs and binds them to options.
func (opts *StartOptions) AddFlags(fs *pflag.FlagSet) {
	addTopologyFlags(fs, opts.Topology)
	fs.StringVar(&opts.RegistryFile, "registry-file", opts.RegistryFile, "file recording the forked process ids (default <base-dir>/"+config.RegistryFileName+")")
	fs.DurationVar(&opts.ReadyTimeout, "ready-timeout", opts.ReadyTimeout, "how long to wait for the router to accept connections")
	fs.DurationVar(&opts.ReadyInterval, "ready-interval", opts.ReadyInterval, "interval between router connection attempts")
	fs.BoolVar(&opts.SkipReadyCheck, "skip-ready-check", opts.SkipReadyCheck, "do not wait for the router after launching it")
}

func addTopologyFlags(fs *pflag.FlagSet, opts *topology.Options) {
	fs.StringVar(&opts.BaseDir, "base-dir", opts.BaseDir, "directory holding node data directories and logs")
	fs.StringVar(&opts.MongodBinary, "mongod", opts.MongodBinary, "mongod binary")
	fs.StringVar(&opts.MongosBinary, "mongos", opts.MongosBinary, "mongos binary")
}

func (opts *StartOptions) registryPath() string {
	if opts.RegistryFile != "" {
		return opts.RegistryFile
	}
	return filepath.Join(opts.Topology.BaseDir, config.RegistryFileName)
}

func (opts *StartOptions) validate() error {
	if opts.Topology.BaseDir == "" {
		return errors.New("base-dir must not be empty")
	}
	if !opts.SkipReadyCheck && (opts.ReadyTimeout <= 0 || opts.ReadyInterval <= 0) {
		return errors.Errorf("ready-timeout and ready-interval must be positive, got %s and %s", opts.ReadyTimeout, opts.ReadyInterval)
	}
	return nil
}

func (opts *StartOptions) Run(cmd *cobra.Command, context *clusterd.Context) error {
	if err := opts.validate(); err != nil {
		return err
	}

	var check readiness.Check
	if !opts.SkipReadyCheck {
		check = readiness.TCPCheck(opts.ReadyInterval, opts.ReadyTimeout)
	}

	c := cluster.New(context, topology.Default(opts.Topology), opts.registryPath(), check)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = gocontext.Background()
	}
	if err := c.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start cluster")
	}

	status := c.Status()
	for _, n := range status.Launched {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", n.Name, n.PID)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "process ids written to %s\n", opts.registryPath())

	return nil
}
