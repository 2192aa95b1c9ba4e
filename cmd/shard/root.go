package shard

import (
	goflag "flag"
	"os"

	"github.com/coreos/pkg/capnslog"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/opencurve/shard-launcher/pkg/clusterd"
)

var (
	verbose bool

	// newContext builds the context a start runs with.
	newContext = clusterd.NewContext

	// rootStartOptions drive a bare shard-launcher invocation, which behaves
	// like start.
	rootStartOptions = NewStartOptions()

	RootCmd = &cobra.Command{
		Use:   "shard-launcher",
		Short: "Start a local sharded MongoDB cluster for tests",
		Long: `shard-launcher starts two shard servers, three config servers and a mongos
router on localhost, and records the forked process ids to a registry file
so a teardown step can stop them later. Run without a subcommand it does
the same as "shard-launcher start".`,
		Args: cobra.NoArgs,
		// main reports the error once
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootStartOptions.Run(cmd, newContext())
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootStartOptions.AddFlags(RootCmd.Flags())
}

func setupLogging() {
	capnslog.SetFormatter(capnslog.NewPrettyFormatter(os.Stderr, false))
	capnslog.SetGlobalLogLevel(capnslog.INFO)

	fs := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(fs)
	_ = fs.Set("logtostderr", "true")
	if verbose {
		capnslog.SetGlobalLogLevel(capnslog.DEBUG)
		_ = fs.Set("v", "1")
	}
}
