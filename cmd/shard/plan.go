package shard

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	v1 "github.com/opencurve/shard-launcher/api/v1"
	"github.com/opencurve/shard-launcher/pkg/topology"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var PlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the commands start would run, without running them",
	Args:  cobra.NoArgs,
}

func init() {
	options := NewPlanOptions()
	options.AddFlags(PlanCmd.Flags())
	PlanCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return options.Run(cmd)
	}
}

type PlanOptions struct {
	Topology *topology.Options
	Output   string
}

func NewPlanOptions() *PlanOptions {
	return &PlanOptions{
		Topology: topology.NewOptions(),
		Output:   "text",
	}
}

func (opts *PlanOptions) AddFlags(fs *pflag.FlagSet) {
	addTopologyFlags(fs, opts.Topology)
	fs.StringVarP(&opts.Output, "output", "o", opts.Output, "output format (text, json)")
}

func (opts *PlanOptions) Run(cmd *cobra.Command) error {
	nodes := topology.Default(opts.Topology)

	switch opts.Output {
	case "text":
		for _, n := range nodes {
			line, err := n.CommandLine()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
	case "json":
		specs := make([]v1.NodeSpec, 0, len(nodes))
		for _, n := range nodes {
			spec, err := n.Spec()
			if err != nil {
				return err
			}
			specs = append(specs, spec)
		}
		data, err := json.MarshalIndent(specs, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode plan")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	default:
		return errors.Errorf("unknown output format %q", opts.Output)
	}

	return nil
}
