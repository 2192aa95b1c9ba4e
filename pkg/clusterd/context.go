package clusterd

import (
	"github.com/go-logr/logr"
	"k8s.io/klog/v2"

	"github.com/opencurve/shard-launcher/pkg/util/exec"
)

type Context struct {
	// Executor runs the server binaries
	Executor exec.Executor

	// Log is the structured logger of a cluster start
	Log logr.Logger
}

// NewContext returns a Context that runs real commands and logs through klog.
func NewContext() *Context {
	return &Context{
		Executor: &exec.CommandExecutor{},
		Log:      klog.NewKlogr().WithName("shard-launcher"),
	}
}
