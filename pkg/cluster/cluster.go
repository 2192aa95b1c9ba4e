package cluster

import (
	"context"

	"emperror.dev/errors"
	"github.com/coreos/pkg/capnslog"
	"github.com/go-logr/logr"
	"github.com/google/uuid"

	v1 "github.com/opencurve/shard-launcher/api/v1"
	"github.com/opencurve/shard-launcher/pkg/clusterd"
	"github.com/opencurve/shard-launcher/pkg/launcher"
	"github.com/opencurve/shard-launcher/pkg/provision"
	"github.com/opencurve/shard-launcher/pkg/readiness"
	"github.com/opencurve/shard-launcher/pkg/registry"
	"github.com/opencurve/shard-launcher/pkg/topology"
)

var logger = capnslog.NewPackageLogger("github.com/opencurve/shard-launcher", "cluster")

// Cluster starts the nodes of a local test cluster one after another and
// records the forked process id of each in the registry file.
type Cluster struct {
	Nodes        []*topology.Node
	RegistryPath string

	// RouterCheck waits for the router after it has been launched. A nil
	// check skips the wait.
	RouterCheck readiness.Check

	launcher *launcher.Launcher
	registry *registry.Writer
	log      logr.Logger
	status   v1.ClusterStatus
}

func New(c *clusterd.Context, nodes []*topology.Node, registryPath string, check readiness.Check) *Cluster {
	runID := uuid.New().String()

	log := c.Log
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	return &Cluster{
		Nodes:        nodes,
		RegistryPath: registryPath,
		RouterCheck:  check,
		launcher:     launcher.New(c.Executor),
		log:          log.WithValues("run", runID),
		status: v1.ClusterStatus{
			RunID: runID,
			Phase: v1.ClusterInit,
		},
	}
}

// Status returns a copy of the observed state of the start.
func (c *Cluster) Status() v1.ClusterStatus {
	status := c.status
	status.Launched = append([]v1.LaunchedNode(nil), c.status.Launched...)
	return status
}

func (c *Cluster) setPhase(phase v1.ClusterPhase) {
	c.log.V(1).Info("phase changed", "from", c.status.Phase, "to", phase)
	c.status.Phase = phase
}

// Start opens the registry, creates the data directories, launches every
// node in order and waits for the router. The first failure stops the start;
// the registry then holds the ids of the nodes launched before it.
func (c *Cluster) Start(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			phase := c.status.Phase
			c.setPhase(v1.ClusterAborted)
			c.status.Message = err.Error()
			c.log.Error(err, "cluster start aborted", "phase", phase, "launched", len(c.status.Launched))
		}
	}()

	reg, err := registry.Create(c.RegistryPath)
	if err != nil {
		return errors.WithDetails(err, "phase", c.status.Phase)
	}
	c.registry = reg
	defer func() {
		err = errors.Combine(err, reg.Close())
	}()
	c.setPhase(v1.ClusterRegistryOpened)

	if err := provision.EnsureDirs(topology.DataDirs(c.Nodes)); err != nil {
		return errors.WithDetails(err, "phase", c.status.Phase)
	}
	c.setPhase(v1.ClusterDirsCreated)

	c.setPhase(v1.ClusterLaunching)
	for _, node := range c.Nodes {
		if err := ctx.Err(); err != nil {
			return errors.WithDetails(errors.Wrapf(err, "start interrupted before node %s", node.Name), "phase", c.status.Phase)
		}
		if err := c.launchNode(ctx, reg, node); err != nil {
			return err
		}
	}

	if router := topology.Router(c.Nodes); router != nil && c.RouterCheck != nil {
		addr := router.GetServiceAddr()
		c.log.Info("waiting for router", "addr", addr)
		if err := c.RouterCheck(ctx, addr); err != nil {
			return errors.WithDetails(errors.Wrapf(err, "router %s is not ready", router.Name), "phase", c.status.Phase)
		}
		c.setPhase(v1.ClusterRouterReady)
	}

	if err := reg.Close(); err != nil {
		return errors.WithDetails(err, "phase", c.status.Phase)
	}
	c.setPhase(v1.ClusterIdentifiersWritten)

	c.setPhase(v1.ClusterDone)
	logger.Infof("cluster started, %d process ids recorded in %s", reg.Count(), c.RegistryPath)

	return nil
}

func (c *Cluster) launchNode(ctx context.Context, reg *registry.Writer, node *topology.Node) error {
	log := c.log.WithValues("node", node.Name, "role", node.Role, "port", node.Port)

	pid, err := c.launcher.LaunchNode(ctx, node)
	if err != nil {
		return errors.WithDetails(err, "phase", c.status.Phase, "node", node.Name)
	}

	if err := reg.Append(pid); err != nil {
		return errors.WithDetails(err, "phase", c.status.Phase, "node", node.Name)
	}
	c.status.Launched = append(c.status.Launched, v1.LaunchedNode{Name: node.Name, PID: pid})
	log.Info("node launched", "pid", pid)

	return nil
}
