package topology

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"

	v1 "github.com/opencurve/shard-launcher/api/v1"
	"github.com/opencurve/shard-launcher/pkg/config"
)

var logger = capnslog.NewPackageLogger("github.com/opencurve/shard-launcher", "topology")

// Node implements config.ConfigInterface
var _ config.ConfigInterface = &Node{}

// Node describes how to launch one server of the test cluster.
type Node struct {
	Name   string
	Role   string
	Host   string
	Port   int
	Binary string

	DataPathMap *config.DataPathMap

	// comma separated host:port of the config servers
	ClusterConfigDBAddr string
}

func (n *Node) GetServiceRole() string { return n.Role }
func (n *Node) GetServicePort() string { return strconv.Itoa(n.Port) }
func (n *Node) GetDataDir() string     { return n.DataPathMap.DataDir }
func (n *Node) GetLogPath() string     { return n.DataPathMap.LogPath }

func (n *Node) GetClusterConfigDBAddr() string { return n.ClusterConfigDBAddr }

// GetServiceAddr is the host:port clients connect to.
func (n *Node) GetServiceAddr() string { return net.JoinHostPort(n.Host, n.GetServicePort()) }

// Args renders the command line arguments of the node from its role template.
func (n *Node) Args() ([]string, error) {
	var template string
	switch n.Role {
	case config.ROLE_SHARD, config.ROLE_CONFIG:
		template = config.MongodArgsTemplate
	case config.ROLE_ROUTER:
		template = config.MongosArgsTemplate
	default:
		return nil, errors.Errorf("unknown role %q of node %s", n.Role, n.Name)
	}

	args, err := config.RenderArgs(template, n)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to render arguments of node %s", n.Name)
	}
	return args, nil
}

// CommandLine is the node's command as a single printable line.
func (n *Node) CommandLine() (string, error) {
	args, err := n.Args()
	if err != nil {
		return "", err
	}
	return strings.Join(append([]string{n.Binary}, args...), " "), nil
}

// Spec converts the node to its api representation.
func (n *Node) Spec() (v1.NodeSpec, error) {
	args, err := n.Args()
	if err != nil {
		return v1.NodeSpec{}, err
	}
	return v1.NodeSpec{
		Name:    n.Name,
		Role:    n.Role,
		Port:    n.Port,
		DataDir: n.GetDataDir(),
		LogPath: n.GetLogPath(),
		Binary:  n.Binary,
		Args:    args,
	}, nil
}

// Options decides where the default topology keeps its files and which
// binaries it runs.
type Options struct {
	BaseDir      string
	Host         string
	MongodBinary string
	MongosBinary string
}

// NewOptions returns the options of the fixed local test cluster.
func NewOptions() *Options {
	return &Options{
		BaseDir:      config.DefaultBaseDir,
		Host:         config.DefaultConfigHost,
		MongodBinary: config.DefaultMongodBinary,
		MongosBinary: config.DefaultMongosBinary,
	}
}

// Default returns the nodes of the test cluster in launch order:
// two shard servers, three config servers, then the router.
func Default(opts *Options) []*Node {
	shardPorts := []int{config.ShardPort1, config.ShardPort2}
	configPorts := []int{config.ConfigPort1, config.ConfigPort2, config.ConfigPort3}

	configDBAddr := joinAddrs(opts.Host, configPorts)

	nodes := make([]*Node, 0, len(shardPorts)+len(configPorts)+1)
	for i, port := range shardPorts {
		nodes = append(nodes, newMongod(opts, fmt.Sprintf("s%d", i+1), config.ROLE_SHARD, port))
	}
	for i, port := range configPorts {
		nodes = append(nodes, newMongod(opts, fmt.Sprintf("cfg%d", i+1), config.ROLE_CONFIG, port))
	}
	nodes = append(nodes, &Node{
		Name:        config.ROLE_ROUTER,
		Role:        config.ROLE_ROUTER,
		Host:        opts.Host,
		Port:        config.RouterPort,
		Binary:      opts.MongosBinary,
		DataPathMap: config.NewLogOnlyPathMap(opts.BaseDir, config.ROLE_ROUTER),
	})

	for _, n := range nodes {
		n.ClusterConfigDBAddr = configDBAddr
	}
	logger.Debugf("topology of %d nodes under %s, configdb %s", len(nodes), opts.BaseDir, configDBAddr)

	return nodes
}

func newMongod(opts *Options, name, role string, port int) *Node {
	return &Node{
		Name:        name,
		Role:        role,
		Host:        opts.Host,
		Port:        port,
		Binary:      opts.MongodBinary,
		DataPathMap: config.NewDataPathMap(opts.BaseDir, name),
	}
}

// DataDirs lists the data directories of nodes, in node order.
func DataDirs(nodes []*Node) []string {
	dirs := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.GetDataDir() == "" {
			continue
		}
		dirs = append(dirs, n.GetDataDir())
	}
	return dirs
}

// Router returns the last router node of nodes, or nil.
func Router(nodes []*Node) *Node {
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i].Role == config.ROLE_ROUTER {
			return nodes[i]
		}
	}
	return nil
}

func joinAddrs(host string, ports []int) string {
	addrs := make([]string, 0, len(ports))
	for _, port := range ports {
		addrs = append(addrs, net.JoinHostPort(host, strconv.Itoa(port)))
	}
	return strings.Join(addrs, ",")
}
