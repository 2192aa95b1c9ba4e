package config

import "github.com/coreos/pkg/capnslog"

var logger = capnslog.NewPackageLogger("github.com/opencurve/shard-launcher", "config")

const (
	// base directory holding node data dirs, logs and the registry
	DefaultBaseDir = "tools"

	// registry of forked process ids, one per line
	RegistryFileName = ".shard.tmp"

	// binaries
	DefaultMongodBinary = "mongod"
	DefaultMongosBinary = "mongos"

	// config servers are addressed through this host in --configdb
	DefaultConfigHost = "localhost"
)

const (
	ShardPort1 = 27017
	ShardPort2 = 37017

	ConfigPort1 = 47017
	ConfigPort2 = 47018
	ConfigPort3 = 47019

	RouterPort = 57017
)

const (
	// argument templates, split on spaces before substitution
	MongodArgsTemplate = "--port ${service_port} --dbpath ${data_dir} --logpath ${log_path} --fork --${service_role}"
	MongosArgsTemplate = "--port ${service_port} --logpath ${log_path} --fork --configdb ${cluster_configdb_addr}"
)
