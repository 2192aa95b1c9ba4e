package config

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

/*
 * built-in variables:
 *
 * service:
 *   ${service_role}               "configsvr"
 *   ${service_port}               "47017"
 *   ${data_dir}                   "tools/cfg1"
 *   ${log_path}                   "tools/cfg1.log"
 *
 * cluster:
 *   ${cluster_configdb_addr}      "localhost:47017,localhost:47018,localhost:47019"
 */

const (
	REGEX_VARIABLE = `\${([^${}]+)}` // ${var_name}
)

const (
	ROLE_SHARD  = "shardsvr"
	ROLE_CONFIG = "configsvr"
	ROLE_ROUTER = "mongos"
)

var variableRegex = regexp.MustCompile(REGEX_VARIABLE)

type ConfigInterface interface {
	GetServiceRole() string
	GetServicePort() string
	GetDataDir() string
	GetLogPath() string
	// cluster
	GetClusterConfigDBAddr() string
}

func getValue(name string, dc ConfigInterface) (string, bool) {
	switch name {
	case "service_role":
		return dc.GetServiceRole(), true
	case "service_port":
		return dc.GetServicePort(), true
	case "data_dir":
		return dc.GetDataDir(), true
	case "log_path":
		return dc.GetLogPath(), true
	case "cluster_configdb_addr":
		return dc.GetClusterConfigDBAddr(), true
	}

	return "", false
}

// ReplaceConfigVars replaces vars in config string
func ReplaceConfigVars(confStr string, c ConfigInterface) (string, error) {
	var unknown []string
	replaced := variableRegex.ReplaceAllStringFunc(confStr, func(keyName string) string {
		name := keyName[2 : len(keyName)-1]
		value, ok := getValue(name, c)
		if !ok {
			unknown = append(unknown, name)
		}
		return value
	})

	if len(unknown) != 0 {
		logger.Errorf("unknown variables %v in %q", unknown, confStr)
		return "", errors.Errorf("unknown variables %s", strings.Join(unknown, ","))
	}

	return replaced, nil
}

// RenderArgs splits an argument template on whitespace and replaces the vars
// of each token, so a substituted value containing spaces stays one argument.
func RenderArgs(template string, c ConfigInterface) ([]string, error) {
	tokens := strings.Fields(template)
	args := make([]string, 0, len(tokens))
	for _, token := range tokens {
		arg, err := ReplaceConfigVars(token, c)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to render argument %q", token)
		}
		args = append(args, arg)
	}
	return args, nil
}
