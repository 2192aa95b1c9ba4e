package provision

import (
	"os"

	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"
)

var logger = capnslog.NewPackageLogger("github.com/opencurve/shard-launcher", "provision")

const dirPerm = 0o755

// EnsureDirs creates every directory in dirs, including missing parents.
// Directories that already exist are left alone, so it is safe to run again.
func EnsureDirs(dirs []string) error {
	for _, dir := range dirs {
		if err := ensureDir(dir); err != nil {
			return err
		}
	}
	return nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}
	logger.Debugf("directory %s is ready", dir)
	return nil
}
