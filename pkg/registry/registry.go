package registry

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"
)

var logger = capnslog.NewPackageLogger("github.com/opencurve/shard-launcher", "registry")

// Writer records forked process ids, one per line, for a later teardown.
// It is not safe for concurrent use.
type Writer struct {
	path   string
	file   *os.File
	count  int
	closed bool
}

// Create opens path for writing, truncating what a previous run left behind.
// Missing parent directories are created.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create directory of registry %s", path)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create registry %s", path)
	}
	logger.Debugf("registry %s opened", path)

	return &Writer{path: path, file: file}, nil
}

// Count is the number of ids appended so far.
func (w *Writer) Count() int { return w.count }

// Append writes pid and a line terminator and syncs the file, so every id
// appended before a failure is on disk.
func (w *Writer) Append(pid string) error {
	if w.closed {
		return errors.Errorf("registry %s is closed", w.path)
	}
	if pid == "" || strings.ContainsAny(pid, "\r\n") {
		return errors.Errorf("invalid process id %q", pid)
	}

	if _, err := w.file.WriteString(pid + "\n"); err != nil {
		return errors.Wrapf(err, "failed to write process id %s to registry %s", pid, w.path)
	}
	if err := w.file.Sync(); err != nil {
		return errors.Wrapf(err, "failed to sync registry %s", w.path)
	}
	w.count++

	return nil
}

// Close closes the file. Calling it more than once is fine.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.file.Close(); err != nil {
		return errors.Wrapf(err, "failed to close registry %s", w.path)
	}
	logger.Debugf("registry %s closed with %d ids", w.path, w.count)
	return nil
}

// Load reads the ids of a registry file in the order they were written.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open registry %s", path)
	}
	defer file.Close()

	var pids []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		pids = append(pids, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to scan registry %s", path)
	}

	return pids, nil
}
