package config

import "path/filepath"

// A DataPathMap holds where a node keeps its on-disk state and where it writes
// its log. Every log lives directly in the base directory, next to the data
// directories, as <base>/<name>.log.
type DataPathMap struct {
	// DataDir is the --dbpath of the node. Empty for the router, which keeps
	// no data of its own.
	DataDir string

	// LogPath is the --logpath of the node.
	LogPath string
}

// NewDataPathMap returns the paths of a data bearing node named name.
func NewDataPathMap(baseDir, name string) *DataPathMap {
	return &DataPathMap{
		DataDir: filepath.Join(baseDir, name),
		LogPath: filepath.Join(baseDir, name+".log"),
	}
}

// NewLogOnlyPathMap returns the paths of a node without a data directory.
func NewLogOnlyPathMap(baseDir, name string) *DataPathMap {
	return &DataPathMap{
		LogPath: filepath.Join(baseDir, name+".log"),
	}
}
