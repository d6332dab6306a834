// Package save reads world save data, level.dat, playerdata entries and
// region files, from a local directory tree or from a blob hosted replica.
// Results are decompressed, parsed and cached per world.
package save

import (
	"errors"
	"io"
	"os"
)

var (
	ErrLevelNotFound    = errors.New("the world directory has no level.dat")
	ErrPlayerNotFound   = errors.New("no playerdata entry for the player id")
	ErrRegionNotFound   = errors.New("no region file covers the requested chunk")
	ErrLevelDataMissing = errors.New("the level.dat root compound has no Data entry")
	ErrObjectNotFound   = errors.New("the blob store has no object at the requested path")
	ErrStoreNotProvided = errors.New("a blob store was required but not provided")
)

// DirLister lists the files (not subdirectories) of a directory, as absolute
// paths.
type DirLister interface {
	ListFiles(string) ([]string, error)
}

// Opener opens a file for reading.
type Opener interface {
	Open(string) (io.ReadCloser, error)
}

// StdDirLister implements DirLister over the local filesystem.
type StdDirLister struct{}

func (StdDirLister) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, dir+string(os.PathSeparator)+e.Name())
	}
	return files, nil
}

// StdOpener implements Opener over the local filesystem.
type StdOpener struct{}

func (StdOpener) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}
