package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sdejongh/photorecon/internal/platform"
	"github.com/sdejongh/photorecon/pkg/models"
)

// ErrSourceUnavailable is wrapped by every failure to open or read a root
var ErrSourceUnavailable = errors.New("source unavailable")

// ErrStop ends a walk early without error
var ErrStop = errors.New("stop walk")

// FileInfo represents one file yielded by a backend
type FileInfo struct {
	// Root is the backend root the file was found under
	Root string
	// Path is the full path as seen by the backend
	Path string
	// RelativePath is Path relative to the backend root, in the
	// '/'-separated form of models.FileRecord.RelativePath
	RelativePath string
	// Size in bytes
	Size int64
}

// WalkFunc is called once per file. Returning ErrStop ends the walk cleanly.
type WalkFunc func(info FileInfo) error

// Backend defines a finite, non-restartable source of files under one root.
// Implementations include local directories and exported device manifests.
type Backend interface {
	// Root returns the root every yielded path is under
	Root() string

	// Walk calls fn for every file under the root in a stable order
	Walk(ctx context.Context, fn WalkFunc) error

	// Close releases any resources held by the backend
	Close() error
}

// Opener acquires a backend
type Opener func(ctx context.Context) (Backend, error)

// Options configures how a location string is opened
type Options struct {
	// Recursive descends into subdirectories; false lists the top directory only
	Recursive bool
}

// Open returns an opener for location: "manifest:<file>" or a directory path
func Open(location string, opts Options) Opener {
	return func(ctx context.Context) (Backend, error) {
		if path, ok := strings.CutPrefix(location, platform.ManifestPrefix); ok {
			return NewManifest(path)
		}
		return NewLocal(location, opts.Recursive)
	}
}

// Record converts info into a file record
func (info FileInfo) Record() models.FileRecord {
	size := info.Size
	if size < 0 {
		size = 0
	}
	return models.FileRecord{
		Root:     info.Root,
		FullPath: info.Path,
		Size:     uint64(size),
	}
}

// Enumerate opens a backend, walks it and closes it on every exit path,
// including early termination through ErrStop and failures
func Enumerate(ctx context.Context, open Opener, fn WalkFunc) (err error) {
	backend, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: failed to close %s: %v", ErrSourceUnavailable, backend.Root(), cerr)
		}
	}()

	err = backend.Walk(ctx, fn)
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}
