package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Local is a filesystem-based backend
type Local struct {
	rootPath  string
	recursive bool
}

// NewLocal creates a local backend rooted at rootPath
func NewLocal(rootPath string, recursive bool) (*Local, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve path: %v", ErrSourceUnavailable, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to access path: %v", ErrSourceUnavailable, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: path is not a directory: %s", ErrSourceUnavailable, absPath)
	}

	return &Local{rootPath: absPath, recursive: recursive}, nil
}

// Root returns the absolute root path
func (l *Local) Root() string {
	return l.rootPath
}

// Walk visits regular files in lexical order
func (l *Local) Walk(ctx context.Context, fn WalkFunc) error {
	var cbErr error

	err := filepath.WalkDir(l.rootPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			if p != l.rootPath && !l.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		file := FileInfo{Root: l.rootPath, Path: p, Size: info.Size()}
		if file.RelativePath, err = file.Record().RelativePath(); err != nil {
			return err
		}

		if err := fn(file); err != nil {
			cbErr = err
			return err
		}
		return nil
	})

	if err == nil {
		return nil
	}
	if cbErr != nil || ctx.Err() != nil {
		return err
	}
	return fmt.Errorf("%w: failed to list %s: %v", ErrSourceUnavailable, l.rootPath, err)
}

// Close is a no-op for the local filesystem
func (l *Local) Close() error {
	return nil
}
