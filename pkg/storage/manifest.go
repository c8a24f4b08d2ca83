package storage

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is a file listing exported from a device that cannot be mounted
// as a directory, for example a phone's media storage
type Manifest struct {
	path string
	doc  manifestDoc
}

type manifestDoc struct {
	Root  string          `yaml:"root"`
	Files []manifestEntry `yaml:"files"`
}

type manifestEntry struct {
	Path string `yaml:"path"`
	Size int64  `yaml:"size"`
}

// NewManifest loads a YAML manifest with a root and a list of {path, size}
func NewManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read manifest: %v", ErrSourceUnavailable, err)
	}

	var doc manifestDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse manifest %s: %v", ErrSourceUnavailable, path, err)
	}
	if doc.Root == "" {
		return nil, fmt.Errorf("%w: manifest %s has no root", ErrSourceUnavailable, path)
	}

	return &Manifest{path: path, doc: doc}, nil
}

// Root returns the device root recorded in the manifest
func (m *Manifest) Root() string {
	return m.doc.Root
}

// Walk yields manifest entries in file order
func (m *Manifest) Walk(ctx context.Context, fn WalkFunc) error {
	for _, e := range m.doc.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		info := FileInfo{Root: m.doc.Root, Path: e.Path, Size: e.Size}
		rel, err := info.Record().RelativePath()
		if err != nil {
			return fmt.Errorf("%w: manifest %s: %v", ErrSourceUnavailable, m.path, err)
		}
		info.RelativePath = rel
		if err := fn(info); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op; the manifest is fully loaded on open
func (m *Manifest) Close() error {
	return nil
}
