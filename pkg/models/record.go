package models

import (
	"fmt"
	"strings"
)

// Identity is the location-independent key of a file: its root-relative
// path and size, case-folded
type Identity string

// FileRecord represents one file observed under a root directory or device root
type FileRecord struct {
	// Root is the root the file was enumerated under
	Root string `json:"-"`

	// FullPath is the absolute path to the file
	FullPath string `json:"fullPath"`

	// Size in bytes
	Size uint64 `json:"size"`
}

// RelativePath returns FullPath with the Root prefix stripped.
// Both separator styles become '/' whatever the host platform, and the
// result always starts with a single '/', so a device listing and a
// directory walk of the same tree agree.
func (r FileRecord) RelativePath() (string, error) {
	root := strings.TrimRight(r.Root, `/\`)
	if !strings.HasPrefix(r.FullPath, root) {
		return "", &MalformedRecordError{Root: r.Root, FullPath: r.FullPath}
	}
	rel := strings.ReplaceAll(strings.TrimPrefix(r.FullPath, root), `\`, "/")
	return "/" + strings.TrimLeft(rel, "/"), nil
}

// Identity computes the record's identity
func (r FileRecord) Identity() (Identity, error) {
	rel, err := r.RelativePath()
	if err != nil {
		return "", err
	}
	return IdentityOf(rel, r.Size), nil
}

// IdentityOf builds an identity from a relative path and a size
func IdentityOf(relativePath string, size uint64) Identity {
	return Identity(strings.ToLower(fmt.Sprintf("%s,%d", relativePath, size)))
}

// String implements fmt.Stringer
func (r FileRecord) String() string {
	id, err := r.Identity()
	if err != nil {
		return fmt.Sprintf("Path=%s, Identity=<malformed>", r.FullPath)
	}
	return fmt.Sprintf("Path=%s, Identity=%s", r.FullPath, id)
}
