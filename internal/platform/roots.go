package platform

import (
	"path/filepath"
	"runtime"
	"strings"
)

// ManifestPrefix marks a root that is a device listing rather than a directory
const ManifestPrefix = "manifest:"

// RootKind tells how a configured root is enumerated
type RootKind int

const (
	// RootDirectory is walked on the local filesystem
	RootDirectory RootKind = iota
	// RootManifest is read from an exported device listing
	RootManifest
)

// Root is a configured source or destination after resolution
type Root struct {
	Kind RootKind
	// Path is the absolute directory, or the manifest file path
	Path string
}

// ResolveRoot classifies and normalizes a configured root
func ResolveRoot(root string) (Root, error) {
	if err := ValidatePath(root); err != nil {
		return Root{}, err
	}

	if path, ok := strings.CutPrefix(root, ManifestPrefix); ok {
		if err := ValidatePath(path); err != nil {
			return Root{}, err
		}
		return Root{Kind: RootManifest, Path: path}, nil
	}

	if IsUNCPath(root) {
		return Root{Kind: RootDirectory, Path: NormalizePath(root)}, nil
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return Root{}, &PathError{Path: root, Message: err.Error()}
	}
	return Root{Kind: RootDirectory, Path: abs}, nil
}

// Contains reports whether child is parent or lies beneath it.
// Both must be directory roots.
func Contains(parent, child Root) bool {
	if parent.Kind != RootDirectory || child.Kind != RootDirectory {
		return false
	}
	return child.Path == parent.Path ||
		strings.HasPrefix(child.Path, strings.TrimSuffix(parent.Path, string(filepath.Separator))+string(filepath.Separator))
}

// NormalizePath cleans a path for the current platform, keeping the
// leading double separator of Windows UNC paths
func NormalizePath(path string) string {
	normalized := filepath.Clean(path)

	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, `\\`) && !strings.HasPrefix(normalized, `\\`) {
			normalized = `\` + normalized
		}
	}

	return normalized
}

// IsUNCPath checks if a path is a UNC path (Windows network share)
func IsUNCPath(path string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	return strings.HasPrefix(path, `\\`) || strings.HasPrefix(path, "//")
}

// ValidatePath checks if a path is usable on the current platform
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return &PathError{Path: path, Message: "path is empty"}
	}

	if runtime.GOOS == "windows" && !IsUNCPath(path) {
		// drive letters are the only place ':' is allowed
		rest := path
		if len(rest) >= 2 && rest[1] == ':' {
			rest = rest[2:]
		}
		for _, char := range []string{"<", ">", ":", "\"", "|", "?", "*"} {
			if strings.Contains(rest, char) {
				return &PathError{Path: path, Message: "path contains invalid character: " + char}
			}
		}
	}

	return nil
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}
