package filter

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Predicate decides whether a candidate path enters the pipeline.
// The path is relative to the root being enumerated.
type Predicate func(path string) bool

// All combines predicates with logical AND. No predicates admits everything.
func All(preds ...Predicate) Predicate {
	return func(path string) bool {
		for _, p := range preds {
			if p != nil && !p(path) {
				return false
			}
		}
		return true
	}
}

// IncludeAll admits every path
func IncludeAll(string) bool { return true }

// ExcludeExtensions rejects files whose extension is in exts.
// Matching is case-insensitive; the leading dot is optional.
func ExcludeExtensions(exts ...string) Predicate {
	excluded := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		excluded[ext] = struct{}{}
	}

	return func(path string) bool {
		if len(excluded) == 0 {
			return true
		}
		_, skip := excluded[strings.ToLower(filepath.Ext(path))]
		return !skip
	}
}

// ExcludePatterns rejects paths matching any of the glob patterns.
// Patterns support:
//   - basename globs: *.tmp, Thumbs.db
//   - directory patterns: .thumbnails/, @eaDir/
//   - path globs: backup/*, **/cache/**
func ExcludePatterns(patterns ...string) Predicate {
	var cleaned []string
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, filepath.ToSlash(p))
		}
	}

	return func(path string) bool {
		return !matchAny(filepath.ToSlash(path), cleaned)
	}
}

func matchAny(path string, patterns []string) bool {
	path = strings.TrimPrefix(path, "/")
	base := pathBase(path)

	for _, pattern := range patterns {
		if dir, ok := strings.CutSuffix(pattern, "/"); ok {
			if path == dir || strings.HasPrefix(path, dir+"/") || strings.Contains(path, "/"+dir+"/") {
				return true
			}
			continue
		}

		if !strings.Contains(pattern, "/") {
			if matched, _ := doublestar.Match(pattern, base); matched {
				return true
			}
			continue
		}

		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}
	return false
}

func pathBase(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
