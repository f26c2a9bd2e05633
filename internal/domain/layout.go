package domain

import (
	"fmt"
	"path/filepath"
	"strings"

	m "copydeps.dev/pkg/copydeps/internal/model"
)

// Layout decides where under the destination root a dependency is copied.
type Layout string

const (
	// LayoutRelative mirrors the path relative to the scanned directory.
	// Dependencies outside the scanned directory fall back to LayoutAbsolute.
	// It is the default, and the zero Layout behaves the same way.
	LayoutRelative Layout = "relative"
	// LayoutAbsolute mirrors the full resolved path of the dependency under
	// the destination root.
	LayoutAbsolute Layout = "absolute"
)

// ParseLayout validates a layout name. The empty string selects LayoutRelative.
func ParseLayout(value string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(value))) {
	case "", LayoutRelative:
		return LayoutRelative, nil
	case LayoutAbsolute:
		return LayoutAbsolute, nil
	default:
		return "", fmt.Errorf("unknown layout %q (want %q or %q)", value, LayoutRelative, LayoutAbsolute)
	}
}

// Destination returns the destination path of dep.
func (l Layout) Destination(destRoot, scanDir, dep m.Path) m.Path {
	if l != LayoutAbsolute {
		if rel, ok := relativeTo(scanDir, dep); ok {
			return m.Path(filepath.Join(string(destRoot), rel))
		}
	}

	path := string(dep)
	path = strings.TrimPrefix(path, filepath.VolumeName(path))

	return m.Path(filepath.Join(string(destRoot), path))
}

func relativeTo(base, target m.Path) (string, bool) {
	if base == "" {
		return "", false
	}

	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", false
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	return rel, true
}
