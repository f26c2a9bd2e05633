// Package model defines the data structures shared by the dependency collector.
package model

import (
	"path/filepath"
	"sort"
)

// Path represents a file system path.
type Path string

// ProjectFileExt is the extension of appleseed project files.
const ProjectFileExt = ".appleseed"

// ProjectFile is the path of an XML scene description read once per run.
type ProjectFile struct {
	Path Path
}

// Dir returns the directory dependencies of the project are resolved against.
func (p ProjectFile) Dir() Path {
	return Path(filepath.Dir(string(p.Path)))
}

func (p ProjectFile) String() string {
	return string(p.Path)
}

// DependencySet holds the resolved asset paths of one project file.
type DependencySet map[Path]struct{}

// NewDependencySet returns an empty set.
func NewDependencySet() DependencySet {
	return DependencySet{}
}

// Add inserts path; duplicates collapse.
func (s DependencySet) Add(path Path) {
	s[path] = struct{}{}
}

// Has reports whether path is in the set.
func (s DependencySet) Has(path Path) bool {
	_, ok := s[path]
	return ok
}

// Len returns the number of distinct dependencies.
func (s DependencySet) Len() int {
	return len(s)
}

// Sorted returns the dependencies in lexical order, for display only.
func (s DependencySet) Sorted() []Path {
	paths := make([]Path, 0, len(s))
	for path := range s {
		paths = append(paths, path)
	}

	sort.Slice(paths, func(i, j int) bool {
		return paths[i] < paths[j]
	})

	return paths
}

// Dependency is a resolved asset path together with whether its source exists.
type Dependency struct {
	Path   Path
	Exists bool
}
