package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"copydeps.dev/pkg/copydeps/internal/adapter"
	m "copydeps.dev/pkg/copydeps/internal/model"
)

// ProjectScanner finds project files in a directory.
type ProjectScanner interface {
	Discover(ctx context.Context, dir m.Path) ([]m.ProjectFile, error)
}

type projectScanner struct {
	fs adapter.AssetFSAdapter
}

// NewProjectScanner constructs a ProjectScanner backed by fs.
func NewProjectScanner(fs adapter.AssetFSAdapter) ProjectScanner {
	return &projectScanner{fs: fs}
}

// Discover returns the immediate children of dir carrying the project file
// extension. Subdirectories are not descended into.
func (s *projectScanner) Discover(ctx context.Context, dir m.Path) ([]m.ProjectFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	projects := make([]m.ProjectFile, 0, len(entries))

	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != m.ProjectFileExt {
			continue
		}

		path := filepath.Join(string(dir), entry.Name())
		if !s.isFile(entry, path) {
			continue
		}

		abs, err := s.fs.AbsPath(m.Path(path))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}

		projects = append(projects, m.ProjectFile{Path: abs})
	}

	slog.Debug("discovered project files", "dir", dir, "count", len(projects))

	return projects, nil
}

// isFile follows symlinks the way a stat would.
func (s *projectScanner) isFile(entry os.FileInfo, path string) bool {
	if entry.Mode()&os.ModeSymlink == 0 {
		return !entry.IsDir()
	}

	info, err := s.fs.FileInfo(m.Path(path))
	if err != nil {
		slog.Debug("ignoring dangling symlink", "path", path, "error", err)
		return false
	}

	return !info.IsDir()
}
