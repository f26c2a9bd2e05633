// Package adapter contains infrastructure adapters for the copydeps CLI.
package adapter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	m "copydeps.dev/pkg/copydeps/internal/model"
)

// AssetFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning projects and copying assets. It hides direct `os`
// access so the workflow logic can be tested against an in-memory filesystem.
//
//nolint:interfacebloat // A richer interface keeps workflow logic decoupled from os/fs.
type AssetFSAdapter interface {
	// ReadDir lists the immediate children of dir.
	ReadDir(dir m.Path) ([]os.FileInfo, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file, creating missing parent directories.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// Open opens a file for reading.
	Open(path m.Path) (io.ReadCloser, error)

	// Exists reports whether anything exists at path.
	Exists(path m.Path) (bool, error)

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)

	// MkdirAll creates a directory and all missing ancestors.
	MkdirAll(path m.Path) error

	// CopyFile copies bytes, permission bits and modification time of src to
	// dst and returns the number of bytes written. Parent directories of dst
	// must already exist.
	CopyFile(src, dst m.Path) (int64, error)

	// Walk traverses root recursively, calling fn for every entry.
	Walk(root m.Path, fn FilepathWalkFunc) error

	// AbsPath returns an absolute representation of path.
	AbsPath(path m.Path) (m.Path, error)
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// dirPerm is used for every directory created under the destination root.
const dirPerm = 0o755

// LocalAssetFSAdapter backs AssetFSAdapter with an afero filesystem.
type LocalAssetFSAdapter struct {
	fs afero.Fs
}

// NewLocalAssetFSAdapter constructs an adapter over the operating system filesystem.
func NewLocalAssetFSAdapter() *LocalAssetFSAdapter {
	return NewAssetFSAdapter(afero.NewOsFs())
}

// NewAssetFSAdapter constructs an adapter over any afero filesystem.
func NewAssetFSAdapter(fs afero.Fs) *LocalAssetFSAdapter {
	return &LocalAssetFSAdapter{fs: fs}
}

// ReadDir lists the entries of dir, sorted by name.
func (a *LocalAssetFSAdapter) ReadDir(dir m.Path) ([]os.FileInfo, error) {
	return afero.ReadDir(a.fs, string(dir))
}

// ReadFile loads file contents.
func (a *LocalAssetFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return afero.ReadFile(a.fs, string(path))
}

// WriteFile writes content to path, creating parent directories as needed.
func (a *LocalAssetFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	if err := a.fs.MkdirAll(filepath.Dir(string(path)), dirPerm); err != nil {
		return err
	}

	return afero.WriteFile(a.fs, string(path), content, perm)
}

// Open opens path for reading.
func (a *LocalAssetFSAdapter) Open(path m.Path) (io.ReadCloser, error) {
	return a.fs.Open(string(path))
}

// Exists reports whether a file or directory exists at path.
func (a *LocalAssetFSAdapter) Exists(path m.Path) (bool, error) {
	return afero.Exists(a.fs, string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalAssetFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return a.fs.Stat(string(path))
}

// MkdirAll creates path and any missing ancestors.
func (a *LocalAssetFSAdapter) MkdirAll(path m.Path) error {
	return a.fs.MkdirAll(string(path), dirPerm)
}

// CopyFile copies a single file along with its mode and modification time.
func (a *LocalAssetFSAdapter) CopyFile(src, dst m.Path) (int64, error) {
	info, err := a.fs.Stat(string(src))
	if err != nil {
		return 0, err
	}

	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", src)
	}

	// #nosec G304 - src comes from a project file the user asked us to read
	sourceFile, err := a.fs.Open(string(src))
	if err != nil {
		return 0, err
	}

	defer func() { _ = sourceFile.Close() }()

	destFile, err := a.fs.OpenFile(string(dst), os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(destFile, sourceFile)
	if err != nil {
		_ = destFile.Close()
		return written, err
	}

	if err := destFile.Close(); err != nil {
		return written, err
	}

	if err := a.fs.Chmod(string(dst), info.Mode().Perm()); err != nil {
		return written, err
	}

	if err := a.fs.Chtimes(string(dst), info.ModTime(), info.ModTime()); err != nil {
		return written, err
	}

	return written, nil
}

// Walk iterates over every entry under root.
func (a *LocalAssetFSAdapter) Walk(root m.Path, fn FilepathWalkFunc) error {
	return afero.Walk(a.fs, string(root), func(path string, info os.FileInfo, err error) error {
		return fn(path, info, err)
	})
}

// AbsPath returns an absolute path, resolving relative paths against the
// process working directory.
func (a *LocalAssetFSAdapter) AbsPath(path m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}
