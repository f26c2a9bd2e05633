package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"copydeps.dev/pkg/copydeps/internal/adapter"
	m "copydeps.dev/pkg/copydeps/internal/model"
)

// CopyRequest describes a single dependency to copy during a run.
type CopyRequest struct {
	Registry    *CopiedRegistry
	Dependency  m.Path
	Destination m.Path // destination root
	ScanDir     m.Path
	Layout      Layout
	KeepGoing   bool
	DryRun      bool
}

// Copier copies one dependency into the destination tree.
type Copier interface {
	Copy(ctx context.Context, req CopyRequest) (m.CopyOutcome, error)
}

type copier struct {
	fs         adapter.AssetFSAdapter
	classifier adapter.AssetClassifier
}

// NewCopier constructs a Copier backed by the provided adapters.
func NewCopier(fs adapter.AssetFSAdapter, classifier adapter.AssetClassifier) Copier {
	return &copier{fs: fs, classifier: classifier}
}

// Copy claims the destination in the run registry before touching the disk,
// so a destination that fails to copy is still not attempted twice. Existing
// destinations are never overwritten.
func (c *copier) Copy(ctx context.Context, req CopyRequest) (m.CopyOutcome, error) {
	if err := ctx.Err(); err != nil {
		return m.CopyOutcome{}, err
	}

	dest := req.Layout.Destination(req.Destination, req.ScanDir, req.Dependency)
	outcome := m.CopyOutcome{Source: req.Dependency, Destination: dest}

	if !req.Registry.Claim(dest) {
		outcome.Status = m.AlreadyCopied
		return outcome, nil
	}

	exists, err := c.fs.Exists(dest)
	if err != nil {
		return c.fail(req, outcome, fmt.Errorf("stat destination: %w", err))
	}

	if exists {
		outcome.Status = m.Skipped
		return outcome, nil
	}

	outcome.Kind = c.classifier.Classify(req.Dependency)

	if req.DryRun {
		outcome.Status = m.Planned
		return outcome, nil
	}

	if err := c.fs.MkdirAll(m.Path(filepath.Dir(string(dest)))); err != nil {
		return c.fail(req, outcome, fmt.Errorf("create destination directory: %w", err))
	}

	written, err := c.fs.CopyFile(req.Dependency, dest)
	if err != nil {
		return c.fail(req, outcome, err)
	}

	outcome.Status = m.Copied
	outcome.Size = written

	slog.Debug("copied asset", "source", req.Dependency, "destination", dest, "bytes", written)

	return outcome, nil
}

// fail either aborts the run or, with KeepGoing, records the failure.
func (c *copier) fail(req CopyRequest, outcome m.CopyOutcome, err error) (m.CopyOutcome, error) {
	wrapped := fmt.Errorf("copy %s to %s: %w", outcome.Source, outcome.Destination, err)

	if !req.KeepGoing {
		slog.Error("copy failed", "source", outcome.Source, "destination", outcome.Destination, "error", err)
		return outcome, wrapped
	}

	slog.Warn("copy failed, continuing", "source", outcome.Source, "destination", outcome.Destination, "error", err)

	outcome.Status = m.Failed
	outcome.Err = wrapped

	return outcome, nil
}
