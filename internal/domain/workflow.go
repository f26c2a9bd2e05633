// Package domain implements project discovery, dependency extraction and the
// asset copy workflow.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	"copydeps.dev/pkg/copydeps/internal/adapter"
	"copydeps.dev/pkg/copydeps/internal/controller"
	m "copydeps.dev/pkg/copydeps/internal/model"
)

// CopyArgs contains the arguments of a copy or plan run.
type CopyArgs struct {
	Source      m.Path
	Destination m.Path
	Layout      Layout
	Parallel    int
	KeepGoing   bool
	Manifest    m.Path
}

// ListArgs contains the arguments for listing dependencies.
type ListArgs struct {
	Source m.Path
}

// Workflow runs the collector end to end.
type Workflow interface {
	// Copy discovers project files, extracts their dependencies and copies
	// them under the destination root.
	Copy(ctx context.Context, args CopyArgs) (m.RunSummary, error)
	// List discovers project files and shows their dependencies without copying.
	List(ctx context.Context, args ListArgs) error
	// Plan performs a dry run and shows how the destination tree would change.
	Plan(ctx context.Context, args CopyArgs) error
}

type workflow struct {
	fs        adapter.AssetFSAdapter
	manifests adapter.ManifestStore
	ui        controller.UI
	scanner   ProjectScanner
	extractor Extractor
	copier    Copier
	now       func() time.Time
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fs adapter.AssetFSAdapter,
	manifests adapter.ManifestStore,
	ui controller.UI,
	scanner ProjectScanner,
	extractor Extractor,
	copier Copier,
) Workflow {
	return &workflow{
		fs:        fs,
		manifests: manifests,
		ui:        ui,
		scanner:   scanner,
		extractor: extractor,
		copier:    copier,
		now:       time.Now,
	}
}

func (w *workflow) Copy(ctx context.Context, args CopyArgs) (m.RunSummary, error) {
	if err := w.ui.Start(ctx, controller.WithCopyMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return m.RunSummary{}, err
	}
	defer w.ui.Close(ctx)

	summary, err := w.collect(ctx, args, false)
	if err != nil {
		return summary, err
	}

	w.ui.DisplayRunSummary(ctx, summary)

	if args.Manifest != "" {
		if err := w.manifests.Save(args.Manifest, summary); err != nil {
			slog.Error("Failed to save manifest", "path", args.Manifest, "error", err)
			return summary, fmt.Errorf("save manifest: %w", err)
		}
	}

	return summary, nil
}

func (w *workflow) Plan(ctx context.Context, args CopyArgs) error {
	if err := w.ui.Start(ctx, controller.WithPlanMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.ui.Close(ctx)

	before, err := w.destinationListing(args.Destination)
	if err != nil {
		return fmt.Errorf("list destination: %w", err)
	}

	summary, err := w.collect(ctx, args, true)
	if err != nil {
		return err
	}

	w.ui.DisplayRunSummary(ctx, summary)

	diff, err := planDiff(args.Destination, before, summary)
	if err != nil {
		return fmt.Errorf("render plan: %w", err)
	}

	w.ui.DisplayPlan(ctx, diff)

	return nil
}

func (w *workflow) List(ctx context.Context, args ListArgs) error {
	if err := w.ui.Start(ctx, controller.WithListMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.ui.Close(ctx)

	projects, err := w.scanner.Discover(ctx, sourceDir(args.Source))
	if err != nil {
		return fmt.Errorf("discover projects: %w", err)
	}

	for _, project := range projects {
		ok, deps, err := w.extractor.Extract(ctx, project)
		if !ok {
			if !IsRecoverable(err) {
				return err
			}

			slog.Warn("failed to acquire project", "project", project.Path, "error", err)
			w.ui.DisplayExtractionWarning(ctx, project, err)
		}

		listing := make([]m.Dependency, 0, deps.Len())

		for _, dep := range deps.Sorted() {
			exists, err := w.fs.Exists(dep)
			if err != nil {
				slog.Debug("stat dependency failed", "path", dep, "error", err)
			}

			listing = append(listing, m.Dependency{Path: dep, Exists: exists})
		}

		w.ui.DisplayDependencies(ctx, project, ok, listing)
	}

	return nil
}

// collect runs one pass over the source directory with a fresh registry.
func (w *workflow) collect(ctx context.Context, args CopyArgs, dryRun bool) (m.RunSummary, error) {
	if args.Destination == "" {
		return m.RunSummary{}, ErrDestinationRequired
	}

	scanDir, err := w.fs.AbsPath(sourceDir(args.Source))
	if err != nil {
		return m.RunSummary{}, fmt.Errorf("resolve source directory: %w", err)
	}

	summary := m.RunSummary{
		Source:      scanDir,
		Destination: args.Destination,
		StartedAt:   w.now(),
	}

	projects, err := w.scanner.Discover(ctx, scanDir)
	if err != nil {
		return summary, fmt.Errorf("discover projects: %w", err)
	}

	registry := NewCopiedRegistry()

	for _, project := range projects {
		report, err := w.processProject(ctx, registry, project, scanDir, args, dryRun)
		summary.Projects = append(summary.Projects, report)

		if err != nil {
			summary.FinishedAt = w.now()
			return summary, err
		}
	}

	summary.FinishedAt = w.now()

	slog.Info("run finished",
		"projects", len(summary.Projects),
		"copied", summary.Total(m.Copied),
		"skipped", summary.Total(m.Skipped),
		"already_copied", summary.Total(m.AlreadyCopied),
		"failed", summary.Total(m.Failed),
		"dry_run", dryRun,
	)

	return summary, nil
}

func (w *workflow) processProject(
	ctx context.Context,
	registry *CopiedRegistry,
	project m.ProjectFile,
	scanDir m.Path,
	args CopyArgs,
	dryRun bool,
) (m.ProjectReport, error) {
	w.ui.DisplayProjectStart(ctx, project)

	ok, deps, err := w.extractor.Extract(ctx, project)
	report := m.ProjectReport{Project: project, Extracted: ok, Dependencies: deps.Len()}

	if !ok {
		if !IsRecoverable(err) {
			return report, err
		}

		slog.Warn("failed to acquire project", "project", project.Path, "error", err)
		w.ui.DisplayExtractionWarning(ctx, project, err)
	}

	requests := make([]CopyRequest, 0, deps.Len())
	for _, dep := range deps.Sorted() {
		requests = append(requests, CopyRequest{
			Registry:    registry,
			Dependency:  dep,
			Destination: args.Destination,
			ScanDir:     scanDir,
			Layout:      args.Layout,
			KeepGoing:   args.KeepGoing,
			DryRun:      dryRun,
		})
	}

	outcomes, err := w.copyAll(ctx, requests, args.Parallel)
	report.Outcomes = outcomes

	if err != nil {
		return report, fmt.Errorf("copy assets of %s: %w", project.Path, err)
	}

	w.ui.DisplayProjectDone(ctx, report)

	return report, nil
}

// copyAll copies every request, in order when parallel <= 1 and through a
// bounded worker pool otherwise. The first fatal error stops the remaining
// copies.
func (w *workflow) copyAll(ctx context.Context, requests []CopyRequest, parallel int) ([]m.CopyOutcome, error) {
	if parallel <= 1 {
		outcomes := make([]m.CopyOutcome, 0, len(requests))

		for _, req := range requests {
			outcome, err := w.copier.Copy(ctx, req)
			if err != nil {
				return outcomes, err
			}

			w.ui.DisplayOutcome(ctx, outcome)
			outcomes = append(outcomes, outcome)
		}

		return outcomes, nil
	}

	results := make([]m.CopyOutcome, len(requests))
	done := make([]bool, len(requests))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallel)

	for i, req := range requests {
		group.Go(func() error {
			outcome, err := w.copier.Copy(groupCtx, req)
			if err != nil {
				return err
			}

			w.ui.DisplayOutcome(groupCtx, outcome)

			results[i] = outcome
			done[i] = true

			return nil
		})
	}

	err := group.Wait()

	outcomes := make([]m.CopyOutcome, 0, len(requests))
	for i := range results {
		if done[i] {
			outcomes = append(outcomes, results[i])
		}
	}

	return outcomes, err
}

// destinationListing returns the files currently under root, relative to it.
func (w *workflow) destinationListing(root m.Path) ([]string, error) {
	if root == "" {
		return nil, ErrDestinationRequired
	}

	exists, err := w.fs.Exists(root)
	if err != nil || !exists {
		return nil, err
	}

	var files []string

	err = w.fs.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(string(root), path)
		if err != nil {
			return err
		}

		files = append(files, filepath.ToSlash(rel))

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)

	return files, nil
}

// planDiff renders the destination listing before and after a planned run as
// a unified diff.
func planDiff(root m.Path, before []string, summary m.RunSummary) (string, error) {
	after := append([]string(nil), before...)

	for _, outcome := range summary.Outcomes() {
		if outcome.Status != m.Planned {
			continue
		}

		rel, err := filepath.Rel(string(root), string(outcome.Destination))
		if err != nil {
			return "", err
		}

		after = append(after, filepath.ToSlash(rel))
	}

	sort.Strings(after)

	diff := difflib.UnifiedDiff{
		A:        withNewlines(before),
		B:        withNewlines(after),
		FromFile: string(root) + " (current)",
		ToFile:   string(root) + " (after copy)",
		Context:  1,
	}

	return difflib.GetUnifiedDiffString(diff)
}

func withNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line + "\n"
	}

	return out
}

func sourceDir(source m.Path) m.Path {
	if source == "" {
		return "."
	}

	return source
}

// IsRecoverable reports whether err only affected a single project file.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrProjectUnreadable) || errors.Is(err, ErrProjectMalformed)
}
