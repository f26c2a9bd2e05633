package domain

import (
	"context"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"copydeps.dev/pkg/copydeps/internal/adapter"
	"copydeps.dev/pkg/copydeps/internal/controller"
	m "copydeps.dev/pkg/copydeps/internal/model"
)

func writeMemFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func newMemWorkflow(fs afero.Fs, ui controller.UI) Workflow {
	fsAdapter := adapter.NewAssetFSAdapter(fs)

	return NewWorkflow(
		fsAdapter,
		adapter.NewManifestStore(fsAdapter),
		ui,
		NewProjectScanner(fsAdapter),
		NewExtractor(fsAdapter),
		NewCopier(fsAdapter, adapter.NewAssetClassifier(fsAdapter)),
	)
}

// recordingUI captures every call so tests can assert on what a run reported.
type recordingUI struct {
	mu           sync.Mutex
	starts       []controller.StartMode
	closed       int
	projects     []m.ProjectFile
	warnings     []m.ProjectFile
	outcomes     []m.CopyOutcome
	done         []m.ProjectReport
	summaries    []m.RunSummary
	dependencies map[m.Path][]m.Dependency
	plans        []string
}

func newRecordingUI() *recordingUI {
	return &recordingUI{dependencies: map[m.Path][]m.Dependency{}}
}

func (r *recordingUI) Start(_ context.Context, options ...controller.StartOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mode := controller.NewStartConfig(options...).Mode()

	r.starts = append(r.starts, mode)

	return nil
}

func (r *recordingUI) Close(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
}

func (r *recordingUI) DisplayProjectStart(_ context.Context, project m.ProjectFile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects = append(r.projects, project)
}

func (r *recordingUI) DisplayExtractionWarning(_ context.Context, project m.ProjectFile, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, project)
}

func (r *recordingUI) DisplayOutcome(_ context.Context, outcome m.CopyOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordingUI) DisplayProjectDone(_ context.Context, report m.ProjectReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done = append(r.done, report)
}

func (r *recordingUI) DisplayRunSummary(_ context.Context, summary m.RunSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, summary)
}

func (r *recordingUI) DisplayDependencies(_ context.Context, project m.ProjectFile, _ bool, deps []m.Dependency) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dependencies[project.Path] = deps
}

func (r *recordingUI) DisplayPlan(_ context.Context, diff string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans = append(r.plans, diff)
}

func (r *recordingUI) outcomesByStatus() map[m.CopyStatus][]m.CopyOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	byStatus := map[m.CopyStatus][]m.CopyOutcome{}
	for _, outcome := range r.outcomes {
		byStatus[outcome.Status] = append(byStatus[outcome.Status], outcome)
	}

	return byStatus
}
