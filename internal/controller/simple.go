package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	m "copydeps.dev/pkg/copydeps/internal/model"
)

// SimpleUI implements UI by printing plain lines to the cobra command's output.
type SimpleUI struct {
	cmd  *cobra.Command
	mu   sync.Mutex
	mode StartMode
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start records the mode of the run.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := NewStartConfig(options...)

	s.mu.Lock()
	s.mode = cfg.mode
	s.mu.Unlock()

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// DisplayProjectStart announces a project file.
func (s *SimpleUI) DisplayProjectStart(ctx context.Context, project m.ProjectFile) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.print(formatProjectStart(project))
}

// DisplayExtractionWarning reports a project file that was skipped.
func (s *SimpleUI) DisplayExtractionWarning(ctx context.Context, project m.ProjectFile, err error) {
	if ctx.Err() != nil {
		return
	}

	s.print(formatWarning(project, err))
}

// DisplayOutcome prints what happened to one dependency.
func (s *SimpleUI) DisplayOutcome(ctx context.Context, outcome m.CopyOutcome) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.print(formatOutcome(outcome))
}

// DisplayProjectDone prints the per-project count.
func (s *SimpleUI) DisplayProjectDone(ctx context.Context, report m.ProjectReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	mode := s.mode
	s.mu.Unlock()

	s.print(formatProjectDone(report, mode))
}

// DisplayRunSummary prints the totals table.
func (s *SimpleUI) DisplayRunSummary(ctx context.Context, summary m.RunSummary) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	mode := s.mode
	s.mu.Unlock()

	s.print("\n" + renderSummaryTable(summary, mode))
}

// DisplayDependencies prints the dependencies of one project.
func (s *SimpleUI) DisplayDependencies(ctx context.Context, project m.ProjectFile, extracted bool, deps []m.Dependency) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.print(renderDependencies(project, extracted, deps))
}

// DisplayPlan prints the destination diff of a dry run.
func (s *SimpleUI) DisplayPlan(ctx context.Context, diff string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.print("\n" + renderPlan(diff))
}

func (s *SimpleUI) print(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprint(s.cmd.OutOrStdout(), text)
}
