// Package controller provides output adapters for displaying copy progress and results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "copydeps.dev/pkg/copydeps/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeCopy StartMode = iota
	ModePlan
	ModeList
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithCopyMode sets the UI to copy mode.
func WithCopyMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeCopy
	}
}

// WithPlanMode sets the UI to dry-run mode.
func WithPlanMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModePlan
	}
}

// WithListMode sets the UI to dependency listing mode.
func WithListMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeList
	}
}

// NewStartConfig applies options over the default copy mode.
func NewStartConfig(options ...StartOption) StartConfig {
	cfg := StartConfig{mode: ModeCopy}
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// Mode returns the selected mode.
func (c StartConfig) Mode() StartMode {
	return c.mode
}

// UI defines how a run reports its progress.
// Implementations can use different output methods (simple text, TUI, etc).
// Display methods may be called from several goroutines.
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	DisplayProjectStart(ctx context.Context, project m.ProjectFile)
	DisplayExtractionWarning(ctx context.Context, project m.ProjectFile, err error)
	DisplayOutcome(ctx context.Context, outcome m.CopyOutcome)
	DisplayProjectDone(ctx context.Context, report m.ProjectReport)
	DisplayRunSummary(ctx context.Context, summary m.RunSummary)
	DisplayDependencies(ctx context.Context, project m.ProjectFile, extracted bool, deps []m.Dependency)
	DisplayPlan(ctx context.Context, diff string)
}

// NewUI returns the interactive TUI for terminals and SimpleUI otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
