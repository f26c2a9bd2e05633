package controller

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	m "copydeps.dev/pkg/copydeps/internal/model"
)

func formatProjectStart(project m.ProjectFile) string {
	return fmt.Sprintf("copying assets of %s: \n", project.Path)
}

func formatOutcome(outcome m.CopyOutcome) string {
	switch outcome.Status {
	case m.AlreadyCopied:
		return fmt.Sprintf("already copied %s...\n", outcome.Destination)
	case m.Skipped:
		return fmt.Sprintf("skipping %s...\n", outcome.Destination)
	case m.Copied:
		return fmt.Sprintf("copying %s to %s...\n", outcome.Source, outcome.Destination)
	case m.Planned:
		return fmt.Sprintf("would copy %s to %s...\n", outcome.Source, outcome.Destination)
	case m.Failed:
		return fmt.Sprintf("failed to copy %s to %s: %v\n", outcome.Source, outcome.Destination, outcome.Err)
	default:
		return fmt.Sprintf("%s %s\n", outcome.Status, outcome.Source)
	}
}

func formatWarning(project m.ProjectFile, err error) string {
	return fmt.Sprintf("warning: failed to acquire %s: %v\n", project.Path, err)
}

func formatProjectDone(report m.ProjectReport, mode StartMode) string {
	if mode == ModePlan {
		return fmt.Sprintf("would copy %d asset files.\n", report.Count(m.Planned))
	}

	return fmt.Sprintf("copied %d asset files.\n", report.Count(m.Copied))
}

func renderSummaryTable(summary m.RunSummary, mode StartMode) string {
	var tableBuffer bytes.Buffer

	copiedHeader := "Copied"
	copiedStatus := m.Copied

	if mode == ModePlan {
		copiedHeader = "Planned"
		copiedStatus = m.Planned
	}

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Project", "Dependencies", copiedHeader, "Skipped", "Already Copied", "Failed"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	dependencies := 0

	for _, report := range summary.Projects {
		project := string(report.Project.Path)
		if !report.Extracted {
			project += " (unreadable)"
		}

		dependencies += report.Dependencies

		table.Append([]string{
			project,
			fmt.Sprintf("%d", report.Dependencies),
			fmt.Sprintf("%d", report.Count(copiedStatus)),
			fmt.Sprintf("%d", report.Count(m.Skipped)),
			fmt.Sprintf("%d", report.Count(m.AlreadyCopied)),
			fmt.Sprintf("%d", report.Count(m.Failed)),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Projects %d", len(summary.Projects)),
		fmt.Sprintf("%d", dependencies),
		fmt.Sprintf("%d", summary.Total(copiedStatus)),
		fmt.Sprintf("%d", summary.Total(m.Skipped)),
		fmt.Sprintf("%d", summary.Total(m.AlreadyCopied)),
		fmt.Sprintf("%d", summary.Total(m.Failed)),
	})

	table.Render()

	return tableBuffer.String()
}

func renderDependencies(project m.ProjectFile, extracted bool, deps []m.Dependency) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s:\n", project.Path)

	if !extracted {
		b.WriteString("  (unreadable)\n")
		return b.String()
	}

	if len(deps) == 0 {
		b.WriteString("  (no dependencies)\n")
		return b.String()
	}

	for _, dep := range deps {
		if dep.Exists {
			fmt.Fprintf(&b, "  %s\n", dep.Path)
		} else {
			fmt.Fprintf(&b, "  %s (missing)\n", dep.Path)
		}
	}

	return b.String()
}

func renderPlan(diff string) string {
	if diff == "" {
		return "destination unchanged\n"
	}

	return diff
}
