package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "copydeps.dev/pkg/copydeps/internal/model"
)

// recentLimit is how many outcomes stay visible under the counters.
const recentLimit = 6

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	projectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	statusStyles = map[m.CopyStatus]lipgloss.Style{
		m.Copied:        lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		m.Planned:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		m.Skipped:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		m.AlreadyCopied: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		m.Failed:        lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// TUI implements UI using Bubble Tea: a live progress view while copying,
// followed by the plain summary once the program has exited.
type TUI struct {
	output io.Writer

	mu       sync.Mutex
	mode     StartMode
	program  *tea.Program
	done     chan struct{}
	epilogue strings.Builder
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress program. List mode prints directly instead.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := NewStartConfig(options...)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.mode = cfg.mode
	t.epilogue.Reset()

	if cfg.mode == ModeList {
		return nil
	}

	program := tea.NewProgram(
		newProgressModel(cfg.mode),
		tea.WithOutput(t.output),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	done := make(chan struct{})

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Error("TUI program failed", "error", err)
		}
	}()

	t.program = program
	t.done = done

	return nil
}

// Close stops the progress program and prints the buffered summary.
func (t *TUI) Close(_ context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()

	if program != nil {
		program.Quit()
		<-done
	}

	t.mu.Lock()
	text := t.epilogue.String()
	t.epilogue.Reset()
	t.mu.Unlock()

	if text != "" {
		_, _ = fmt.Fprint(t.output, text)
	}
}

// DisplayProjectStart updates the current project.
func (t *TUI) DisplayProjectStart(ctx context.Context, project m.ProjectFile) {
	if ctx.Err() != nil {
		return
	}

	t.send(projectStartMsg{project: project})
}

// DisplayExtractionWarning records a skipped project file.
func (t *TUI) DisplayExtractionWarning(ctx context.Context, project m.ProjectFile, err error) {
	if ctx.Err() != nil {
		return
	}

	t.send(warningMsg{text: strings.TrimSpace(formatWarning(project, err))})
	t.appendEpilogue(formatWarning(project, err))
}

// DisplayOutcome updates the counters.
func (t *TUI) DisplayOutcome(ctx context.Context, outcome m.CopyOutcome) {
	if ctx.Err() != nil {
		return
	}

	t.send(outcomeMsg{outcome: outcome})

	if outcome.Status == m.Failed {
		t.appendEpilogue(formatOutcome(outcome))
	}
}

// DisplayProjectDone marks the current project finished.
func (t *TUI) DisplayProjectDone(ctx context.Context, report m.ProjectReport) {
	if ctx.Err() != nil {
		return
	}

	t.send(projectDoneMsg{report: report})
}

// DisplayRunSummary buffers the totals table until the program exits.
func (t *TUI) DisplayRunSummary(ctx context.Context, summary m.RunSummary) {
	if ctx.Err() != nil {
		return
	}

	t.mu.Lock()
	mode := t.mode
	t.mu.Unlock()

	t.appendEpilogue("\n" + renderSummaryTable(summary, mode))
}

// DisplayDependencies prints the dependencies of one project.
func (t *TUI) DisplayDependencies(ctx context.Context, project m.ProjectFile, extracted bool, deps []m.Dependency) {
	if ctx.Err() != nil {
		return
	}

	text := renderDependencies(project, extracted, deps)
	header, rest, _ := strings.Cut(text, "\n")

	t.mu.Lock()
	defer t.mu.Unlock()

	_, _ = fmt.Fprintf(t.output, "%s\n%s", projectStyle.Render(header), rest)
}

// DisplayPlan buffers the destination diff until the program exits.
func (t *TUI) DisplayPlan(ctx context.Context, diff string) {
	if ctx.Err() != nil {
		return
	}

	t.appendEpilogue("\n" + renderPlan(diff))
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

func (t *TUI) appendEpilogue(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.epilogue.WriteString(text)
}

type projectStartMsg struct {
	project m.ProjectFile
}

type projectDoneMsg struct {
	report m.ProjectReport
}

type outcomeMsg struct {
	outcome m.CopyOutcome
}

type warningMsg struct {
	text string
}

// progressModel is the Bubble Tea model rendered while a run is in progress.
type progressModel struct {
	mode     StartMode
	spinner  spinner.Model
	project  string
	projects int
	counts   map[m.CopyStatus]int
	warnings []string
	recent   []string
	width    int
}

func newProgressModel(mode StartMode) progressModel {
	return progressModel{
		mode:    mode,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		counts:  map[m.CopyStatus]int{},
	}
}

func (pm progressModel) Init() tea.Cmd {
	return pm.spinner.Tick
}

func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.width = msg.Width
		return pm, nil

	case projectStartMsg:
		pm.project = string(msg.project.Path)
		return pm, nil

	case projectDoneMsg:
		pm.projects++
		return pm, nil

	case warningMsg:
		pm.warnings = append(pm.warnings, msg.text)
		return pm, nil

	case outcomeMsg:
		pm.counts[msg.outcome.Status]++
		pm.recent = append(pm.recent, pm.renderOutcome(msg.outcome))

		if len(pm.recent) > recentLimit {
			pm.recent = pm.recent[len(pm.recent)-recentLimit:]
		}

		return pm, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		pm.spinner, cmd = pm.spinner.Update(msg)

		return pm, cmd
	}

	return pm, nil
}

func (pm progressModel) View() string {
	var b strings.Builder

	title := "copydeps - copying assets"
	if pm.mode == ModePlan {
		title = "copydeps - planning copy (dry run)"
	}

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if pm.project != "" {
		fmt.Fprintf(&b, "%s %s\n", pm.spinner.View(), projectStyle.Render(pm.truncate(pm.project)))
	} else {
		fmt.Fprintf(&b, "%s scanning...\n", pm.spinner.View())
	}

	doneStatus := m.Copied
	if pm.mode == ModePlan {
		doneStatus = m.Planned
	}

	fmt.Fprintf(&b, "\n  projects %d | %s %d | skipped %d | already copied %d | failed %d\n",
		pm.projects,
		doneStatus, pm.counts[doneStatus],
		pm.counts[m.Skipped],
		pm.counts[m.AlreadyCopied],
		pm.counts[m.Failed],
	)

	for _, warning := range pm.warnings {
		fmt.Fprintf(&b, "  %s\n", warnStyle.Render(pm.truncate(warning)))
	}

	if len(pm.recent) > 0 {
		b.WriteString("\n")

		for _, line := range pm.recent {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}

	return b.String()
}

func (pm progressModel) renderOutcome(outcome m.CopyOutcome) string {
	style, ok := statusStyles[outcome.Status]
	if !ok {
		style = faintStyle
	}

	label := style.Render(fmt.Sprintf("%-14s", outcome.Status))

	return label + " " + faintStyle.Render(pm.truncate(string(outcome.Destination)))
}

// truncate keeps the tail of long paths, which carries the file name.
func (pm progressModel) truncate(text string) string {
	limit := pm.width - 20
	if pm.width == 0 || limit < 10 || len(text) <= limit {
		return text
	}

	return "..." + text[len(text)-limit+3:]
}
