// Package tui provides the interactive install display: a Bubble Tea model
// showing per-dependency progress while the resolver works in the
// background.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/skilldep/internal/resolver"
	"github.com/dbmrq/skilldep/internal/tui/styles"
)

// ProgressMsg reports one dependency status transition. An empty Status
// means work on the dependency has started.
type ProgressMsg struct {
	Slug   string
	Status resolver.Status
}

// DoneMsg signals the end of the install run.
type DoneMsg struct {
	Err error
}

// depLine is the display state of one dependency.
type depLine struct {
	slug     string
	origin   string
	required bool
	status   resolver.Status
	active   bool
}

// InstallModel renders a live dependency install run.
type InstallModel struct {
	skill       string
	spinner     spinner.Model
	lines       []depLine
	startTime   time.Time
	done        bool
	interrupted bool
	err         error
}

// NewInstall creates an install display for the given skill and its
// dependencies, in resolver order.
func NewInstall(skill string, deps []resolver.Dependency) InstallModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Secondary)

	lines := make([]depLine, len(deps))
	for i, dep := range deps {
		lines[i] = depLine{
			slug:     dep.Slug(),
			origin:   dep.Origin(),
			required: dep.Required(),
		}
	}

	return InstallModel{
		skill:     skill,
		spinner:   s,
		lines:     lines,
		startTime: time.Now(),
	}
}

// Err returns the run error once the model is done.
func (m InstallModel) Err() error {
	return m.err
}

// Done reports whether the run has finished.
func (m InstallModel) Done() bool {
	return m.done
}

// Interrupted reports whether the user quit before the run finished.
func (m InstallModel) Interrupted() bool {
	return m.interrupted
}

// Init starts the spinner animation.
func (m InstallModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles progress, completion, spinner ticks, and interrupt keys.
func (m InstallModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProgressMsg:
		for i := range m.lines {
			if m.lines[i].slug != msg.Slug {
				continue
			}
			if msg.Status == "" {
				m.lines[i].active = true
			} else {
				m.lines[i].active = false
				m.lines[i].status = msg.Status
			}
			break
		}
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.interrupted = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the header, one line per dependency, and a closing summary.
func (m InstallModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("skilldep"))
	b.WriteString(" installing dependencies for ")
	b.WriteString(styles.SkillNameStyle.Render(m.skill))
	b.WriteString("\n\n")

	for _, line := range m.lines {
		b.WriteString("  ")
		b.WriteString(m.icon(line))
		b.WriteString(" ")
		b.WriteString(styles.SlugStyle.Render(line.slug))
		if line.origin != line.slug {
			b.WriteString(" ")
			b.WriteString(styles.OriginStyle.Render("(" + line.origin + ")"))
		}
		if !line.required {
			b.WriteString(" ")
			b.WriteString(styles.OptionalStyle.Render("optional"))
		}
		b.WriteString("\n")
	}

	if m.done {
		b.WriteString("\n")
		b.WriteString(m.summaryLine())
		b.WriteString("\n")
	}

	return b.String()
}

func (m InstallModel) icon(line depLine) string {
	if line.active {
		return m.spinner.View()
	}
	switch line.status {
	case resolver.StatusPresent, resolver.StatusInstalled:
		return styles.IconInstalled
	case resolver.StatusFailed:
		return styles.IconFailed
	case resolver.StatusAborted:
		return styles.IconAborted
	default:
		return styles.IconMissing
	}
}

func (m InstallModel) summaryLine() string {
	var installed, present, failed int
	for _, line := range m.lines {
		switch line.status {
		case resolver.StatusInstalled:
			installed++
		case resolver.StatusPresent:
			present++
		case resolver.StatusFailed:
			failed++
		}
	}

	elapsed := time.Since(m.startTime).Round(time.Second)
	text := fmt.Sprintf("%d installed, %d already present, %d failed (%v)",
		installed, present, failed, elapsed)

	switch {
	case m.err != nil:
		return styles.SummaryFailStyle.Render(text)
	case failed > 0:
		return styles.SummaryWarnStyle.Render(text)
	default:
		return styles.SummaryOKStyle.Render(text)
	}
}
