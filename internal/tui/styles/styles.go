// Package styles provides Lip Gloss styles for skilldep's terminal output.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	Primary    = lipgloss.Color("#7C3AED") // Purple
	Secondary  = lipgloss.Color("#06B6D4") // Cyan
	Success    = lipgloss.Color("#10B981") // Green
	Warning    = lipgloss.Color("#F59E0B") // Amber
	Error      = lipgloss.Color("#EF4444") // Red
	Muted      = lipgloss.Color("#6B7280") // Gray
	MutedLight = lipgloss.Color("#9CA3AF") // Light Gray
	Foreground = lipgloss.Color("#F9FAFB") // White
)

// Header styles.
var (
	// TitleStyle is for the run title line.
	TitleStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Primary).
			Bold(true).
			Padding(0, 1)

	// SkillNameStyle is for the skill name in headers and summaries.
	SkillNameStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)
)

// Dependency status icons.
var (
	// IconPresent marks a dependency already satisfied.
	IconPresent = lipgloss.NewStyle().
			Foreground(Success).
			Render("✓")

	// IconInstalled marks a dependency installed during this run.
	IconInstalled = lipgloss.NewStyle().
			Foreground(Success).
			Render("✓")

	// IconMissing marks a dependency not yet installed.
	IconMissing = lipgloss.NewStyle().
			Foreground(Warning).
			Render("○")

	// IconFailed marks a dependency whose install failed.
	IconFailed = lipgloss.NewStyle().
			Foreground(Error).
			Render("✗")

	// IconAborted marks a dependency skipped after a fail-fast abort.
	IconAborted = lipgloss.NewStyle().
			Foreground(Muted).
			Render("–")
)

// Dependency line styles.
var (
	// SlugStyle is for dependency identifiers.
	SlugStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	// OriginStyle is for the registry slug or repository reference.
	OriginStyle = lipgloss.NewStyle().
			Foreground(MutedLight)

	// OptionalStyle is the marker for non-required dependencies.
	OptionalStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// DescriptionStyle is for free-form dependency descriptions.
	DescriptionStyle = lipgloss.NewStyle().
				Foreground(Muted)
)

// Summary styles.
var (
	// SummaryOKStyle is for an all-satisfied summary line.
	SummaryOKStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	// SummaryWarnStyle is for summaries with optional failures.
	SummaryWarnStyle = lipgloss.NewStyle().
				Foreground(Warning).
				Bold(true)

	// SummaryFailStyle is for aborted runs.
	SummaryFailStyle = lipgloss.NewStyle().
				Foreground(Error).
				Bold(true)

	// ErrorStyle is for error detail lines.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error)

	// SuggestionStyle is for recovery suggestions under an error.
	SuggestionStyle = lipgloss.NewStyle().
			Foreground(MutedLight)
)
