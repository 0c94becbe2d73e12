package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/strata/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ActivePill renders the active/archived flag shared by projects, modules
// and use cases.
func ActivePill(active bool) string {
	if active {
		return StyleGreen.Render("● Active")
	}
	return StyleDim.Render("✖ Archived")
}

// TaskStatePill returns a colored indicator for a task state.
func TaskStatePill(s domain.TaskState) string {
	switch s {
	case domain.TaskNotStarted:
		return StyleBlue.Render("○ Not started")
	case domain.TaskInProgress:
		return StyleYellow.Render("▶ In progress")
	case domain.TaskCompleted:
		return StyleGreen.Render("✔ Completed")
	case domain.TaskCancelled:
		return StyleDim.Render("⊘ Cancelled")
	default:
		return StyleDim.Render(string(s))
	}
}

// TypeBadge returns a capitalized, purple task type label.
func TypeBadge(t domain.TaskType) string {
	s := string(t)
	if s == "" {
		return StyleDim.Render("--")
	}
	return StylePurple.Render(strings.ToUpper(s[:1]) + s[1:])
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
