package ui

import "github.com/charmbracelet/lipgloss"

// Color palette for ragterm's spinner/progress output: a single lime accent
// plus a dimmed variant for the stage line underneath it.
const (
	ColorLime    = "154" // Spinner glyph
	ColorLimeDim = "106" // Progress message line
)

// Styles holds the lipgloss styles spinner.go renders progress with.
type Styles struct {
	// Stage renders each progress message line, including the current one
	// beside the spinner.
	Stage lipgloss.Style
	// Active renders the spinner glyph.
	Active lipgloss.Style
}

// DefaultStyles returns the lime-accented styles used on a color terminal.
func DefaultStyles() Styles {
	return Styles{
		Stage:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLimeDim)),
		Active: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
	}
}

// NoColorStyles returns unstyled components for --no-color/non-TTY output.
func NoColorStyles() Styles {
	return Styles{
		Stage:  lipgloss.NewStyle(),
		Active: lipgloss.NewStyle(),
	}
}

// GetStyles returns NoColorStyles when noColor is set, else DefaultStyles.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
