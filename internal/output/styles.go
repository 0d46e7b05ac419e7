package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette — named constants for the ANSI 256 colors used in the CLI.
// These are the single source of truth; never use inline lipgloss.Color
// literals.
var (
	// ColorCyan is used for identifiable nouns: file names, document kinds,
	// control and attack ids.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for valid/success states.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for warnings.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for errors and failed validation.
	ColorRed = lipgloss.Color("196")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for structural chrome and disabled toggles.
	ColorDimGray = lipgloss.Color("240")
)

// Styles maps domain concepts to visual presentation.
type Styles struct {
	// Noun styles identifiable nouns (file names, ids, kinds).
	Noun lipgloss.Style

	// Success styles valid/success lines.
	Success lipgloss.Style

	// Warning styles warning lines.
	Warning lipgloss.Style

	// Error styles error lines.
	Error lipgloss.Style

	// Check styles the completion checkmark.
	Check lipgloss.Style

	// Dim styles secondary chrome and disabled entries.
	Dim lipgloss.Style
}

var defaultStyles = &Styles{
	Noun:    lipgloss.NewStyle().Foreground(ColorCyan),
	Success: lipgloss.NewStyle().Foreground(ColorGreen),
	Warning: lipgloss.NewStyle().Foreground(ColorYellow),
	Error:   lipgloss.NewStyle().Foreground(ColorRed),
	Check:   lipgloss.NewStyle().Foreground(ColorGreenCheck),
	Dim:     lipgloss.NewStyle().Foreground(ColorDimGray),
}

// GetStyles returns the default style set.
func GetStyles() *Styles {
	return defaultStyles
}
