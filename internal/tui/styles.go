package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Header and step tabs
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))
	TabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Bold(true).
			Padding(0, 1)
	HelperStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Italic(true)

	// Option lists
	CursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	OptionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	DescriptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	// Status line
	StatusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	StatusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	HelpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Confirmation dialog
	ConfirmStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 2)
)

// swatch renders a two-cell block in the given hex color.
func swatch(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("██")
}

// checkbox renders a boolean option.
func checkbox(on bool, label string) string {
	if on {
		return "[x] " + label
	}
	return "[ ] " + label
}
