package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED") // Purple
	accentColor  = lipgloss.Color("#10B981") // Green
	mutedColor   = lipgloss.Color("#6B7280") // Gray
	errorColor   = lipgloss.Color("#EF4444") // Red
	warningColor = lipgloss.Color("#F59E0B") // Amber

	// Header styles
	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(primaryColor).
				Padding(0, 1)

	headerInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E0E0E0")).
			Background(primaryColor).
			Padding(0, 1)

	// Transcript styles
	chatUserStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	chatAssistantStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Bold(true)

	chatTimeStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	chatEmptyStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(1, 2)

	// Button chip styles (suggested follow-ups and quick actions)
	chipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E0E0E0")).
			Background(lipgloss.Color("#3B3B3B")).
			Padding(0, 1)

	chipSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(primaryColor).
				Padding(0, 1)

	chipStagedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#111111")).
			Background(warningColor).
			Padding(0, 1)

	// Action status line styles
	actionStatusStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Padding(0, 1)

	actionErrorStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Padding(0, 1)

	// Error banner
	errorBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(errorColor).
				Padding(0, 1)

	// Status bar
	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	// Input line styles
	inputLineStyle = lipgloss.NewStyle().
			Padding(0, 1)

	inputLineFocusedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(lipgloss.Color("#FFFFFF"))
)
