package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("63")
	colorMuted   = lipgloss.Color("245")
	colorText    = lipgloss.Color("252")
	colorError   = lipgloss.Color("196")
	colorErrorBg = lipgloss.Color("52")
	colorChip    = lipgloss.Color("25")
	colorStar    = lipgloss.Color("220")
	colorSpinner = lipgloss.Color("69")
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorText).MarginTop(1)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	labelStyle    = lipgloss.NewStyle().Foreground(colorMuted).Width(10)
	focusedLabel  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Width(10)
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true)

	selectorStyle        = lipgloss.NewStyle().Foreground(colorText).Padding(0, 1)
	focusedSelectorStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorAccent).Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
	selectedCardStyle = cardStyle.BorderForeground(colorAccent)
	cardTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	coverImageStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Background(lipgloss.Color("236"))
	coverPlaceholder  = lipgloss.NewStyle().Foreground(colorMuted).Background(lipgloss.Color("236"))
	chipStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(colorChip).Padding(0, 1)
	ratingStyle       = lipgloss.NewStyle().Foreground(colorStar)

	bannerStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Background(colorErrorBg).
			Padding(0, 1).
			MarginTop(1)
	fatalBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorError).
			Padding(1, 3).
			Align(lipgloss.Center)
	fatalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	formErrorStyle  = lipgloss.NewStyle().Foreground(colorError)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)
)
