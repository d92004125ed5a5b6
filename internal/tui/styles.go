package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alfredlabs/missionctl/internal/theme"
)

// Color palette - dark theme inspired by Catppuccin Mocha
var (
	ColorBase     = lipgloss.Color("#1e1e2e")
	ColorSurface0 = lipgloss.Color("#313244")
	ColorSurface1 = lipgloss.Color("#45475a")
	ColorSurface2 = lipgloss.Color("#585b70")
	ColorOverlay0 = lipgloss.Color("#6c7086")
	ColorText     = lipgloss.Color("#cdd6f4")
	ColorSubtext0 = lipgloss.Color("#a6adc8")
	ColorSubtext1 = lipgloss.Color("#bac2de")

	ColorRed      = lipgloss.Color("#f38ba8")
	ColorGreen    = lipgloss.Color("#a6e3a1")
	ColorYellow   = lipgloss.Color("#f9e2af")
	ColorBlue     = lipgloss.Color("#89b4fa")
	ColorMauve    = lipgloss.Color("#cba6f7")
	ColorTeal     = lipgloss.Color("#94e2d5")
	ColorPeach    = lipgloss.Color("#fab387")
	ColorLavender = lipgloss.Color("#b4befe")
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBase).
			Background(ColorBlue).
			Padding(0, 2).
			MarginBottom(1)
)

// Navigation tab styles
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBase).
			Background(ColorMauve).
			Padding(0, 2)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(ColorSubtext0).
				Background(ColorSurface0).
				Padding(0, 2)

	TabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)
)

// Status bar
var (
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext0).
			Background(ColorSurface0).
			Padding(0, 1)

	StatusKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorLavender).
			Background(ColorSurface0)

	StatusValueStyle = lipgloss.NewStyle().
				Foreground(ColorSubtext0).
				Background(ColorSurface0)
)

// Card/panel styles
var (
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSurface2).
			Padding(1, 2)

	CardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorLavender).
			MarginBottom(1)
)

// Online indicator styles
var (
	OnlineStyle  = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	OfflineStyle = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	UnknownStyle = lipgloss.NewStyle().Foreground(ColorOverlay0)
)

// Session state styles
var (
	SessionActiveStyle = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	SessionIdleStyle   = lipgloss.NewStyle().Foreground(ColorYellow)
	SessionClosedStyle = lipgloss.NewStyle().Foreground(ColorOverlay0)
)

// Detail view styles
var (
	DetailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorBlue).
				MarginBottom(1)

	DetailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorMauve).
				Width(16)
)

// Badge/tag styles
var (
	BadgeStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(ColorBase).
			Background(ColorMauve)
)

// Misc
var (
	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorSurface2)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	EmptyStateStyle = lipgloss.NewStyle().
			Foreground(ColorOverlay0).
			Italic(true).
			Padding(2, 4)
)

// StyledSessionStatus renders a session state with its indicator dot.
func StyledSessionStatus(status string) string {
	switch status {
	case "active":
		return theme.SessionIndicator(status) + SessionActiveStyle.Render("active")
	case "idle":
		return theme.SessionIndicator(status) + SessionIdleStyle.Render("idle")
	case "closed":
		return theme.SessionIndicator(status) + SessionClosedStyle.Render("closed")
	default:
		return UnknownStyle.Render("● " + status)
	}
}

// StyledKind renders a session kind badge.
func StyledKind(kind string) string {
	label := kind
	if label == "" {
		label = "main"
	}
	return lipgloss.NewStyle().Foreground(theme.KindColor(kind)).Render(label)
}
