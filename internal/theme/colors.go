package theme

import "github.com/charmbracelet/lipgloss"

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
	ColorFlamingo = lipgloss.Color("#f2cdcd")
	ColorLavender = lipgloss.Color("#b4befe")
)

// Session state indicator styles
var (
	SessionActiveDot = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true).SetString("● ")
	SessionIdleDot   = lipgloss.NewStyle().Foreground(ColorYellow).SetString("● ")
	SessionClosedDot = lipgloss.NewStyle().Foreground(ColorOverlay0).SetString("○ ")
)

// Agent online indicator styles
var (
	AgentOnline  = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true).SetString("● ONLINE")
	AgentOffline = lipgloss.NewStyle().Foreground(ColorRed).Bold(true).SetString("● OFFLINE")
	AgentUnknown = lipgloss.NewStyle().Foreground(ColorOverlay0).SetString("◌ UNKNOWN")
)

// SessionIndicator returns a styled dot for a session state.
func SessionIndicator(status string) string {
	switch status {
	case "active":
		return SessionActiveDot.String()
	case "idle":
		return SessionIdleDot.String()
	case "closed":
		return SessionClosedDot.String()
	default:
		return SessionIdleDot.String()
	}
}

// KindColor returns the accent color for a session kind.
func KindColor(kind string) lipgloss.Color {
	switch kind {
	case "subagent":
		return ColorMauve
	case "cron":
		return ColorPeach
	default:
		return ColorBlue
	}
}

// ActivityColor returns the accent color for an activity event type.
func ActivityColor(eventType string) lipgloss.Color {
	switch eventType {
	case "session_started", "session_ended":
		return ColorBlue
	case "task_started":
		return ColorYellow
	case "task_completed":
		return ColorGreen
	case "task_failed", "error_occurred":
		return ColorRed
	case "deliverable_created":
		return ColorMauve
	case "cron_executed":
		return ColorPeach
	default:
		return ColorSubtext0
	}
}

// ActivityGlyph returns the marker shown beside an activity event type.
func ActivityGlyph(eventType string) string {
	switch eventType {
	case "session_started":
		return "▶"
	case "session_ended":
		return "■"
	case "task_started":
		return "…"
	case "task_completed":
		return "✓"
	case "task_failed":
		return "✗"
	case "deliverable_created":
		return "◆"
	case "cron_executed":
		return "↻"
	case "error_occurred":
		return "!"
	default:
		return "·"
	}
}
