package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/alfredlabs/missionctl/internal/feed"
	"github.com/alfredlabs/missionctl/internal/theme"
)

// overviewView renders the at-a-glance dashboard content.
func (m Model) overviewView() string {
	width := m.width
	if width < 20 {
		width = 80
	}
	contentWidth := width - 4

	var sections []string
	sections = append(sections, m.renderStatusCard(contentWidth))

	leftWidth := contentWidth*55/100 - 2
	rightWidth := contentWidth*45/100 - 2

	if leftWidth < 30 {
		// Narrow terminal: stack vertically
		sections = append(sections, m.renderCountersCard(contentWidth))
		sections = append(sections, m.renderRecentActivityCard(contentWidth))
	} else {
		columns := lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderCountersCard(leftWidth),
			"  ",
			m.renderRecentActivityCard(rightWidth),
		)
		sections = append(sections, columns)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStatusCard(width int) string {
	style := CardStyle.Width(width)
	title := CardTitleStyle.Render("Agent Status")

	var indicator string
	var lastSeen string
	if m.snap.Status == nil {
		indicator = theme.AgentUnknown.String()
		lastSeen = "unknown"
	} else if m.snap.Status.Online {
		indicator = theme.AgentOnline.String()
		lastSeen = feed.TimeAgo(m.snap.Status.LastActivity.Time, time.Now())
	} else {
		indicator = theme.AgentOffline.String()
		lastSeen = feed.TimeAgo(m.snap.Status.LastActivity.Time, time.Now())
	}

	statusLine := fmt.Sprintf("%s %s", DetailLabelStyle.Render("Agent:"), indicator)
	activityLine := fmt.Sprintf("%s %s", DetailLabelStyle.Render("Last activity:"), lastSeen)
	loadedLine := fmt.Sprintf("%s %s", DetailLabelStyle.Render("Refreshed:"),
		lipgloss.NewStyle().Foreground(ColorOverlay0).Render(m.snap.LoadedAt.Local().Format("15:04:05")))

	content := lipgloss.JoinVertical(lipgloss.Left, title, statusLine, activityLine, loadedLine)
	return style.Render(content)
}

func (m Model) renderCountersCard(width int) string {
	style := CardStyle.Width(width)
	title := CardTitleStyle.Render("Counters")

	active := m.snap.ActiveSessions()
	if m.snap.Status != nil {
		active = m.snap.Status.ActiveSessions
	}
	running := m.snap.RunningSubagents()

	sessionsLine := fmt.Sprintf("%s %s", DetailLabelStyle.Render("Sessions:"),
		lipgloss.NewStyle().Bold(true).Foreground(ColorGreen).Render(fmt.Sprintf("%d active", active)))
	totalLine := fmt.Sprintf("%s %d tracked", DetailLabelStyle.Render("Total:"), len(m.snap.Sessions))
	subagentsLine := fmt.Sprintf("%s %s", DetailLabelStyle.Render("Sub-agents:"),
		lipgloss.NewStyle().Bold(true).Foreground(ColorYellow).Render(fmt.Sprintf("%d running", running)))
	eventsLine := fmt.Sprintf("%s %d recent events", DetailLabelStyle.Render("Activity:"), len(m.snap.Activity))
	nextTaskLine := fmt.Sprintf("%s %s", DetailLabelStyle.Render("Next task:"),
		lipgloss.NewStyle().Foreground(ColorOverlay0).Render("none scheduled"))

	content := lipgloss.JoinVertical(lipgloss.Left, title, sessionsLine, totalLine, subagentsLine, eventsLine, nextTaskLine)
	return style.Render(content)
}

func (m Model) renderRecentActivityCard(width int) string {
	style := CardStyle.Width(width)
	title := CardTitleStyle.Render("Recent Activity")

	if len(m.snap.Activity) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left, title,
			EmptyStateStyle.Render("No activity yet"))
		return style.Render(content)
	}

	// Show last 10 events, most recent first
	start := 0
	if len(m.snap.Activity) > 10 {
		start = len(m.snap.Activity) - 10
	}

	var lines []string
	lines = append(lines, title)

	for i := len(m.snap.Activity) - 1; i >= start; i-- {
		ev := m.snap.Activity[i]
		timeStyle := lipgloss.NewStyle().Foreground(ColorOverlay0)

		summary := ansi.Truncate(ev.Summary, max(10, width-16), "...")

		line := fmt.Sprintf("  %s %s %s",
			timeStyle.Render(feed.Clock(ev.Timestamp.Time)),
			activityGlyph(ev.Type),
			lipgloss.NewStyle().Foreground(ColorText).Render(summary),
		)
		lines = append(lines, line)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return style.Render(content)
}

// activityGlyph renders a colored marker for an activity event type.
func activityGlyph(eventType string) string {
	return lipgloss.NewStyle().
		Foreground(theme.ActivityColor(eventType)).
		Render(theme.ActivityGlyph(eventType))
}
