package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/alfredlabs/missionctl/internal/feed"
)

// subAgentsView renders the sub-agent task log split into running and
// completed sections.
func (m Model) subAgentsView() string {
	width := m.width
	if width < 20 {
		width = 80
	}
	contentWidth := width - 4

	running := feed.Running(m.snap.SubAgents)
	completed := feed.Completed(m.snap.SubAgents)

	if len(m.snap.SubAgents) == 0 {
		return EmptyStateStyle.Render("No sub-agent tasks logged yet.")
	}

	summary := lipgloss.NewStyle().Foreground(ColorSubtext0).Render(
		fmt.Sprintf("  %d running, %d completed", len(running), len(completed)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		summary, "",
		m.renderRunningCard(running, contentWidth),
		m.renderCompletedCard(completed, contentWidth),
	)
}

func (m Model) renderRunningCard(running []feed.SubAgentEvent, width int) string {
	style := CardStyle.Width(width)
	title := CardTitleStyle.Render("Running")

	if len(running) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left, title,
			EmptyStateStyle.Render("No sub-agents running"))
		return style.Render(content)
	}

	var lines []string
	lines = append(lines, title)

	now := time.Now()
	for i, ev := range running {
		isSelected := i == m.subAgentSelectedIdx

		task := ansi.Truncate(ev.Task, max(10, width-44), "...")
		line := fmt.Sprintf("  %s %-20s %s  %s",
			lipgloss.NewStyle().Foreground(ColorYellow).Bold(true).Render("▸"),
			lipgloss.NewStyle().Foreground(ColorTeal).Render(ev.SessionKey),
			lipgloss.NewStyle().Foreground(ColorText).Render(task),
			lipgloss.NewStyle().Foreground(ColorOverlay0).Render(feed.TimeAgo(ev.Timestamp.Time, now)),
		)
		if isSelected {
			line = lipgloss.NewStyle().
				Background(ColorSurface1).
				Bold(true).
				Width(width - 6).
				Render(line)
		}
		lines = append(lines, line)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return style.Render(content)
}

func (m Model) renderCompletedCard(completed []feed.SubAgentEvent, width int) string {
	style := CardStyle.Width(width)
	title := CardTitleStyle.Render("Completed")

	if len(completed) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left, title,
			EmptyStateStyle.Render("No completions recorded"))
		return style.Render(content)
	}

	maxVisible := m.height - 18 - len(feed.Running(m.snap.SubAgents))
	if maxVisible < 3 {
		maxVisible = 3
	}

	var lines []string
	lines = append(lines, title)

	// Most recent completions first
	shown := 0
	now := time.Now()
	for i := len(completed) - 1; i >= 0 && shown < maxVisible; i-- {
		ev := completed[i]
		shown++

		resultStyle := lipgloss.NewStyle().Foreground(ColorGreen)
		result := ev.Status
		switch result {
		case "", "success", "ok":
			result = "success"
		case "failed", "error":
			resultStyle = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
		default:
			resultStyle = lipgloss.NewStyle().Foreground(ColorYellow)
		}

		line := fmt.Sprintf("  %s %-20s %-10s %s",
			lipgloss.NewStyle().Foreground(ColorGreen).Render("✓"),
			lipgloss.NewStyle().Foreground(ColorTeal).Render(ev.SessionKey),
			resultStyle.Render(result),
			lipgloss.NewStyle().Foreground(ColorOverlay0).Render(feed.TimeAgo(ev.Timestamp.Time, now)),
		)
		lines = append(lines, line)
	}

	if len(completed) > maxVisible {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(ColorOverlay0).Render(
			fmt.Sprintf("  showing %d of %d", maxVisible, len(completed))))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return style.Render(content)
}
