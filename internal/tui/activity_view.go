package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/alfredlabs/missionctl/internal/feed"
)

// categoryLabels maps filter categories to their tab labels.
var categoryLabels = map[feed.Category]string{
	feed.CategoryAll:          "All",
	feed.CategorySessions:     "Sessions",
	feed.CategoryTasks:        "Tasks",
	feed.CategoryDeliverables: "Deliverables",
	feed.CategoryErrors:       "Errors",
}

// activityView renders the activity feed, newest events first.
func (m Model) activityView() string {
	width := m.width
	if width < 20 {
		width = 80
	}
	contentWidth := width - 4

	events := m.filteredActivity()

	var catTabs []string
	for i, cat := range feed.Categories() {
		label := categoryLabels[cat]
		if i == m.activityCatIdx {
			catTabs = append(catTabs, BadgeStyle.Render(label))
		} else {
			catTabs = append(catTabs, lipgloss.NewStyle().Foreground(ColorOverlay0).Padding(0, 1).Render(label))
		}
	}
	filterBar := "  " + lipgloss.JoinHorizontal(lipgloss.Top, catTabs...)

	if len(events) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			filterBar, "",
			EmptyStateStyle.Render("No activity in this category."),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		filterBar, "",
		m.renderActivityList(events, contentWidth),
	)
}

func (m Model) renderActivityList(events []feed.ActivityEvent, width int) string {
	var lines []string

	hdr := lipgloss.NewStyle().Bold(true).Foreground(ColorMauve)
	headerLine := fmt.Sprintf("  %-10s  %-3s  %s",
		hdr.Render("Time"),
		hdr.Render(""),
		hdr.Render("Summary"),
	)
	lines = append(lines, headerLine)
	lines = append(lines, DividerStyle.Render(strings.Repeat("─", width-4)))

	maxVisible := m.height - 14
	if maxVisible < 5 {
		maxVisible = 5
	}

	startIdx := 0
	if m.activitySelectedIdx >= maxVisible {
		startIdx = m.activitySelectedIdx - maxVisible + 1
	}
	endIdx := startIdx + maxVisible
	if endIdx > len(events) {
		endIdx = len(events)
	}

	for i := startIdx; i < endIdx; i++ {
		// Display newest first
		revIdx := len(events) - 1 - i
		if revIdx < 0 {
			break
		}
		ev := events[revIdx]
		isSelected := i == m.activitySelectedIdx

		summary := ansi.Truncate(ev.Summary, max(10, width-24), "...")

		line := fmt.Sprintf("  %-10s  %-3s  %s",
			lipgloss.NewStyle().Foreground(ColorOverlay0).Render(feed.Clock(ev.Timestamp.Time)),
			activityGlyph(ev.Type),
			lipgloss.NewStyle().Foreground(ColorText).Render(summary),
		)

		if isSelected {
			line = lipgloss.NewStyle().
				Background(ColorSurface1).
				Foreground(ColorText).
				Bold(true).
				Width(width - 2).
				Render(line)
		}

		lines = append(lines, line)
	}

	if len(events) > maxVisible {
		scrollInfo := lipgloss.NewStyle().Foreground(ColorOverlay0).Render(
			fmt.Sprintf("  showing %d-%d of %d", startIdx+1, endIdx, len(events)),
		)
		lines = append(lines, "", scrollInfo)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
