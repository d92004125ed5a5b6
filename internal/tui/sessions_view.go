package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/alfredlabs/missionctl/internal/feed"
)

// sessionsView renders the conversation sessions view.
func (m Model) sessionsView() string {
	width := m.width
	if width < 20 {
		width = 80
	}
	contentWidth := width - 4

	sessions := m.filteredSessions()

	filterLabel := "all kinds"
	if kind := sessionKinds[m.sessionKindIdx]; kind != "" {
		filterLabel = kind
	}
	summary := lipgloss.NewStyle().Foreground(ColorSubtext0).Render(
		fmt.Sprintf("  %d sessions", len(sessions))) +
		"  " + BadgeStyle.Render(filterLabel)

	if len(sessions) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			summary, "",
			EmptyStateStyle.Render("No sessions to show. The agent records sessions as conversations start."),
		)
	}

	if m.sessionShowDetail && m.sessionSelectedIdx >= 0 && m.sessionSelectedIdx < len(sessions) {
		return lipgloss.JoinVertical(lipgloss.Left,
			summary, "",
			m.renderSessionDetail(sessions, contentWidth),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		summary, "",
		m.renderSessionsList(sessions, contentWidth),
	)
}

func (m Model) renderSessionsList(sessions []feed.Session, width int) string {
	var lines []string

	hdr := lipgloss.NewStyle().Bold(true).Foreground(ColorMauve)
	headerLine := fmt.Sprintf("  %-20s  %-10s  %-10s  %-12s  %s",
		hdr.Render("Key"),
		hdr.Render("Kind"),
		hdr.Render("Status"),
		hdr.Render("Last Seen"),
		hdr.Render("Last Message"),
	)
	lines = append(lines, headerLine)
	lines = append(lines, DividerStyle.Render(strings.Repeat("─", width-4)))

	maxVisible := m.height - 14
	if maxVisible < 5 {
		maxVisible = 5
	}

	startIdx := 0
	if m.sessionSelectedIdx >= maxVisible {
		startIdx = m.sessionSelectedIdx - maxVisible + 1
	}
	endIdx := startIdx + maxVisible
	if endIdx > len(sessions) {
		endIdx = len(sessions)
	}

	now := time.Now()
	for i := startIdx; i < endIdx; i++ {
		s := sessions[i]
		isSelected := i == m.sessionSelectedIdx

		keyStr := s.Key
		if len(keyStr) > 20 {
			keyStr = keyStr[:17] + "..."
		}

		preview := s.LastMessagePreview
		maxPreview := width - 66
		if maxPreview < 10 {
			maxPreview = 10
		}
		preview = ansi.Truncate(preview, maxPreview, "...")

		line := fmt.Sprintf("  %-20s  %-10s  %-10s  %-12s  %s",
			lipgloss.NewStyle().Foreground(ColorTeal).Bold(true).Render(keyStr),
			StyledKind(s.Kind),
			StyledSessionStatus(s.Status),
			lipgloss.NewStyle().Foreground(ColorOverlay0).Render(feed.TimeAgo(s.LastActivity.Time, now)),
			lipgloss.NewStyle().Foreground(ColorText).Render(preview),
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

	if len(sessions) > maxVisible {
		scrollInfo := lipgloss.NewStyle().Foreground(ColorOverlay0).Render(
			fmt.Sprintf("  showing %d-%d of %d", startIdx+1, endIdx, len(sessions)),
		)
		lines = append(lines, "", scrollInfo)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderSessionDetail(sessions []feed.Session, width int) string {
	if m.sessionSelectedIdx < 0 || m.sessionSelectedIdx >= len(sessions) {
		return ErrorStyle.Render("Invalid session index")
	}
	s := sessions[m.sessionSelectedIdx]

	backHint := lipgloss.NewStyle().Foreground(ColorOverlay0).Italic(true).Render("  Press ESC to go back")

	title := DetailTitleStyle.Render(s.Key)

	kindLine := fmt.Sprintf("%s %s", DetailLabelStyle.Render("Kind:"), StyledKind(s.Kind))
	statusLine := fmt.Sprintf("%s %s", DetailLabelStyle.Render("Status:"), StyledSessionStatus(s.Status))
	seenLine := fmt.Sprintf("%s %s", DetailLabelStyle.Render("Last activity:"),
		feed.TimeAgo(s.LastActivity.Time, time.Now()))

	sections := []string{backHint, "", title, kindLine, statusLine, seenLine}

	if s.LastMessagePreview != "" {
		maxContentWidth := width - 6
		if maxContentWidth < 20 {
			maxContentWidth = 20
		}
		sections = append(sections, "",
			DetailLabelStyle.Render("Last message:"),
			lipgloss.NewStyle().Foreground(ColorSubtext1).Width(maxContentWidth).Padding(0, 1).Render(s.LastMessagePreview),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return CardStyle.Width(width).Render(content)
}
