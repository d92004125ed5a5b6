package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alfredlabs/missionctl/internal/feed"
)

// View represents the currently active view.
type View int

const (
	ViewOverview View = iota
	ViewSessions
	ViewSubAgents
	ViewActivity
)

var viewNames = []string{"Overview", "Sessions", "Sub-Agents", "Activity"}

// sessionKinds is the filter cycle for the sessions view; the empty string
// shows everything.
var sessionKinds = []string{"", feed.KindMain, feed.KindSubagent, feed.KindCron}

// tickMsg triggers a periodic snapshot reload.
type tickMsg struct{}

// Model is the top-level bubbletea model for the mission control TUI.
type Model struct {
	source  *feed.Source
	keys    ViewKeyMap
	refresh time.Duration
	width   int
	height  int

	// Current view
	activeView View

	// Latest snapshot of the workspace
	snap feed.Snapshot

	// View-specific state
	sessionKindIdx     int
	sessionSelectedIdx int
	sessionShowDetail  bool

	subAgentSelectedIdx int

	activityCatIdx      int
	activitySelectedIdx int
}

// New creates a new TUI model and takes an initial snapshot.
func New(source *feed.Source, refresh time.Duration) Model {
	m := Model{
		source:  source,
		keys:    DefaultKeyMap(),
		refresh: refresh,
	}
	m.reload()
	return m
}

// reload replaces the snapshot and clamps selections to the new data.
func (m *Model) reload() {
	m.snap = m.source.Snapshot()
	if n := len(m.filteredSessions()); m.sessionSelectedIdx >= n {
		m.sessionSelectedIdx = max(0, n-1)
	}
	if n := len(m.filteredActivity()); m.activitySelectedIdx >= n {
		m.activitySelectedIdx = max(0, n-1)
	}
	if n := len(feed.Running(m.snap.SubAgents)); m.subAgentSelectedIdx >= n {
		m.subAgentSelectedIdx = max(0, n-1)
	}
}

func (m Model) filteredSessions() []feed.Session {
	return feed.FilterSessions(m.snap.Sessions, sessionKinds[m.sessionKindIdx])
}

func (m Model) filteredActivity() []feed.ActivityEvent {
	return feed.FilterActivity(m.snap.Activity, feed.Categories()[m.activityCatIdx])
}

// tickEvery returns a Cmd that sends a tickMsg after the refresh interval.
func (m Model) tickEvery() tea.Cmd {
	return tea.Tick(m.refresh, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("Mission Control - Alfred"),
		m.tickEvery(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.reload()
		return m, m.tickEvery()

	case tea.KeyMsg:
		// Quit, unless a detail view is open
		if key.Matches(msg, m.keys.Quit) {
			if m.sessionShowDetail {
				m.sessionShowDetail = false
				return m, nil
			}
			return m, tea.Quit
		}

		if key.Matches(msg, m.keys.Escape) {
			m.sessionShowDetail = false
			return m, nil
		}

		if key.Matches(msg, m.keys.Reload) {
			m.reload()
			return m, nil
		}

		// Tab navigation (not in detail view)
		if !m.sessionShowDetail {
			if key.Matches(msg, m.keys.Tab) {
				m.activeView = (m.activeView + 1) % 4
				return m, nil
			}
			if key.Matches(msg, m.keys.ShiftTab) {
				m.activeView = (m.activeView + 3) % 4
				return m, nil
			}
			if key.Matches(msg, m.keys.View1) {
				m.activeView = ViewOverview
				return m, nil
			}
			if key.Matches(msg, m.keys.View2) {
				m.activeView = ViewSessions
				return m, nil
			}
			if key.Matches(msg, m.keys.View3) {
				m.activeView = ViewSubAgents
				return m, nil
			}
			if key.Matches(msg, m.keys.View4) {
				m.activeView = ViewActivity
				return m, nil
			}
		}

		return m.handleViewKeys(msg)
	}

	return m, nil
}

// handleViewKeys dispatches key events to the active view's handler.
func (m Model) handleViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.activeView {
	case ViewSessions:
		return m.handleSessionsKeys(msg)
	case ViewSubAgents:
		return m.handleSubAgentsKeys(msg)
	case ViewActivity:
		return m.handleActivityKeys(msg)
	}
	return m, nil
}

func (m Model) handleSessionsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Filter) && !m.sessionShowDetail {
		m.sessionKindIdx = (m.sessionKindIdx + 1) % len(sessionKinds)
		m.sessionSelectedIdx = 0
		return m, nil
	}
	sessions := m.filteredSessions()
	if len(sessions) == 0 {
		return m, nil
	}
	if key.Matches(msg, m.keys.Up) {
		if m.sessionSelectedIdx > 0 {
			m.sessionSelectedIdx--
		}
	}
	if key.Matches(msg, m.keys.Down) {
		if m.sessionSelectedIdx < len(sessions)-1 {
			m.sessionSelectedIdx++
		}
	}
	if key.Matches(msg, m.keys.Enter) {
		m.sessionShowDetail = !m.sessionShowDetail
	}
	return m, nil
}

func (m Model) handleSubAgentsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	running := feed.Running(m.snap.SubAgents)
	if len(running) == 0 {
		return m, nil
	}
	if key.Matches(msg, m.keys.Up) {
		if m.subAgentSelectedIdx > 0 {
			m.subAgentSelectedIdx--
		}
	}
	if key.Matches(msg, m.keys.Down) {
		if m.subAgentSelectedIdx < len(running)-1 {
			m.subAgentSelectedIdx++
		}
	}
	return m, nil
}

func (m Model) handleActivityKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Filter) {
		m.activityCatIdx = (m.activityCatIdx + 1) % len(feed.Categories())
		m.activitySelectedIdx = 0
		return m, nil
	}
	events := m.filteredActivity()
	if len(events) == 0 {
		return m, nil
	}
	if key.Matches(msg, m.keys.Up) {
		if m.activitySelectedIdx > 0 {
			m.activitySelectedIdx--
		}
	}
	if key.Matches(msg, m.keys.Down) {
		if m.activitySelectedIdx < len(events)-1 {
			m.activitySelectedIdx++
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderTabBar())

	if m.snap.WorkspaceMissing {
		sections = append(sections, NoticeStyle.Render(
			fmt.Sprintf(" No data source configured: %s does not exist", m.source.Root())))
	} else {
		for _, note := range m.snap.Notes {
			sections = append(sections, NoticeStyle.Render(" "+note))
		}
	}

	sections = append(sections, m.renderContent())

	main := lipgloss.JoinVertical(lipgloss.Left, sections...)

	mainHeight := lipgloss.Height(main)
	statusBar := m.renderStatusBar()
	statusHeight := lipgloss.Height(statusBar)

	emptySpace := m.height - mainHeight - statusHeight
	if emptySpace > 0 {
		main += strings.Repeat("\n", emptySpace)
	}

	return main + "\n" + statusBar
}

// renderHeader renders the top header bar.
func (m Model) renderHeader() string {
	leftContent := " MISSION CONTROL  Alfred"
	rightContent := fmt.Sprintf("%s ", m.source.Root())

	leftPart := HeaderStyle.Render(leftContent)
	rightPart := lipgloss.NewStyle().
		Foreground(ColorSurface1).
		Background(ColorBlue).
		Padding(0, 2).
		Render(rightContent)

	leftWidth := lipgloss.Width(leftPart)
	rightWidth := lipgloss.Width(rightPart)
	gapWidth := m.width - leftWidth - rightWidth
	if gapWidth < 0 {
		gapWidth = 0
	}
	gap := lipgloss.NewStyle().
		Background(ColorBlue).
		Render(strings.Repeat(" ", gapWidth))

	return leftPart + gap + rightPart
}

// renderTabBar renders the navigation tab bar.
func (m Model) renderTabBar() string {
	var tabs []string
	for i, name := range viewNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if View(i) == m.activeView {
			tabs = append(tabs, ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(label))
		}
	}
	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return TabBarStyle.Render(tabBar)
}

// renderContent renders the main content area based on the active view.
func (m Model) renderContent() string {
	padding := lipgloss.NewStyle().Padding(0, 1)
	var content string
	switch m.activeView {
	case ViewOverview:
		content = m.overviewView()
	case ViewSessions:
		content = m.sessionsView()
	case ViewSubAgents:
		content = m.subAgentsView()
	case ViewActivity:
		content = m.activityView()
	default:
		content = EmptyStateStyle.Render("Unknown view")
	}
	return padding.Render(content)
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts.
func (m Model) renderStatusBar() string {
	viewLabel := StatusKeyStyle.Render(fmt.Sprintf(" %s ", viewNames[m.activeView]))

	var shortcuts []string
	if m.sessionShowDetail {
		shortcuts = append(shortcuts,
			shortcutText("esc", "back"),
		)
	} else {
		shortcuts = append(shortcuts,
			shortcutText("tab", "next view"),
			shortcutText("1-4", "jump"),
		)
		switch m.activeView {
		case ViewSessions:
			shortcuts = append(shortcuts,
				shortcutText("j/k", "navigate"),
				shortcutText("enter", "details"),
				shortcutText("f", "filter"),
			)
		case ViewSubAgents:
			shortcuts = append(shortcuts,
				shortcutText("j/k", "navigate"),
			)
		case ViewActivity:
			shortcuts = append(shortcuts,
				shortcutText("j/k", "navigate"),
				shortcutText("f", "filter"),
			)
		}
		shortcuts = append(shortcuts, shortcutText("r", "reload"))
	}
	shortcuts = append(shortcuts, shortcutText("q", "quit"))

	rightContent := strings.Join(shortcuts, StatusValueStyle.Render("  "))

	leftWidth := lipgloss.Width(viewLabel)
	rightWidth := lipgloss.Width(rightContent)
	gapWidth := m.width - leftWidth - rightWidth - 2
	if gapWidth < 0 {
		gapWidth = 0
	}
	gap := StatusBarStyle.Render(strings.Repeat(" ", gapWidth))

	return StatusBarStyle.Width(m.width).Render(viewLabel + gap + rightContent)
}

// shortcutText renders a key shortcut with styling.
func shortcutText(keyStr, desc string) string {
	return StatusKeyStyle.Render(keyStr) + StatusValueStyle.Render(" "+desc)
}

// Run starts the TUI application.
func Run(source *feed.Source, refresh time.Duration) error {
	m := New(source, refresh)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
