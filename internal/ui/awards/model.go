// Package awards is the terminal awards grid.
package awards

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/portfolio/internal/award"
	"github.com/nhle/portfolio/internal/keys"
	"github.com/nhle/portfolio/internal/theme"
	"github.com/nhle/portfolio/internal/ui"
)

// Columns is the number of awards per grid row.
const Columns = 4

// Source provides the evaluated award catalog.
type Source interface {
	AwardStatuses(ctx context.Context) []award.Status
}

// StatusesLoadedMsg carries a fresh evaluation of the catalog.
type StatusesLoadedMsg struct {
	Statuses []award.Status
}

// RefreshMsg asks the grid to evaluate the catalog again, e.g. after the
// store changed.
type RefreshMsg struct{}

// Model is the awards grid view.
type Model struct {
	source   Source
	keys     *keys.KeyMap
	help     help.Model
	statuses []award.Status
	cursor   int
	alert    bool
	width    int
	height   int
}

// New creates a grid over source.
func New(source Source, k *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		source: source,
		keys:   k,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init loads the catalog.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Load returns a tea.Cmd that evaluates every award.
func (m Model) Load() tea.Cmd {
	src := m.source
	return func() tea.Msg {
		return StatusesLoadedMsg{Statuses: src.AwardStatuses(context.Background())}
	}
}

// Update handles messages for the grid.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StatusesLoadedMsg:
		m.statuses = msg.Statuses
		if m.cursor >= len(m.statuses) {
			m.cursor = max(len(m.statuses)-1, 0)
		}
		return m, nil

	case RefreshMsg:
		return m, m.Load()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.alert {
		if key.Matches(msg, m.keys.Back, m.keys.Select) {
			m.alert = false
			return m, nil
		}
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Left):
		m.move(-1)
	case key.Matches(msg, m.keys.Right):
		m.move(1)
	case key.Matches(msg, m.keys.Up):
		m.move(-Columns)
	case key.Matches(msg, m.keys.Down):
		m.move(Columns)
	case key.Matches(msg, m.keys.Select):
		if len(m.statuses) > 0 {
			m.alert = true
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.Load()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// move shifts the cursor by delta, staying inside the grid.
func (m *Model) move(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.statuses) {
		return
	}
	m.cursor = next
}

// Cursor returns the index of the selected award.
func (m Model) Cursor() int { return m.cursor }

// Alerting reports whether the selected award's alert is shown.
func (m Model) Alerting() bool { return m.alert }

// Earned counts the earned awards in the last evaluation.
func (m Model) Earned() int {
	n := 0
	for _, s := range m.statuses {
		if s.Earned {
			n++
		}
	}
	return n
}

// View renders the grid, or the alert for the selected award.
func (m Model) View() string {
	layout := ui.NewLayout(m.width, m.height)
	header := layout.Header("Awards", fmt.Sprintf("%d/%d earned", m.Earned(), len(m.statuses)))
	footer := layout.StatusBar(m.help.View(m.keys))

	var content string
	switch {
	case len(m.statuses) == 0:
		content = lipgloss.NewStyle().
			Width(m.width).
			Height(layout.ContentHeight()).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No awards in the catalog.")
	case m.alert:
		content = m.renderAlert()
	default:
		content = m.renderGrid()
	}

	return layout.Frame(header, content, footer)
}

func (m Model) renderGrid() string {
	var rows []string
	for start := 0; start < len(m.statuses); start += Columns {
		end := min(start+Columns, len(m.statuses))
		tiles := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			tiles = append(tiles, m.renderTile(i))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}
	return strings.Join(rows, "\n")
}

// renderTile draws one award. Locked awards show only the locked label
// and color so their names stay hidden.
func (m Model) renderTile(i int) string {
	s := m.statuses[i]
	color := award.ColorName(s.Award, s.Earned)
	label := award.AccessibilityLabel(s.Award, s.Earned)
	return theme.TileStyle(color, i == m.cursor).Render(label)
}

func (m Model) renderAlert() string {
	s := m.statuses[m.cursor]
	title, message := award.Alert(s.Award, s.Earned)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.PaletteColor(award.ColorName(s.Award, s.Earned))).
		MarginBottom(1)

	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		message,
		"",
		theme.HelpStyle.Render("enter/esc to dismiss"),
	)
	return theme.DetailPanelStyle.Width(max(m.width-4, 20)).Render(body)
}
