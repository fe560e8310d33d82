package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/portfolio/internal/theme"
)

// Layout manages the terminal frame: a header line, the content area and
// a status line.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentHeight returns the height left for content between the bars.
func (l Layout) ContentHeight() int {
	return max(l.Height-2, 0)
}

// Header renders the top bar with a title on the left and a status on the right.
func (l Layout) Header(title, status string) string {
	return l.bar(theme.HeaderStyle, title, status)
}

// StatusBar renders the bottom bar with keyboard hints.
func (l Layout) StatusBar(hints string) string {
	return l.bar(theme.StatusBarStyle, hints, "")
}

// Frame joins header, content and status bar vertically.
func (l Layout) Frame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (l Layout) bar(style lipgloss.Style, left, right string) string {
	leftRendered := style.Render(left)
	rightRendered := ""
	if right != "" {
		rightRendered = style.Render(right)
	}

	gap := max(l.Width-lipgloss.Width(leftRendered)-lipgloss.Width(rightRendered), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, leftRendered, filler, rightRendered)
}
