package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/portfolio/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// palette maps the named project and award colors to terminal colors.
var palette = map[string]lipgloss.AdaptiveColor{
	"Pink":       {Dark: "#F783AC", Light: "#C2255C"},
	"Purple":     {Dark: "#CC5DE8", Light: "#805AD5"},
	"Red":        ColorRed,
	"Orange":     {Dark: "#FFA94D", Light: "#C05621"},
	"Gold":       ColorYellow,
	"Green":      ColorGreen,
	"Teal":       {Dark: "#38D9A9", Light: "#087F5B"},
	"Light Blue": ColorBlue,
	"Dark Blue":  {Dark: "#4263EB", Light: "#1C3FAA"},
	"Midnight":   {Dark: "#5C7CFA", Light: "#1A1B4B"},
	"Dark Gray":  {Dark: "#ADB5BD", Light: "#343A40"},
	"Gray":       ColorGray,
	"Light Gray": ColorSubtle,
}

// PaletteColor returns the terminal color for a palette name. Unknown
// names fall back to the default project color.
func PaletteColor(name string) lipgloss.AdaptiveColor {
	if c, ok := palette[name]; ok {
		return c
	}
	return palette[model.DefaultProjectColor]
}

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// TileStyle draws one award in the grid, colored by palette name.
func TileStyle(colorName string, selected bool) lipgloss.Style {
	c := PaletteColor(colorName)
	s := lipgloss.NewStyle().
		Width(12).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(c).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)
	if selected {
		s = s.BorderForeground(c)
	}
	return s
}

// ProjectStyle renders a project title in its color, dimmed when closed.
func ProjectStyle(p model.Project) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true).Foreground(PaletteColor(p.DisplayColor()))
	if p.Closed {
		s = s.Faint(true)
	}
	return s
}

// PriorityStyle returns a color-coded style for an item priority.
func PriorityStyle(p model.Priority) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch p.Normalize() {
	case model.PriorityHigh:
		return base.Foreground(ColorRed)
	case model.PriorityMedium:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGray)
	}
}
