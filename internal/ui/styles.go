// Package ui holds the lipgloss palette and the two typography modes of the TUI.
package ui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/shimteo/shimteo/internal/prefs"
)

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#FF5555")
	ColorOrange  = lipgloss.Color("#FFAA33")
	ColorGreen   = lipgloss.Color("#55DD77")
	ColorYellow  = lipgloss.Color("#FFFF00")
	ColorBlue    = lipgloss.Color("#66AAFF")
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorGray    = lipgloss.Color("#888888")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
)

// Theme is the set of styles for one typography mode.
type Theme struct {
	Mode prefs.TypographyMode

	Title        lipgloss.Style
	Header       lipgloss.Style
	Body         lipgloss.Style
	Dim          lipgloss.Style
	Selected     lipgloss.Style
	Error        lipgloss.Style
	ErrorText    lipgloss.Style
	Badge        lipgloss.Style
	Tab          lipgloss.Style
	TabActive    lipgloss.Style
	FooterKey    lipgloss.Style
	FooterDesc   lipgloss.Style
	Divider      lipgloss.Style
	SeasonHeat   lipgloss.Style
	SeasonCold   lipgloss.Style
	SeverityLow  lipgloss.Style
	SeverityMid  lipgloss.Style
	SeverityHigh lipgloss.Style

	// Cursor is the selection marker; LineGap blank lines separate list items.
	Cursor  string
	LineGap int
}

func defaultTheme() Theme {
	return Theme{
		Mode:         prefs.ModeDefault,
		Title:        lipgloss.NewStyle().Bold(true).Foreground(ColorCyan),
		Header:       lipgloss.NewStyle().Foreground(ColorCyan),
		Body:         lipgloss.NewStyle(),
		Dim:          lipgloss.NewStyle().Foreground(ColorGray),
		Selected:     lipgloss.NewStyle().Foreground(ColorCyan).Bold(true),
		Error:        lipgloss.NewStyle().Foreground(ColorRed).Bold(true),
		ErrorText:    lipgloss.NewStyle().Foreground(ColorRed),
		Badge:        lipgloss.NewStyle().Foreground(ColorGreen).Bold(true),
		Tab:          lipgloss.NewStyle().Foreground(ColorGray),
		TabActive:    lipgloss.NewStyle().Foreground(ColorCyan).Bold(true).Underline(true),
		FooterKey:    lipgloss.NewStyle().Foreground(ColorYellow).Bold(true),
		FooterDesc:   lipgloss.NewStyle().Foreground(ColorGray),
		Divider:      lipgloss.NewStyle().Foreground(ColorDimGray),
		SeasonHeat:   lipgloss.NewStyle().Foreground(ColorOrange).Bold(true),
		SeasonCold:   lipgloss.NewStyle().Foreground(ColorBlue).Bold(true),
		SeverityLow:  lipgloss.NewStyle().Foreground(ColorGreen),
		SeverityMid:  lipgloss.NewStyle().Foreground(ColorYellow),
		SeverityHigh: lipgloss.NewStyle().Foreground(ColorRed).Bold(true),
		Cursor:       "> ",
		LineGap:      0,
	}
}

// seniorTheme trades density for legibility: bold high-contrast text, a wider cursor and a
// blank line between list items.
func seniorTheme() Theme {
	t := defaultTheme()
	t.Mode = prefs.ModeSenior
	t.Title = t.Title.Foreground(ColorWhite).Background(lipgloss.Color("#005F87")).Padding(0, 1)
	t.Header = t.Header.Bold(true)
	t.Body = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite)
	t.Dim = lipgloss.NewStyle().Foreground(lipgloss.Color("#BBBBBB"))
	t.Selected = t.Selected.Reverse(true)
	t.FooterDesc = lipgloss.NewStyle().Foreground(ColorWhite)
	t.Cursor = "▶▶ "
	t.LineGap = 1
	return t
}

var (
	mu      sync.RWMutex
	current = defaultTheme()
)

// ApplyMode replaces the active theme. Exactly one mode is active at any time.
func ApplyMode(mode prefs.TypographyMode) {
	mu.Lock()
	defer mu.Unlock()
	if mode == prefs.ModeSenior {
		current = seniorTheme()
		return
	}
	current = defaultTheme()
}

// Current returns the active theme.
func Current() Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Presenter routes preference mode changes to ApplyMode.
type Presenter struct{}

func (Presenter) ApplyMode(mode prefs.TypographyMode) { ApplyMode(mode) }
