package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	help    lipgloss.Style
	muted   lipgloss.Style
	barFill lipgloss.Style
	pane    lipgloss.Style
}

// NewPalette builds a palette from foreground colors for title, success,
// error, warning, and help text, plus a pane border color.
func NewPalette(t, s, e, w, h, border string) *Palette {
	return &Palette{
		title:   NewBold(t).MarginBottom(1),
		ok:      NewBold(s),
		err:     NewBold(e),
		warn:    NewStyle(w),
		help:    NewEm(h),
		muted:   NewStyle(h),
		barFill: NewStyle(t),
		pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(border)).
			Padding(0, 1),
	}
}

// LightPalette returns the palette used when dark mode is off.
func LightPalette() *Palette {
	return NewPalette("#5A56E0", "#02A868", "#D70000", "#B58900", "#6C6C6C", "#AFAFAF")
}

// DarkPalette returns the palette used when dark mode is on.
func DarkPalette() *Palette {
	return NewPalette("#7D56F4", "#04B575", "#FF5F5F", "#FFA500", "#626262", "#444444")
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
