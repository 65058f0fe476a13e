package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/globalstate/internal/global"
)

// ---------------------------------------------------------------------------
// Catppuccin palettes, true-color hex values.
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

// palette holds the colors one theme needs.
type palette struct {
	Text    lipgloss.Color
	Subtext lipgloss.Color
	Overlay lipgloss.Color
	Surface lipgloss.Color
	Base    lipgloss.Color
	Mantle  lipgloss.Color
	Accent  lipgloss.Color
	Focus   lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color
	Info    lipgloss.Color
}

// Mocha, for the dark theme.
var mocha = palette{
	Text:    "#cdd6f4",
	Subtext: "#a6adc8",
	Overlay: "#6c7086",
	Surface: "#313244",
	Base:    "#1e1e2e",
	Mantle:  "#181825",
	Accent:  "#f5c2e7",
	Focus:   "#b4befe",
	Success: "#a6e3a1",
	Error:   "#f38ba8",
	Warning: "#f9e2af",
	Info:    "#94e2d5",
}

// Latte, for the light theme.
var latte = palette{
	Text:    "#4c4f69",
	Subtext: "#6c6f85",
	Overlay: "#9ca0b0",
	Surface: "#ccd0da",
	Base:    "#eff1f5",
	Mantle:  "#e6e9ef",
	Accent:  "#ea76cb",
	Focus:   "#7287fd",
	Success: "#40a02b",
	Error:   "#d20f39",
	Warning: "#df8e1d",
	Info:    "#179299",
}

func paletteFor(t global.Theme) palette {
	if t == global.ThemeDark {
		return mocha
	}
	return latte
}

// styles are derived from a palette on every render; they are cheap.
type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	muted   lipgloss.Style
	sidebar lipgloss.Style
	panel   lipgloss.Style
	footer  lipgloss.Style
	notice  lipgloss.Style
	err     lipgloss.Style
	busy    lipgloss.Style
	prompt  lipgloss.Style
}

func stylesFor(t global.Theme) styles {
	p := paletteFor(t)
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		label:   lipgloss.NewStyle().Foreground(p.Subtext).Width(10),
		value:   lipgloss.NewStyle().Foreground(p.Text).Bold(true),
		muted:   lipgloss.NewStyle().Foreground(p.Overlay),
		sidebar: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Surface).Foreground(p.Subtext).Padding(0, 1),
		panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Focus).Foreground(p.Text).Background(p.Base).Padding(0, 1),
		footer:  lipgloss.NewStyle().Foreground(p.Subtext).Background(p.Mantle).Padding(0, 1),
		notice:  lipgloss.NewStyle().Foreground(p.Info),
		err:     lipgloss.NewStyle().Foreground(p.Error),
		busy:    lipgloss.NewStyle().Foreground(p.Warning),
		prompt:  lipgloss.NewStyle().Foreground(p.Success),
	}
}
