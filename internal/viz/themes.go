package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the live view.
type Theme struct {
	Name   string
	Balls  lipgloss.Color
	Border lipgloss.Color
	Header lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Graph  lipgloss.Color
	Alert  lipgloss.Color
}

var (
	ThemeMono = Theme{
		Name:   "mono",
		Balls:  lipgloss.Color("#ffffff"),
		Border: lipgloss.Color("240"),
		Header: lipgloss.Color("#ffffff"),
		Label:  lipgloss.Color("245"),
		Value:  lipgloss.Color("252"),
		Graph:  lipgloss.Color("250"),
		Alert:  lipgloss.Color("#ffaa00"),
	}

	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Balls:  lipgloss.Color("#ff00ff"), // Magenta
		Border: lipgloss.Color("#444466"),
		Header: lipgloss.Color("#00ffff"), // Cyan
		Label:  lipgloss.Color("#888899"),
		Value:  lipgloss.Color("#ffff00"),
		Graph:  lipgloss.Color("#00ff88"),
		Alert:  lipgloss.Color("#ff4444"),
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Balls:  lipgloss.Color("#00ff00"), // Green phosphor
		Border: lipgloss.Color("#005500"),
		Header: lipgloss.Color("#88ff88"),
		Label:  lipgloss.Color("#00aa00"),
		Value:  lipgloss.Color("#00ff00"),
		Graph:  lipgloss.Color("#00cc00"),
		Alert:  lipgloss.Color("#ffff00"),
	}

	Themes = []Theme{ThemeMono, ThemeCyberpunk, ThemeRetro}
)

// GetTheme returns a theme by name, falling back to mono.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMono
}

type styles struct {
	canvas lipgloss.Style
	stats  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	graph  lipgloss.Style
	alert  lipgloss.Style
	help   lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		canvas: lipgloss.NewStyle().Foreground(t.Balls).Padding(0, 1),
		stats:  lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Border).Padding(1, 2).Width(45),
		header: lipgloss.NewStyle().Foreground(t.Header).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Label).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Value),
		graph:  lipgloss.NewStyle().Foreground(t.Graph).Padding(1, 0),
		alert:  lipgloss.NewStyle().Foreground(t.Alert).Bold(true),
		help:   lipgloss.NewStyle().Foreground(t.Border).MarginTop(2),
	}
}
