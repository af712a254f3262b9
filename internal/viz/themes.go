package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the side panel and the non-particle scene elements.
// Particles always use their lattice colors.
type Theme struct {
	Name   string
	Accent lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Border lipgloss.Color
	Bounds lipgloss.Color
	Trace  lipgloss.Color
	Good   lipgloss.Color
	Warn   lipgloss.Color
	Bad    lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:   "classic",
		Accent: lipgloss.Color("#00ffff"),
		Label:  lipgloss.Color("#888899"),
		Value:  lipgloss.Color("#eeeeee"),
		Border: lipgloss.Color("#444466"),
		Bounds: lipgloss.Color("#00ffff"),
		Trace:  lipgloss.Color("#ffffff"),
		Good:   lipgloss.Color("#00ff88"),
		Warn:   lipgloss.Color("#ffaa00"),
		Bad:    lipgloss.Color("#ff4444"),
	}

	ThemePhosphor = Theme{
		Name:   "phosphor",
		Accent: lipgloss.Color("#00ff00"),
		Label:  lipgloss.Color("#00aa00"),
		Value:  lipgloss.Color("#88ff88"),
		Border: lipgloss.Color("#005500"),
		Bounds: lipgloss.Color("#00cc00"),
		Trace:  lipgloss.Color("#ccffcc"),
		Good:   lipgloss.Color("#88ff88"),
		Warn:   lipgloss.Color("#ffff00"),
		Bad:    lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Accent: lipgloss.Color("#ffffff"),
		Label:  lipgloss.Color("#888888"),
		Value:  lipgloss.Color("#cccccc"),
		Border: lipgloss.Color("#444444"),
		Bounds: lipgloss.Color("#888888"),
		Trace:  lipgloss.Color("#0088ff"),
		Good:   lipgloss.Color("#ffffff"),
		Warn:   lipgloss.Color("#ffaa00"),
		Bad:    lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{ThemeClassic, ThemePhosphor, ThemeMinimal}
)

// GetTheme returns the named theme, or the classic one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// NextTheme returns the theme after current, wrapping around.
func NextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
