// Package theme defines the color themes of the budgetsync dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps the dashboard's roles to colors. The surface and text roles
// frame every card; the money roles color amounts by what they mean.
type Theme struct {
	Name          string
	Background    lipgloss.Color
	Surface       lipgloss.Color // card and panel backgrounds
	SurfaceHover  lipgloss.Color // active tab, selected row
	SurfaceBright lipgloss.Color
	Border        lipgloss.Color
	BorderBright  lipgloss.Color
	BorderAccent  lipgloss.Color // focused card
	TextDim       lipgloss.Color // hints, placeholders
	TextMuted     lipgloss.Color // labels
	TextPrimary   lipgloss.Color
	Accent        lipgloss.Color
	AccentBright  lipgloss.Color
	AccentDim     lipgloss.Color

	Budget     lipgloss.Color // budget limits and the budget chart
	Spent      lipgloss.Color // expense totals
	Remaining  lipgloss.Color // money left under a limit
	NearLimit  lipgloss.Color // usage at or past NearLimitShare
	OverBudget lipgloss.Color // spending past a limit
	Trend      lipgloss.Color // expense sparkline
	Notice     lipgloss.Color // confirmations in the status bar
	Failure    lipgloss.Color // error text
	KeyHint    lipgloss.Color // key names in the help overlay

	// Categories colors chart slices in order, cycling when a chart has
	// more categories than colors.
	Categories []lipgloss.Color
}

// NearLimitShare is the spent/limit ratio from which usage is flagged.
const NearLimitShare = 0.8

// Usage returns the color for having spent share of a limit.
func (t Theme) Usage(share float64) lipgloss.Color {
	switch {
	case share > 1:
		return t.OverBudget
	case share >= NearLimitShare:
		return t.NearLimit
	default:
		return t.Remaining
	}
}

// Category returns the color of the i-th chart category.
func (t Theme) Category(i int) lipgloss.Color {
	if len(t.Categories) == 0 {
		return t.Accent
	}
	return t.Categories[i%len(t.Categories)]
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default: warm paper tones on a dark background.
var FlexokiDark = Theme{
	Name:          "flexoki-dark",
	Background:    lipgloss.Color("#100F0F"),
	Surface:       lipgloss.Color("#1C1B1A"),
	SurfaceHover:  lipgloss.Color("#282726"),
	SurfaceBright: lipgloss.Color("#343331"),
	Border:        lipgloss.Color("#403E3C"),
	BorderBright:  lipgloss.Color("#575653"),
	BorderAccent:  lipgloss.Color("#3AA99F"),
	TextDim:       lipgloss.Color("#575653"),
	TextMuted:     lipgloss.Color("#878580"),
	TextPrimary:   lipgloss.Color("#FFFCF0"),
	Accent:        lipgloss.Color("#3AA99F"),
	AccentBright:  lipgloss.Color("#5BC8BE"),
	AccentDim:     lipgloss.Color("#1A3533"),

	Budget:     lipgloss.Color("#4385BE"),
	Spent:      lipgloss.Color("#DA702C"),
	Remaining:  lipgloss.Color("#879A39"),
	NearLimit:  lipgloss.Color("#D0A215"),
	OverBudget: lipgloss.Color("#D14D41"),
	Trend:      lipgloss.Color("#A3B859"),
	Notice:     lipgloss.Color("#879A39"),
	Failure:    lipgloss.Color("#D14D41"),
	KeyHint:    lipgloss.Color("#24837B"),
	Categories: []lipgloss.Color{"#3AA99F", "#4385BE", "#879A39", "#DA702C", "#CE5D97", "#D0A215", "#8B7EC8", "#D14D41"},
}

// CatppuccinMocha is a soft pastel theme.
var CatppuccinMocha = Theme{
	Name:          "catppuccin-mocha",
	Background:    lipgloss.Color("#1E1E2E"),
	Surface:       lipgloss.Color("#313244"),
	SurfaceHover:  lipgloss.Color("#45475A"),
	SurfaceBright: lipgloss.Color("#585B70"),
	Border:        lipgloss.Color("#585B70"),
	BorderBright:  lipgloss.Color("#7F849C"),
	BorderAccent:  lipgloss.Color("#89B4FA"),
	TextDim:       lipgloss.Color("#6C7086"),
	TextMuted:     lipgloss.Color("#A6ADC8"),
	TextPrimary:   lipgloss.Color("#CDD6F4"),
	Accent:        lipgloss.Color("#89B4FA"),
	AccentBright:  lipgloss.Color("#B4D0FB"),
	AccentDim:     lipgloss.Color("#293147"),

	Budget:     lipgloss.Color("#74C7EC"),
	Spent:      lipgloss.Color("#FAB387"),
	Remaining:  lipgloss.Color("#A6E3A1"),
	NearLimit:  lipgloss.Color("#F9E2AF"),
	OverBudget: lipgloss.Color("#F38BA8"),
	Trend:      lipgloss.Color("#94E2D5"),
	Notice:     lipgloss.Color("#A6E3A1"),
	Failure:    lipgloss.Color("#F38BA8"),
	KeyHint:    lipgloss.Color("#94E2D5"),
	Categories: []lipgloss.Color{"#89B4FA", "#A6E3A1", "#FAB387", "#F5C2E7", "#F9E2AF", "#94E2D5", "#CBA6F7", "#F38BA8"},
}

// TokyoNight is a cool blue and purple theme.
var TokyoNight = Theme{
	Name:          "tokyo-night",
	Background:    lipgloss.Color("#1A1B26"),
	Surface:       lipgloss.Color("#24283B"),
	SurfaceHover:  lipgloss.Color("#343A52"),
	SurfaceBright: lipgloss.Color("#414868"),
	Border:        lipgloss.Color("#565F89"),
	BorderBright:  lipgloss.Color("#7982A9"),
	BorderAccent:  lipgloss.Color("#7AA2F7"),
	TextDim:       lipgloss.Color("#565F89"),
	TextMuted:     lipgloss.Color("#A9B1D6"),
	TextPrimary:   lipgloss.Color("#C0CAF5"),
	Accent:        lipgloss.Color("#7AA2F7"),
	AccentBright:  lipgloss.Color("#A9C1FF"),
	AccentDim:     lipgloss.Color("#252B3F"),

	Budget:     lipgloss.Color("#7DCFFF"),
	Spent:      lipgloss.Color("#FF9E64"),
	Remaining:  lipgloss.Color("#9ECE6A"),
	NearLimit:  lipgloss.Color("#E0AF68"),
	OverBudget: lipgloss.Color("#F7768E"),
	Trend:      lipgloss.Color("#73DACA"),
	Notice:     lipgloss.Color("#9ECE6A"),
	Failure:    lipgloss.Color("#F7768E"),
	KeyHint:    lipgloss.Color("#7DCFFF"),
	Categories: []lipgloss.Color{"#7AA2F7", "#9ECE6A", "#FF9E64", "#BB9AF7", "#E0AF68", "#7DCFFF", "#2AC3DE", "#F7768E"},
}

// Terminal sticks to the 16 ANSI colors.
var Terminal = Theme{
	Name:          "terminal",
	Background:    lipgloss.Color("0"),
	Surface:       lipgloss.Color("0"),
	SurfaceHover:  lipgloss.Color("8"),
	SurfaceBright: lipgloss.Color("8"),
	Border:        lipgloss.Color("8"),
	BorderBright:  lipgloss.Color("7"),
	BorderAccent:  lipgloss.Color("6"),
	TextDim:       lipgloss.Color("8"),
	TextMuted:     lipgloss.Color("7"),
	TextPrimary:   lipgloss.Color("15"),
	Accent:        lipgloss.Color("6"),
	AccentBright:  lipgloss.Color("14"),
	AccentDim:     lipgloss.Color("0"),

	Budget:     lipgloss.Color("4"),
	Spent:      lipgloss.Color("3"),
	Remaining:  lipgloss.Color("2"),
	NearLimit:  lipgloss.Color("11"),
	OverBudget: lipgloss.Color("1"),
	Trend:      lipgloss.Color("10"),
	Notice:     lipgloss.Color("2"),
	Failure:    lipgloss.Color("9"),
	KeyHint:    lipgloss.Color("6"),
	Categories: []lipgloss.Color{"6", "4", "2", "3", "5", "12", "14", "1"},
}

// All lists the themes in display order.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns the named theme, or FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive selects the named theme.
func SetActive(name string) {
	Active = ByName(name)
}

// Names lists the theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// Known reports whether name selects a theme other than the fallback.
func Known(name string) bool {
	for _, t := range All {
		if t.Name == name {
			return true
		}
	}
	return false
}
