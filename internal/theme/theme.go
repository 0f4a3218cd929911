// Package theme provides the colour palettes used by the TUI.
package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines all colors used in the application UI.
// Change kinds carry their own colours; a theme only styles the chrome
// around them and the highlighted row.
type Theme struct {
	Accent    lipgloss.Color
	AccentFg  lipgloss.Color // Foreground color for text on Accent background
	Border    lipgloss.Color
	MutedFg   lipgloss.Color
	TextFg    lipgloss.Color
	SuccessFg lipgloss.Color
	WarnFg    lipgloss.Color
	ErrorFg   lipgloss.Color
	Highlight lipgloss.Color // Background of the selected row
	light     bool
}

// Theme names.
const (
	ClassicName         = "classic"
	ClassicLightName    = "classic-light"
	DraculaName         = "dracula"
	NordName            = "nord"
	GruvboxDarkName     = "gruvbox-dark"
	GruvboxLightName    = "gruvbox-light"
	CatppuccinMochaName = "catppuccin-mocha"
)

var themes = map[string]func() *Theme{
	ClassicName:         Classic,
	ClassicLightName:    ClassicLight,
	DraculaName:         Dracula,
	NordName:            Nord,
	GruvboxDarkName:     GruvboxDark,
	GruvboxLightName:    GruvboxLight,
	CatppuccinMochaName: CatppuccinMocha,
}

// Classic uses the terminal's own ANSI palette with a grey selection bar.
func Classic() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("12"),
		AccentFg:  lipgloss.Color("0"),
		Border:    lipgloss.Color("8"),
		MutedFg:   lipgloss.Color("8"),
		TextFg:    lipgloss.Color("15"),
		SuccessFg: lipgloss.Color("10"),
		WarnFg:    lipgloss.Color("11"),
		ErrorFg:   lipgloss.Color("9"),
		Highlight: lipgloss.Color("#4B4B4B"),
	}
}

// ClassicLight is Classic for light terminal backgrounds.
func ClassicLight() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("4"),
		AccentFg:  lipgloss.Color("15"),
		Border:    lipgloss.Color("7"),
		MutedFg:   lipgloss.Color("8"),
		TextFg:    lipgloss.Color("0"),
		SuccessFg: lipgloss.Color("2"),
		WarnFg:    lipgloss.Color("3"),
		ErrorFg:   lipgloss.Color("1"),
		Highlight: lipgloss.Color("#D0D0D0"),
		light:     true,
	}
}

// Dracula returns the Dracula theme (dark background, vibrant colors).
func Dracula() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#BD93F9"), // Purple
		AccentFg:  lipgloss.Color("#282A36"),
		Border:    lipgloss.Color("#6272A4"), // Comment
		MutedFg:   lipgloss.Color("#6272A4"),
		TextFg:    lipgloss.Color("#F8F8F2"),
		SuccessFg: lipgloss.Color("#50FA7B"),
		WarnFg:    lipgloss.Color("#FFB86C"),
		ErrorFg:   lipgloss.Color("#FF5555"),
		Highlight: lipgloss.Color("#44475A"), // Current Line
	}
}

// Nord returns the Nord theme.
func Nord() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#88C0D0"),
		AccentFg:  lipgloss.Color("#2E3440"),
		Border:    lipgloss.Color("#4C566A"),
		MutedFg:   lipgloss.Color("#81A1C1"),
		TextFg:    lipgloss.Color("#E5E9F0"),
		SuccessFg: lipgloss.Color("#A3BE8C"),
		WarnFg:    lipgloss.Color("#EBCB8B"),
		ErrorFg:   lipgloss.Color("#BF616A"),
		Highlight: lipgloss.Color("#3B4252"),
	}
}

// GruvboxDark returns the Gruvbox dark theme.
func GruvboxDark() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#FABD2F"),
		AccentFg:  lipgloss.Color("#282828"),
		Border:    lipgloss.Color("#504945"),
		MutedFg:   lipgloss.Color("#928374"),
		TextFg:    lipgloss.Color("#EBDBB2"),
		SuccessFg: lipgloss.Color("#B8BB26"),
		WarnFg:    lipgloss.Color("#FE8019"),
		ErrorFg:   lipgloss.Color("#FB4934"),
		Highlight: lipgloss.Color("#3C3836"),
	}
}

// GruvboxLight returns the Gruvbox light theme.
func GruvboxLight() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#D79921"),
		AccentFg:  lipgloss.Color("#FBF1C7"),
		Border:    lipgloss.Color("#D5C4A1"),
		MutedFg:   lipgloss.Color("#7C6F64"),
		TextFg:    lipgloss.Color("#3C3836"),
		SuccessFg: lipgloss.Color("#79740E"),
		WarnFg:    lipgloss.Color("#AF3A03"),
		ErrorFg:   lipgloss.Color("#9D0006"),
		Highlight: lipgloss.Color("#EBDBB2"),
		light:     true,
	}
}

// CatppuccinMocha returns the Catppuccin Mocha theme.
func CatppuccinMocha() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#B4BEFE"),
		AccentFg:  lipgloss.Color("#1E1E2E"),
		Border:    lipgloss.Color("#45475A"),
		MutedFg:   lipgloss.Color("#6C7086"),
		TextFg:    lipgloss.Color("#CDD6F4"),
		SuccessFg: lipgloss.Color("#A6E3A1"),
		WarnFg:    lipgloss.Color("#FAB387"),
		ErrorFg:   lipgloss.Color("#F38BA8"),
		Highlight: lipgloss.Color("#313244"),
	}
}

// GetTheme returns a theme by name, or Classic if not found.
func GetTheme(name string) *Theme {
	if ctor, ok := themes[name]; ok {
		return ctor()
	}
	return Classic()
}

// Exists reports whether name is a known theme.
func Exists(name string) bool {
	_, ok := themes[name]
	return ok
}

// IsLight returns true if the theme is a light theme.
func IsLight(name string) bool {
	if ctor, ok := themes[name]; ok {
		return ctor().light
	}
	return false
}

// DefaultDark returns the default dark theme name.
func DefaultDark() string {
	return ClassicName
}

// DefaultLight returns the default light theme name.
func DefaultLight() string {
	return ClassicLightName
}

// DetectBackground picks the default theme matching the terminal background.
func DetectBackground() string {
	if lipgloss.HasDarkBackground() {
		return DefaultDark()
	}
	return DefaultLight()
}

// AvailableThemes returns a sorted list of available theme names.
func AvailableThemes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
