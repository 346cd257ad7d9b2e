// Package ui implements the interactive BlitzBuy shopping client:
// login, goods list, goods detail (countdown + captcha + purchase) and
// order pages, with light/dark styling.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Flash-sale red is the brand anchor in both modes.
var (
	// Light mode
	LightForeground = lipgloss.Color("#1f2329")
	LightPrimary    = lipgloss.Color("#c9302c") // flash-sale red
	LightAccent     = lipgloss.Color("#d48806")
	LightMuted      = lipgloss.Color("#8c8c8c")
	LightBorder     = lipgloss.Color("#d9d9d9")

	// Dark mode
	DarkForeground = lipgloss.Color("#f2f2f2")
	DarkPrimary    = lipgloss.Color("#ff4d4f")
	DarkAccent     = lipgloss.Color("#ffc107")
	DarkMuted      = lipgloss.Color("#595959")
	DarkBorder     = lipgloss.Color("#434343")

	// Semantic colors, same in both modes
	ColorSuccess = lipgloss.Color("#52c41a")
	ColorError   = lipgloss.Color("#e53935")
	ColorWarning = lipgloss.Color("#faad14")
	ColorInfo    = lipgloss.Color("#2196F3")
)

// Theme holds the current color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// ThemeByName maps a configured theme name to a Theme, auto-detecting
// when the name is empty or unknown.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return DetectTheme()
	}
}

// DetectTheme guesses light/dark from COLORFGBG, defaulting to dark.
func DetectTheme() Theme {
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if bgIdx >= 7 && bgIdx != 8 {
					return LightTheme()
				}
			}
		}
	}
	return DarkTheme()
}

// Styles holds the styled components shared by all pages.
type Styles struct {
	Theme Theme

	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Price      lipgloss.Style
	StruckOut  lipgloss.Style
	PhaseTag   lipgloss.Style
	Card       lipgloss.Style
	ActiveCard lipgloss.Style
}

// NewStyles creates the style set for a theme.
func NewStyles(theme Theme) Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),
		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Bold: lipgloss.NewStyle().
			Bold(true),

		Success: lipgloss.NewStyle().Foreground(ColorSuccess),
		Error:   lipgloss.NewStyle().Foreground(ColorError),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle().Foreground(ColorInfo),

		Price: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		StruckOut: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Strikethrough(true),
		PhaseTag: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),
		Card:       card,
		ActiveCard: card.BorderForeground(theme.Primary),
	}
}

// DefaultStyles returns styles for the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}
