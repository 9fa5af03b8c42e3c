// Package ui implements the Bubbletea model for the interactive chat session.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light mode colors.
	lightForeground = lipgloss.Color("#24292f")
	lightPrimary    = lipgloss.Color("#4f46e5") // indigo
	lightAccent     = lipgloss.Color("#0d9488") // teal
	lightMuted      = lipgloss.Color("#6e7781")
	lightBorder     = lipgloss.Color("#d0d7de")

	// Dark mode colors.
	darkForeground = lipgloss.Color("#e6edf3")
	darkPrimary    = lipgloss.Color("#818cf8")
	darkAccent     = lipgloss.Color("#2dd4bf")
	darkMuted      = lipgloss.Color("#768390")
	darkBorder     = lipgloss.Color("#373e47")

	// Same in both modes.
	errorRed = lipgloss.Color("#e5534b")
)

// Theme holds the active color scheme.
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
		Foreground: lightForeground,
		Primary:    lightPrimary,
		Accent:     lightAccent,
		Muted:      lightMuted,
		Border:     lightBorder,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: darkForeground,
		Primary:    darkPrimary,
		Accent:     darkAccent,
		Muted:      darkMuted,
		Border:     darkBorder,
		IsDark:     true,
	}
}

// DetectTheme guesses the terminal background from COLORFGBG.
// The variable holds "foreground;background" with standard ANSI
// indexes; 0-6 and 8 are dark backgrounds. Terminals that don't
// export it get the dark theme, which is the common case.
func DetectTheme() Theme {
	colorTerm := os.Getenv("COLORFGBG")
	if colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) >= 2 {
			if bgIdx, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
				return LightTheme()
			}
		}
	}
	return DarkTheme()
}

// ThemeFromName resolves a configured theme name. "light" and "dark"
// force a scheme; anything else (including "auto") detects.
func ThemeFromName(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return DetectTheme()
	}
}

// Styles holds the styled components used by the chat view.
type Styles struct {
	Theme Theme

	Title   lipgloss.Style
	Divider lipgloss.Style

	UserLabel lipgloss.Style
	BotLabel  lipgloss.Style
	Greeting  lipgloss.Style
	Bullet    lipgloss.Style
	Section   lipgloss.Style
	Link      lipgloss.Style

	Placeholder lipgloss.Style
	Hint        lipgloss.Style
	Error       lipgloss.Style
	Spinner     lipgloss.Style
}

// NewStyles creates a Styles instance for the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		UserLabel: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		BotLabel: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Greeting: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Bullet: lipgloss.NewStyle().
			Foreground(theme.Primary),

		Section: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Link: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Underline(true),

		Placeholder: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Hint: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Error: lipgloss.NewStyle().
			Foreground(errorRed).
			Bold(true),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),
	}
}

// DefaultStyles returns styles for the auto-detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}
