package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols for both the CLI output and the TUI.
type Theme struct {
	Name string

	Title, Muted, Accent     lipgloss.Style
	Success, Pending, Error  lipgloss.Style
	Selected, Done, Help     lipgloss.Style
	Banner, Header, Backdrop lipgloss.Style

	Border                   lipgloss.Color
	BoxChecked, BoxUnchecked string

	// Markdown is the glamour standard style used for descriptions.
	Markdown string
}

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

func Light() Theme {
	return Theme{
		Name:     ThemeLight,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("235")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("25")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		Pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("166")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
		Done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Banner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("160")).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("160")).
			PaddingLeft(1),
		Header:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
		Backdrop:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Border:       lipgloss.Color("245"),
		BoxChecked:   "☑",
		BoxUnchecked: "☐",
		Markdown:     "light",
	}
}

func Dark() Theme {
	return Theme{
		Name:     ThemeDark,
		Title:    lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Faint(true),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Banner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("9")).
			PaddingLeft(1),
		Header:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Backdrop:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Border:       lipgloss.Color("8"),
		BoxChecked:   "☑",
		BoxUnchecked: "☐",
		Markdown:     "dark",
	}
}

// ByName returns the named theme; unknown names fall back to light.
func ByName(name string) Theme {
	if strings.EqualFold(strings.TrimSpace(name), ThemeDark) {
		return Dark()
	}
	return Light()
}

// Other returns the theme name a toggle switches to.
func Other(name string) string {
	if ByName(name).Name == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

var current = Light()

func SetTheme(name string) { current = ByName(name) }

func Current() Theme { return current }
