package ui

import (
	"fmt"

	"curse-modpack/addon"

	"github.com/charmbracelet/lipgloss"
)

// Colors used across the command output.
const (
	ColorRed    = 0xe06c75
	ColorYellow = 0xe5c07b
	ColorGreen  = 0x98c379
	ColorBlue   = 0x61afef
	ColorGrey   = 0x7f848e
)

// Colorize applies the given RGB color to the text using lipgloss.
func Colorize(text string, color int) string {
	hexColor := fmt.Sprintf("#%06x", color)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor))
	return style.Render(text)
}

// ReleaseColor maps a release tier to its display color.
func ReleaseColor(r addon.Release) int {
	switch r {
	case addon.Alpha:
		return ColorRed
	case addon.Beta:
		return ColorYellow
	case addon.Stable:
		return ColorGreen
	}
	return ColorGrey
}

// Release renders the release tier name in its color.
func Release(r addon.Release) string {
	return Colorize(r.String(), ReleaseColor(r))
}

// Bold renders text in bold.
func Bold(text string) string {
	return lipgloss.NewStyle().Bold(true).Render(text)
}

// Error renders an error message in red.
func Error(text string) string {
	return Colorize(text, ColorRed)
}

// Success renders a success message in green.
func Success(text string) string {
	return Colorize(text, ColorGreen)
}

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen-3] + "..."
	}
	return s
}
