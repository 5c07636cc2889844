package ui

import "github.com/charmbracelet/lipgloss"

// Palette is one colour theme.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Text      lipgloss.Color
	Accent    lipgloss.Color
}

var (
	DarkPalette = Palette{
		Primary:   lipgloss.Color("205"), // Pink
		Secondary: lipgloss.Color("241"), // Gray
		Success:   lipgloss.Color("42"),  // Green
		Error:     lipgloss.Color("160"), // Red
		Warning:   lipgloss.Color("214"), // Orange
		Text:      lipgloss.Color("252"), // Light gray
		Accent:    lipgloss.Color("87"),  // Cyan
	}
	LightPalette = Palette{
		Primary:   lipgloss.Color("162"),
		Secondary: lipgloss.Color("244"),
		Success:   lipgloss.Color("28"),
		Error:     lipgloss.Color("124"),
		Warning:   lipgloss.Color("166"),
		Text:      lipgloss.Color("235"),
		Accent:    lipgloss.Color("31"),
	}
)

var (
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorError     lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorText      lipgloss.Color
	ColorAccent    lipgloss.Color

	StyleTitle        lipgloss.Style
	StyleSubtle       lipgloss.Style
	StylePrimary      lipgloss.Style
	StyleSuccess      lipgloss.Style
	StyleError        lipgloss.Style
	StyleWarning      lipgloss.Style
	StyleText         lipgloss.Style
	StyleHeader       lipgloss.Style
	StyleSectionTitle lipgloss.Style
	StyleDone         lipgloss.Style
	StyleTag          lipgloss.Style
)

func init() {
	usePalette(DarkPalette)
}

// ApplyTheme switches the palette. "light" and "dark" force a palette; any
// other value follows the terminal background.
func ApplyTheme(theme string) {
	switch theme {
	case "light":
		usePalette(LightPalette)
	case "dark":
		usePalette(DarkPalette)
	default:
		if lipgloss.HasDarkBackground() {
			usePalette(DarkPalette)
		} else {
			usePalette(LightPalette)
		}
	}
}

func usePalette(p Palette) {
	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorSuccess = p.Success
	ColorError = p.Error
	ColorWarning = p.Warning
	ColorText = p.Text
	ColorAccent = p.Accent

	StyleTitle = lipgloss.NewStyle().Foreground(p.Text).Bold(true)
	StyleSubtle = lipgloss.NewStyle().Foreground(p.Secondary)
	StylePrimary = lipgloss.NewStyle().Foreground(p.Primary)
	StyleSuccess = lipgloss.NewStyle().Foreground(p.Success)
	StyleError = lipgloss.NewStyle().Foreground(p.Error)
	StyleWarning = lipgloss.NewStyle().Foreground(p.Warning)
	StyleText = lipgloss.NewStyle().Foreground(p.Text)
	StyleDone = lipgloss.NewStyle().Foreground(p.Secondary).Strikethrough(true)
	StyleTag = lipgloss.NewStyle().Foreground(p.Accent)

	StyleHeader = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		Padding(0, 1)

	StyleSectionTitle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		Underline(true)
}

// PriorityStyle colours a priority: High red, Med orange, Low gray.
func PriorityStyle(priority string) lipgloss.Style {
	switch priority {
	case "High":
		return StyleError
	case "Med":
		return StyleWarning
	}
	return StyleSubtle
}

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}
