// Package ui holds the terminal-facing pieces: color handling, styled
// output for the list command and the interactive overwrite prompt.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/Serenacula/templative/pkg/types"
)

// Semantic styles used across command output.
var (
	StyleHeader  = lipgloss.NewStyle().Underline(true)
	StyleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	StyleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	StyleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	StyleBroken  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Strikethrough(true)
)

// SetColorMode applies the resolved color setting to all styled output.
// auto disables color when stdout is not a terminal.
func SetColorMode(mode types.ColorMode) {
	switch mode {
	case types.ColorAlways:
		lipgloss.SetColorProfile(termenv.ANSI256)
	case types.ColorNever:
		lipgloss.SetColorProfile(termenv.Ascii)
	default:
		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	}
}
