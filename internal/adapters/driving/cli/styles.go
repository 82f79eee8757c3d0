package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failureStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// styleEnabled reports whether styled output should be used.
// Overridable so CLI tests get deterministic plain output.
var styleEnabled = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// successText styles a success banner when stdout is a terminal.
func successText(s string) string {
	if !styleEnabled() {
		return s
	}
	return successStyle.Render(s)
}

// failureText styles a failure message when stdout is a terminal.
func failureText(s string) string {
	if !styleEnabled() {
		return s
	}
	return failureStyle.Render(s)
}

// faintText de-emphasises secondary output when stdout is a terminal.
func faintText(s string) string {
	if !styleEnabled() {
		return s
	}
	return faintStyle.Render(s)
}
