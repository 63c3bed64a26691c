package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type palette struct {
	enabled bool
	user    lipgloss.Style
	bot     lipgloss.Style
	meta    lipgloss.Style
	warn    lipgloss.Style
}

func newPalette(enabled bool) palette {
	return palette{
		enabled: enabled,
		user:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		bot:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		meta:    lipgloss.NewStyle().Faint(true),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

func (p palette) paint(style lipgloss.Style, s string) string {
	if !p.enabled {
		return s
	}
	return style.Render(s)
}

func isTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
