package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	stepStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8"))
	valStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// console is the installer.Reporter used on a terminal. Failures go to err.
type console struct {
	out io.Writer
	err io.Writer
}

func (c console) Step(msg string) {
	fmt.Fprintf(c.out, "%s %s\n", stepStyle.Render("→"), msg)
}

func (c console) Success(msg string) {
	fmt.Fprintf(c.out, "%s %s\n", okStyle.Render("✓"), msg)
}

func (c console) Failure(msg string) {
	fmt.Fprintf(c.err, "%s %s\n", failStyle.Render("✗"), msg)
}

func (c console) Note(msg string) {
	fmt.Fprintf(c.out, "  %s\n", dimStyle.Render(msg))
}
