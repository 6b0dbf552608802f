// Package ui renders terminal output and asks the operator.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	boldColor    = color.New(color.Bold)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)
)

// Printer writes decorated lines. Colors follow color.NoColor.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Writer() io.Writer {
	return p.w
}

func (p *Printer) Success(format string, args ...any) {
	successColor.Fprintf(p.w, "✓ %s\n", fmt.Sprintf(format, args...))
}

func (p *Printer) Error(format string, args ...any) {
	errorColor.Fprintf(p.w, "✗ %s\n", fmt.Sprintf(format, args...))
}

func (p *Printer) Warning(format string, args ...any) {
	warningColor.Fprintf(p.w, "⚠ %s\n", fmt.Sprintf(format, args...))
}

func (p *Printer) Info(format string, args ...any) {
	infoColor.Fprintf(p.w, "ℹ %s\n", fmt.Sprintf(format, args...))
}

func (p *Printer) Bold(format string, args ...any) {
	boldColor.Fprintln(p.w, fmt.Sprintf(format, args...))
}

func (p *Printer) Println(args ...any) {
	fmt.Fprintln(p.w, args...)
}

// Box writes content in a framed box, headed by title.
func (p *Printer) Box(title string, content string) {
	fmt.Fprintln(p.w, boxStyle.Render(boldColor.Sprint(title)+"\n\n"+content))
}

// Field writes a "key: value" line with aligned keys.
func (p *Printer) Field(key string, value string) {
	fmt.Fprintf(p.w, "%-14s %s\n", key+":", value)
}
