// Package ui renders command outcomes as colored terminal lines.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Printer writes success, error, and info lines to one output.
// It is safe for concurrent use.
type Printer struct {
	out  io.Writer
	text *message.Printer
	mu   sync.Mutex

	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	infoStyle    lipgloss.Style
}

// New returns a Printer for out. Color is used only when color is true,
// NO_COLOR is unset, and out is a terminal.
func New(out io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(out)
	if !color || termenv.EnvNoColor() || !isTerminal(out) {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Printer{
		out:  out,
		text: message.NewPrinter(language.English),

		successStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#008000", Dark: "#55FF55"}),
		errorStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#D00000", Dark: "#FF5555"}),
		infoStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#5599FF"}),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *Printer) line(style lipgloss.Style, format string, args ...any) {
	msg := p.text.Sprintf(format, args...)
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, style.Render(msg))
}

// Success prints a green line.
func (p *Printer) Success(format string, args ...any) { p.line(p.successStyle, format, args...) }

// Error prints a red line.
func (p *Printer) Error(format string, args ...any) { p.line(p.errorStyle, format, args...) }

// Info prints a blue line.
func (p *Printer) Info(format string, args ...any) { p.line(p.infoStyle, format, args...) }

// List prints items numbered from 1, or "List is empty." when there are none.
func (p *Printer) List(items []string) {
	if len(items) == 0 {
		p.Info("List is empty.")
		return
	}
	for i, item := range items {
		p.Success("%d. %s", i+1, item)
	}
}

// JSON prints v as indented JSON.
func (p *Printer) JSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err = fmt.Fprintln(p.out, string(data))
	return err
}

// Plural returns "1 link" or "3 links" with English digit grouping.
func (p *Printer) Plural(n int, singular, plural string) string {
	if n == 1 {
		return p.text.Sprintf("%d %s", n, singular)
	}
	return p.text.Sprintf("%d %s", n, plural)
}
