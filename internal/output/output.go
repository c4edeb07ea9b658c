// Package output renders what drm prints to the terminal: dry-run listings
// and the final failure line.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/ipChrisLee/drm/internal/selection"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Bold formats s in bold when stdout is a terminal.
func Bold(s string) string {
	if !IsTerminal(os.Stdout) {
		return s
	}
	return pterm.Bold.Sprint(s)
}

// Failure writes the failure line to w, in red on a terminal.
func Failure(w io.Writer, line string) {
	if IsTerminal(w) {
		line = errorStyle.Render(line)
	}
	fmt.Fprintln(w, line)
}

// Printer writes dry-run listings.
type Printer struct {
	w     io.Writer
	color bool
	now   func() time.Time
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, color: IsTerminal(w), now: time.Now}
}

// DryRun lists the entries that would be removed and, in reverse mode, the
// slice that would be kept.
func (p *Printer) DryRun(res selection.Result, reverse bool) {
	p.list("Dry run. Rm list:", res.Delete)
	if reverse {
		p.list("Dry run. Keep list:", res.Inner())
	}
}

func (p *Printer) list(title string, entries []selection.Entry) {
	if p.color {
		title = pterm.Bold.Sprint(title)
	}
	fmt.Fprintln(p.w, title)
	now := p.now()
	for _, e := range entries {
		name := e.Path
		if e.IsDir {
			name += string(os.PathSeparator)
		}
		fmt.Fprintf(p.w, "  %s\t(modified %s)\n", name, humanize.RelTime(e.ModTime, now, "ago", "from now"))
	}
}
