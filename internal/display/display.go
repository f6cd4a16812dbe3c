package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	LabelStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	CandidateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	WarnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

type fder interface {
	Fd() uintptr
}

// IsTerminal returns true if w is a TTY.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fder)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Painter renders styles only when Enabled. NewPainter enables it for
// terminals, so piped or captured output keeps the plain text.
type Painter struct {
	Enabled bool
}

func NewPainter(w io.Writer) Painter {
	return Painter{Enabled: IsTerminal(w)}
}

func (p Painter) Render(style lipgloss.Style, text string) string {
	if !p.Enabled {
		return text
	}
	return style.Render(text)
}

// PrintError prints a diagnostic naming the error kind to w.
func PrintError(w io.Writer, kind string, err error) {
	msg := fmt.Sprintf("locwalk: %s: %v", kind, err)
	fmt.Fprintln(w, NewPainter(w).Render(ErrorStyle, msg))
}

// PrintWarn prints a one-line warning to w.
func PrintWarn(w io.Writer, msg string) {
	fmt.Fprintln(w, NewPainter(w).Render(WarnStyle, msg))
}

// Truncate shortens s to at most n runes for table output.
func Truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
