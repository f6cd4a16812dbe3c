// Package prompt asks the operator what to do with each machine translated
// candidate. Terminal reads decisions from a line-oriented reader; Script
// replays fixed decisions for tests and non-interactive runs.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/valpere/locwalk/internal"
	"github.com/valpere/locwalk/internal/display"
)

type Kind int

const (
	Accept Kind = iota
	Manual
	Skip
	Quit
)

func (k Kind) String() string {
	switch k {
	case Accept:
		return "accept"
	case Manual:
		return "manual"
	case Skip:
		return "skip"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Decision is the operator's disposition of one candidate. Text is set only
// for Manual.
type Decision struct {
	Kind Kind
	Text string
}

func AcceptDecision() Decision            { return Decision{Kind: Accept} }
func ManualDecision(text string) Decision { return Decision{Kind: Manual, Text: text} }
func SkipDecision() Decision              { return Decision{Kind: Skip} }
func QuitDecision() Decision              { return Decision{Kind: Quit} }

// Prompter presents a candidate and returns the operator decision.
type Prompter interface {
	Prompt(english, candidate string) (Decision, error)
}

// LanguageChecker reports whether text is written in targetLang.
type LanguageChecker interface {
	IsValid(text, targetLang string) (bool, error)
}

const (
	confirmPrompt = "sure? (Y or N or S):"
	manualPrompt  = "Input the translated text:"
	invalidInput  = "Invalid input. Please enter 'y', 'n', 's' or 'q'."
)

type Terminal struct {
	in      *bufio.Reader
	out     io.Writer
	painter display.Painter
	checker LanguageChecker
	target  string
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:      bufio.NewReader(in),
		out:     out,
		painter: display.NewPainter(out),
	}
}

// WithPainter replaces the painter derived from the output writer. Use it
// when output is buffered in front of a terminal.
func (t *Terminal) WithPainter(p display.Painter) *Terminal {
	t.painter = p
	return t
}

// WithLanguageCheck prints a warning before the confirmation prompt when the
// candidate does not look like targetLang. The decision is never changed.
func (t *Terminal) WithLanguageCheck(checker LanguageChecker, targetLang string) *Terminal {
	t.checker = checker
	t.target = targetLang
	return t
}

func (t *Terminal) Prompt(english, candidate string) (Decision, error) {
	fmt.Fprintf(t.out, "%s%s\n%s%s\n",
		t.painter.Render(display.LabelStyle, "Original text:"), english,
		t.painter.Render(display.LabelStyle, "Translated text:"), t.painter.Render(display.CandidateStyle, candidate))

	if t.checker != nil {
		if ok, err := t.checker.IsValid(candidate, t.target); !ok && err != nil {
			fmt.Fprintln(t.out, t.painter.Render(display.WarnStyle, "warning: "+err.Error()))
		}
	}

	for {
		fmt.Fprintln(t.out, confirmPrompt)
		line, err := t.readLine()
		if err != nil {
			return Decision{}, err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			return AcceptDecision(), nil
		case "n":
			fmt.Fprintln(t.out, manualPrompt)
			manual, err := t.readLine()
			if err != nil {
				return Decision{}, err
			}
			return ManualDecision(manual), nil
		case "s":
			return SkipDecision(), nil
		case "q":
			return QuitDecision(), nil
		default:
			fmt.Fprintln(t.out, t.painter.Render(display.DimStyle, invalidInput))
		}
	}
}

// readLine flushes pending output and reads one line without its line
// terminator. A final line without a terminator is still returned.
func (t *Terminal) readLine() (string, error) {
	if f, ok := t.out.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return "", &internal.IOError{Op: "flush stdout", Cause: err}
		}
	}

	line, err := t.in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", &internal.IOError{Op: "read stdin", Cause: err}
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
