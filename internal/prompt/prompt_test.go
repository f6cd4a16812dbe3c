package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/valpere/locwalk/internal"
	"github.com/valpere/locwalk/internal/display"
)

func TestTerminal_Prompt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Decision
	}{
		{"accept lower", "y\n", AcceptDecision()},
		{"accept upper", "Y\n", AcceptDecision()},
		{"skip", "S\n", SkipDecision()},
		{"quit", "q\n", QuitDecision()},
		{"manual", "n\nbonjour\n", ManualDecision("bonjour")},
		{"manual keeps inner and leading space", "N\n  bon  jour \n", ManualDecision("  bon  jour ")},
		{"manual strips crlf", "n\r\nbonjour\r\n", ManualDecision("bonjour")},
		{"padded key", "  y  \n", AcceptDecision()},
		{"final line without newline", "s", SkipDecision()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			term := NewTerminal(strings.NewReader(tt.input), &out)

			got, err := term.Prompt("hello", "hola")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTerminal_Prompt_Display(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("y\n"), &out)

	if _, err := term.Prompt("hello", "hola"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Original text:hello\nTranslated text:hola\nsure? (Y or N or S):\n"
	if out.String() != want {
		t.Errorf("unexpected display:\n got %q\nwant %q", out.String(), want)
	}
}

func TestTerminal_Prompt_StyledWithPainter(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("y\n"), &out).WithPainter(display.Painter{Enabled: true})

	if _, err := term.Prompt("hello", "hola"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := display.LabelStyle.Render("Original text:") + "hello\n" +
		display.LabelStyle.Render("Translated text:") + display.CandidateStyle.Render("hola") + "\n" +
		"sure? (Y or N or S):\n"
	if out.String() != want {
		t.Errorf("unexpected display:\n got %q\nwant %q", out.String(), want)
	}
}

func TestTerminal_Prompt_Reprompts(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("maybe\n\nx\ny\n"), &out)

	got, err := term.Prompt("hello", "hola")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != Accept {
		t.Errorf("expected accept after invalid input, got %s", got.Kind)
	}

	if n := strings.Count(out.String(), confirmPrompt); n != 4 {
		t.Errorf("expected 4 confirmation prompts, got %d", n)
	}
	if n := strings.Count(out.String(), invalidInput); n != 3 {
		t.Errorf("expected 3 invalid input notices, got %d", n)
	}
}

func TestTerminal_Prompt_ManualShowsPrompt(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("n\nbonjour\n"), &out)
	_, _ = term.Prompt("hi", "x")

	if !strings.Contains(out.String(), manualPrompt) {
		t.Errorf("expected manual prompt, got %q", out.String())
	}
}

func TestTerminal_Prompt_EOF(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"eof after invalid", "maybe\n"},
		{"eof before manual text", "n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := NewTerminal(strings.NewReader(tt.input), &bytes.Buffer{})
			_, err := term.Prompt("hello", "hola")
			var ioErr *internal.IOError
			if !errors.As(err, &ioErr) {
				t.Fatalf("expected IOError, got %v", err)
			}
		})
	}
}

type flushRecorder struct {
	bytes.Buffer
	flushes int
}

func (f *flushRecorder) Flush() error {
	f.flushes++
	return nil
}

func TestTerminal_Prompt_FlushesBeforeRead(t *testing.T) {
	out := &flushRecorder{}
	term := NewTerminal(strings.NewReader("n\nbonjour\n"), out)
	if _, err := term.Prompt("hi", "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.flushes != 2 {
		t.Errorf("expected a flush before each of 2 reads, got %d", out.flushes)
	}
}

type fakeChecker struct {
	ok bool
}

func (f fakeChecker) IsValid(text, targetLang string) (bool, error) {
	if f.ok {
		return true, nil
	}
	return false, fmt.Errorf("expected %s but detected en", targetLang)
}

func TestTerminal_Prompt_LanguageWarning(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("y\n"), &out).WithLanguageCheck(fakeChecker{ok: false}, "uk")

	got, err := term.Prompt("hello", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != Accept {
		t.Errorf("warning must not change the decision, got %s", got.Kind)
	}
	if !strings.Contains(out.String(), "expected uk but detected en") {
		t.Errorf("expected language warning, got %q", out.String())
	}
}

func TestScript(t *testing.T) {
	s := NewScript(AcceptDecision(), ManualDecision("m"))

	if d, _ := s.Prompt("a", "a2"); d.Kind != Accept {
		t.Errorf("expected accept, got %s", d.Kind)
	}
	if d, _ := s.Prompt("b", "b2"); d.Text != "m" {
		t.Errorf("expected manual text m, got %q", d.Text)
	}
	if _, err := s.Prompt("c", "c2"); err == nil {
		t.Error("expected error once the script is exhausted")
	}

	calls := s.Calls()
	if len(calls) != 3 || calls[1].English != "b" || calls[1].Candidate != "b2" {
		t.Errorf("unexpected calls: %+v", calls)
	}
}
