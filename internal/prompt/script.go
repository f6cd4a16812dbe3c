package prompt

import (
	"io"

	"github.com/valpere/locwalk/internal"
)

// Call records one Prompt invocation.
type Call struct {
	English   string
	Candidate string
}

// Script returns pre-recorded decisions in order. Running out of decisions
// behaves like a closed terminal.
type Script struct {
	decisions []Decision
	calls     []Call
}

func NewScript(decisions ...Decision) *Script {
	return &Script{decisions: decisions}
}

func (s *Script) Prompt(english, candidate string) (Decision, error) {
	s.calls = append(s.calls, Call{English: english, Candidate: candidate})
	if len(s.calls) > len(s.decisions) {
		return Decision{}, &internal.IOError{Op: "read decision", Cause: io.EOF}
	}
	return s.decisions[len(s.calls)-1], nil
}

func (s *Script) Calls() []Call {
	return s.calls
}
