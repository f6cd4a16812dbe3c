package translator

import (
	"fmt"
	"strings"

	"github.com/valpere/locwalk/internal/placeholder"
	"github.com/valpere/locwalk/internal/postprocess"
)

// buildInstructions returns the system instructions shared by the LLM
// backends. markers is the placeholder list produced for the request text.
func buildInstructions(req TranslateRequest, markers []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You translate user interface strings of a desktop application from %s to %s.\n",
		sourceLangOf(req), req.TargetLang)
	b.WriteString("Respond with the translation only: no quotes, no notes, no alternatives.\n")
	if req.Key != "" {
		fmt.Fprintf(&b, "The string is stored under the resource key %q.\n", req.Key)
	}
	if len(markers) > 0 {
		b.WriteString(placeholder.InstructionHint())
		b.WriteString("\n")
	}
	if len(req.Glossary) > 0 {
		b.WriteString("Use these fixed translations for the listed terms:\n")
		for _, term := range req.Glossary {
			fmt.Fprintf(&b, "- %s => %s\n", term.Source, term.Target)
		}
	}
	return b.String()
}

// finishLLM cleans a raw model response and puts the protected tokens back.
func finishLLM(raw, source string, markers []string) (string, error) {
	text := postprocess.CleanFor(raw, source)
	if text == "" {
		return "", fmt.Errorf("empty translation response")
	}
	if missing := placeholder.Validate(text, markers); len(missing) > 0 {
		return "", fmt.Errorf("translation dropped %d protected token(s)", len(missing))
	}
	return placeholder.Restore(text, markers), nil
}
