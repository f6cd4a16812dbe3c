// Package validator checks that a candidate is written in the target language.
package validator

import (
	"fmt"
	"strings"

	"github.com/valpere/locwalk/internal/detector"
)

// Shorter texts produce unreliable results and are accepted without checking.
const minValidationLength = 12

// Validator is expensive to build; create one per run.
type Validator struct {
	det *detector.Detector
}

// NewFor creates a Validator that only distinguishes the English source from
// targetLang, which is what matters when reviewing a candidate.
func NewFor(targetLang string) *Validator {
	return &Validator{det: detector.NewFor("en", targetLang)}
}

// IsValid returns true when translatedText appears to be written in targetLang.
// Short texts and texts whose language cannot be determined pass.
func (v *Validator) IsValid(translatedText, targetLang string) (bool, error) {
	if targetLang == "" {
		return true, nil
	}

	text := strings.TrimSpace(translatedText)
	if text == "" {
		return false, fmt.Errorf("translation is empty")
	}

	if len([]rune(text)) < minValidationLength {
		return true, nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		return true, nil
	}

	base := targetLang
	if i := strings.IndexAny(base, "-_"); i > 0 {
		base = base[:i]
	}
	if !strings.EqualFold(detected, base) {
		return false, fmt.Errorf("expected %s but detected %s", targetLang, strings.ToLower(detected))
	}

	return true, nil
}
