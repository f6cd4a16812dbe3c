// Package detector identifies the language of a candidate translation.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over every language lingua knows.
func New() *Detector {
	return &Detector{detector: lingua.NewLanguageDetectorBuilder().FromAllLanguages().Build()}
}

// NewFor builds a detector restricted to the given ISO 639-1 codes. A small
// language set is far more reliable on the short strings of a resource
// file. Unknown codes are ignored; with fewer than two known languages the
// detector falls back to all languages.
func NewFor(isoCodes ...string) *Detector {
	var langs []lingua.Language
	seen := make(map[lingua.Language]bool)
	for _, code := range isoCodes {
		lang, ok := languageOf(code)
		if ok && !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	if len(langs) < 2 {
		return New()
	}
	return &Detector{detector: lingua.NewLanguageDetectorBuilder().FromLanguages(langs...).Build()}
}

func languageOf(code string) (lingua.Language, bool) {
	// Region subtags such as pt-BR select the base language.
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	for _, lang := range lingua.AllLanguages() {
		if strings.EqualFold(lang.IsoCode639_1().String(), code) {
			return lang, true
		}
	}
	return lingua.Unknown, false
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return lang.IsoCode639_1().String(), true
}
