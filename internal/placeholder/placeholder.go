// Package placeholder shields the non-translatable parts of a localized
// string (format arguments such as {0} or %s, escaped control characters and
// inline markup) behind numbered markers ([PH0], [PH1], …) before the string
// is sent to an LLM backend. Restore puts the originals back.
package placeholder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// inline markup: <b>, </b>, <br/>
	reTag = regexp.MustCompile(`<[^<>]+>`)

	// .NET style composite format items: {0}, {1:N2}, {name}
	reBrace = regexp.MustCompile(`\{[^{}\s]+\}`)

	// printf verbs, optionally positional: %s, %d, %1$s, %.2f, %%
	rePrintf = regexp.MustCompile(`%(?:\d+\$)?[-+#0]*\d*(?:\.\d+)?[sdfiuxXcqveEgG%]`)

	// escaped control characters kept literally in resource files: \n, \t
	reEscape = regexp.MustCompile(`\\[ntr]`)

	rePlaceholder = regexp.MustCompile(`\[PH(\d+)\]`)
)

// Protect replaces markup and format tokens with numbered placeholders in the
// order of the patterns above and returns the captured originals.
func Protect(text string) (string, []string) {
	var markers []string

	replace := func(match string) string {
		id := fmt.Sprintf("[PH%d]", len(markers))
		markers = append(markers, match)
		return id
	}

	text = reTag.ReplaceAllStringFunc(text, replace)
	text = reBrace.ReplaceAllStringFunc(text, replace)
	text = rePrintf.ReplaceAllStringFunc(text, replace)
	text = reEscape.ReplaceAllStringFunc(text, replace)

	return text, markers
}

// Restore substitutes [PHn] markers with the originals captured by Protect.
// Unknown indices are left as they are.
func Restore(text string, markers []string) string {
	return rePlaceholder.ReplaceAllStringFunc(text, func(match string) string {
		sub := rePlaceholder.FindStringSubmatch(match)
		idx, err := strconv.Atoi(sub[1])
		if err != nil || idx < 0 || idx >= len(markers) {
			return match
		}
		return markers[idx]
	})
}

// InstructionHint is appended to LLM prompts when markers are present.
func InstructionHint() string {
	return "Keep every [PHn] marker exactly as it appears; do not translate, move or remove them."
}

// Validate returns the indices of markers missing from text.
func Validate(text string, markers []string) []int {
	var missing []int
	for i := range markers {
		if !strings.Contains(text, fmt.Sprintf("[PH%d]", i)) {
			missing = append(missing, i)
		}
	}
	return missing
}
