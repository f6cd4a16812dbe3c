// Package postprocess strips LLM artefacts from a candidate before it is
// shown to the operator. Localization strings are short, so besides
// reasoning blocks, echoed instructions and wrapping quotes, a candidate
// for a single-line source is cut to its first line.
package postprocess

import (
	"regexp"
	"strings"
)

// Clean removes reasoning blocks, instruction echoes and wrapping quotes.
func Clean(text string) string {
	text = removeThinkingBlocks(text)
	text = removeInstructionEchoes(text)
	text = removeQuoteWrapping(text)
	return strings.TrimSpace(text)
}

// CleanFor is Clean followed by trimming trailing notes when source is a
// single line.
func CleanFor(text, source string) string {
	text = Clean(text)
	if !strings.Contains(source, "\n") {
		text = firstLine(text)
	}
	return removeQuoteWrapping(text)
}

// RE2 has no backreferences, so each tag pair is listed.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`,
)

// An opening tag without its close means the model was cut off mid-thought.
var truncatedThinkingRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>|<reflection>).*$`,
)

func removeThinkingBlocks(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Each pattern is anchored at the start and requires a colon.
var echoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^here(?:'s| is)(?: the)? (?:translated )?(?:translation|text|string)(?: in [\w-]+)?\s*:`),
	regexp.MustCompile(`(?i)^(?:the )?(?:translation|translated text|translated string)(?: \([\w-]+\))?\s*:`),
	regexp.MustCompile(`(?i)^(?:certainly|sure|of course)[,.!]? here(?:'s| is)(?: the)? (?:translated )?(?:translation|text|string)\s*:`),
}

func removeInstructionEchoes(text string) string {
	for _, re := range echoPatterns {
		if loc := re.FindStringIndex(text); loc != nil {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}
	return text
}

// removeQuoteWrapping strips one matching pair of outer quotes:
//
//	"…"  '…'  «…»  “…”  ‘…’  „…“
func removeQuoteWrapping(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}
	first, last := runes[0], runes[n-1]
	if (first == '"' && last == '"') ||
		(first == '\'' && last == '\'') ||
		(first == '«' && last == '»') ||
		(first == '“' && last == '”') ||
		(first == '‘' && last == '’') ||
		(first == '„' && last == '“') {
		return strings.TrimSpace(string(runes[1 : n-1]))
	}
	return text
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
