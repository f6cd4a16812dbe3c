package store

import (
	"context"
)

// levenshtein returns the edit distance between two strings (rune-aware).
// Uses a space-optimized two-row DP implementation.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = 1 + min(prev[j], prev[j-1], curr[j-1])
		}
		prev, curr = curr, prev
	}

	return prev[lb]
}

// similarity returns a score in [0, 1] (1 = identical).
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(maxLen)
}

// maxFuzzyRunes bounds the quadratic comparison cost.
const maxFuzzyRunes = 500

// GetSimilar returns the approved translation whose source text is most
// similar to sourceText, provided the similarity reaches threshold. A
// threshold of zero or less disables the lookup.
func (s *Store) GetSimilar(ctx context.Context, sourceText, targetLang string, threshold float64) (string, bool, error) {
	if threshold <= 0 {
		return "", false, nil
	}

	normalized := normalizeText(sourceText)
	if len([]rune(normalized)) > maxFuzzyRunes {
		return "", false, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source_text, final_text FROM translation_memory WHERE target_lang = ?`,
		normalizeLang(targetLang))
	if err != nil {
		return "", false, err
	}
	defer rows.Close()

	var bestScore float64
	var bestFinal string
	for rows.Next() {
		var src, final string
		if err := rows.Scan(&src, &final); err != nil {
			return "", false, err
		}
		if len([]rune(src)) > maxFuzzyRunes {
			continue
		}
		if score := similarity(normalized, src); score >= threshold && score > bestScore {
			bestScore = score
			bestFinal = final
		}
	}
	if err := rows.Err(); err != nil {
		return "", false, err
	}

	if bestFinal != "" {
		return bestFinal, true, nil
	}
	return "", false, nil
}
