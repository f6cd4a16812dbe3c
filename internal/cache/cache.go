// Package cache stores machine translation candidates so a rerun with
// --jump-to-value does not hit the backend again for strings it has seen.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

type TranslationCache interface {
	// Get returns the cached candidate. Backend errors are reported as a miss.
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
}

// Key derives the cache key for text translated into targetLang.
func Key(text, targetLang string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return strings.ToLower(targetLang) + ":" + hex.EncodeToString(sum[:])
}
