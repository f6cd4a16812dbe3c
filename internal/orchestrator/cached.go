package orchestrator

import (
	"context"

	"github.com/valpere/locwalk/internal/cache"
)

// Cached serves repeated strings from a candidate cache.
type Cached struct {
	next  Client
	cache cache.TranslationCache
}

func NewCached(next Client, c cache.TranslationCache) *Cached {
	return &Cached{next: next, cache: c}
}

func (c *Cached) Translate(ctx context.Context, english, targetLang string) (string, error) {
	key := cache.Key(english, targetLang)
	if text, ok := c.cache.Get(ctx, key); ok {
		return text, nil
	}

	text, err := c.next.Translate(ctx, english, targetLang)
	if err != nil {
		return "", err
	}

	// A cache write failure only costs a future backend call.
	_ = c.cache.Set(ctx, key, text)
	return text, nil
}
