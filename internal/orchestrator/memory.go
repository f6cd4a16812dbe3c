package orchestrator

import (
	"context"
)

// ApprovedSource looks up translations the operator approved in earlier runs.
type ApprovedSource interface {
	GetApproved(ctx context.Context, sourceText, targetLang string) (string, bool, error)
	GetSimilar(ctx context.Context, sourceText, targetLang string, threshold float64) (string, bool, error)
}

// Memory offers a previously approved translation as the candidate before
// asking the wrapped client.
type Memory struct {
	next      Client
	store     ApprovedSource
	threshold float64
}

// NewMemory wraps next. A threshold above zero also offers the approved
// translation of the most similar source text.
func NewMemory(next Client, store ApprovedSource, threshold float64) *Memory {
	return &Memory{next: next, store: store, threshold: threshold}
}

func (m *Memory) Translate(ctx context.Context, english, targetLang string) (string, error) {
	// Lookup errors fall through to the backend.
	if text, ok, err := m.store.GetApproved(ctx, english, targetLang); err == nil && ok {
		return text, nil
	}
	if text, ok, err := m.store.GetSimilar(ctx, english, targetLang, m.threshold); err == nil && ok {
		return text, nil
	}
	return m.next.Translate(ctx, english, targetLang)
}
