package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GlossaryEntry represents a row in the glossary table.
type GlossaryEntry struct {
	ID         string
	SourceLang string
	TargetLang string
	SourceTerm string
	TargetTerm string
	CreatedAt  time.Time
}

// AddGlossaryTerm inserts a glossary entry or replaces the target term of an
// existing one.
func (s *Store) AddGlossaryTerm(ctx context.Context, sourceLang, targetLang, sourceTerm, targetTerm string) error {
	if sourceTerm == "" || targetTerm == "" {
		return fmt.Errorf("glossary terms must not be empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO glossary (id, source_lang, target_lang, source_term, target_term, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source_lang, target_lang, source_term) DO UPDATE SET target_term = excluded.target_term`,
		uuid.NewString(), normalizeLang(sourceLang), normalizeLang(targetLang), sourceTerm, targetTerm, time.Now())
	return err
}

// GetGlossaryTerms returns all glossary terms for a language pair as a
// source-term → target-term map.
func (s *Store) GetGlossaryTerms(ctx context.Context, sourceLang, targetLang string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_term, target_term FROM glossary WHERE source_lang = ? AND target_lang = ?`,
		normalizeLang(sourceLang), normalizeLang(targetLang))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	terms := make(map[string]string)
	for rows.Next() {
		var src, tgt string
		if err := rows.Scan(&src, &tgt); err != nil {
			return nil, err
		}
		terms[src] = tgt
	}
	return terms, rows.Err()
}

// ListGlossaryTerms returns all glossary entries, optionally filtered by language
// pair (pass empty strings to return everything).
func (s *Store) ListGlossaryTerms(ctx context.Context, sourceLang, targetLang string) ([]GlossaryEntry, error) {
	query := `SELECT id, source_lang, target_lang, source_term, target_term, created_at FROM glossary`
	var args []interface{}

	switch {
	case sourceLang != "" && targetLang != "":
		query += ` WHERE source_lang = ? AND target_lang = ?`
		args = append(args, normalizeLang(sourceLang), normalizeLang(targetLang))
	case sourceLang != "":
		query += ` WHERE source_lang = ?`
		args = append(args, normalizeLang(sourceLang))
	case targetLang != "":
		query += ` WHERE target_lang = ?`
		args = append(args, normalizeLang(targetLang))
	}
	query += ` ORDER BY source_lang, target_lang, source_term`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []GlossaryEntry
	for rows.Next() {
		var e GlossaryEntry
		if err := rows.Scan(&e.ID, &e.SourceLang, &e.TargetLang, &e.SourceTerm, &e.TargetTerm, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteGlossaryTerm removes a glossary entry by ID.
func (s *Store) DeleteGlossaryTerm(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM glossary WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("glossary entry %s not found", id)
	}
	return nil
}
