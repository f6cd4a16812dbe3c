package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/locwalk/internal"
)

// Decisions that produce text written to the output document.
const (
	DecisionAccept = "accept"
	DecisionManual = "manual"
	DecisionSkip   = "skip"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		source_path TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		jump_to TEXT,
		quit BOOLEAN DEFAULT FALSE,
		started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		finished_at TIMESTAMP
	);

	-- decisions is an audit trail of every prompted String element
	CREATE TABLE IF NOT EXISTS decisions (
		id TEXT PRIMARY KEY,
		session_id TEXT,
		resource_key TEXT,
		source_text TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		candidate TEXT NOT NULL,
		final_text TEXT NOT NULL,
		decision TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	-- translation_memory keeps the latest operator-approved text per source string
	CREATE TABLE IF NOT EXISTS translation_memory (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		final_text TEXT NOT NULL,
		resource_key TEXT,
		decision TEXT NOT NULL,
		usage_count INTEGER DEFAULT 0,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_text, target_lang)
	);

	-- glossary stores user-defined terminology passed to LLM backends
	CREATE TABLE IF NOT EXISTS glossary (
		id TEXT PRIMARY KEY,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		source_term TEXT NOT NULL,
		target_term TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_lang, target_lang, source_term)
	);

	CREATE INDEX IF NOT EXISTS idx_memory_lookup ON translation_memory(source_text, target_lang);
	CREATE INDEX IF NOT EXISTS idx_decisions_session ON decisions(session_id);
	CREATE INDEX IF NOT EXISTS idx_glossary_lookup ON glossary(source_lang, target_lang);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveSession records the start of a walk. An empty ID is filled in.
func (s *Store) SaveSession(ctx context.Context, session *internal.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.Timestamp.IsZero() {
		session.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, source_path, target_lang, jump_to, started_at) VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.SourcePath, session.TargetLang, session.JumpTo, session.Timestamp)
	return err
}

// FinishSession marks a walk as completed or quit.
func (s *Store) FinishSession(ctx context.Context, id string, quit bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET quit = ?, finished_at = ? WHERE id = ?`, quit, time.Now(), id)
	return err
}

// SaveDecision appends rec to the audit trail. Accepted and manual decisions
// also become the approved translation of the source text.
func (s *Store) SaveDecision(ctx context.Context, rec internal.DecisionRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var sessionID interface{}
	if rec.SessionID != "" {
		sessionID = rec.SessionID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO decisions (id, session_id, resource_key, source_text, target_lang, candidate, final_text, decision, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), sessionID, rec.Key, rec.SourceText, rec.TargetLang, rec.Candidate, rec.FinalText, rec.Decision, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to save decision: %w", err)
	}

	if rec.Decision == DecisionAccept || rec.Decision == DecisionManual {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO translation_memory (id, source_text, target_lang, final_text, resource_key, decision, usage_count, last_used, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)
			 ON CONFLICT(source_text, target_lang) DO UPDATE SET
				final_text = excluded.final_text,
				resource_key = excluded.resource_key,
				decision = excluded.decision,
				last_used = excluded.last_used`,
			uuid.NewString(), normalizeText(rec.SourceText), normalizeLang(rec.TargetLang), rec.FinalText, rec.Key, rec.Decision, rec.Timestamp, rec.Timestamp)
		if err != nil {
			return fmt.Errorf("failed to update memory: %w", err)
		}
	}

	return tx.Commit()
}

// ListDecisions returns the decisions of one session in the order they were made.
func (s *Store) ListDecisions(ctx context.Context, sessionID string) ([]internal.DecisionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, resource_key, source_text, target_lang, candidate, final_text, decision, created_at
		 FROM decisions WHERE session_id = ? ORDER BY rowid`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []internal.DecisionRecord
	for rows.Next() {
		var r internal.DecisionRecord
		var key sql.NullString
		if err := rows.Scan(&r.SessionID, &key, &r.SourceText, &r.TargetLang, &r.Candidate, &r.FinalText, &r.Decision, &r.Timestamp); err != nil {
			return nil, err
		}
		r.Key = key.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetApproved returns the operator-approved translation of sourceText.
func (s *Store) GetApproved(ctx context.Context, sourceText, targetLang string) (string, bool, error) {
	var finalText string

	err := s.db.QueryRowContext(ctx,
		`SELECT final_text FROM translation_memory WHERE source_text = ? AND target_lang = ?`,
		normalizeText(sourceText), normalizeLang(targetLang)).Scan(&finalText)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE translation_memory SET usage_count = usage_count + 1, last_used = ? WHERE source_text = ? AND target_lang = ?`,
		time.Now(), normalizeText(sourceText), normalizeLang(targetLang))

	return finalText, true, err
}

type MemoryEntry struct {
	ID          string
	SourceText  string
	TargetLang  string
	FinalText   string
	ResourceKey string
	Decision    string
	UsageCount  int
	LastUsed    time.Time
}

type MemoryStats struct {
	TotalEntries  int
	ManualEntries int
	TotalUsage    int
	Sessions      int
	Decisions     int
}

// DeleteMemory permanently removes a translation memory entry by ID.
func (s *Store) DeleteMemory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translation_memory WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("memory entry %s not found", id)
	}
	return nil
}

// ClearMemory removes all translation memory entries. The decision log is kept.
func (s *Store) ClearMemory(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translation_memory`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListMemory returns all translation memory entries ordered by most recently used.
func (s *Store) ListMemory(ctx context.Context) ([]MemoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_text, target_lang, final_text, resource_key, decision, usage_count, last_used
		 FROM translation_memory ORDER BY last_used DESC, source_text`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MemoryEntry
	for rows.Next() {
		var e MemoryEntry
		var key sql.NullString
		if err := rows.Scan(&e.ID, &e.SourceText, &e.TargetLang, &e.FinalText, &key, &e.Decision, &e.UsageCount, &e.LastUsed); err != nil {
			return nil, err
		}
		e.ResourceKey = key.String
		results = append(results, e)
	}

	return results, rows.Err()
}

// Stats returns summary statistics for the translation memory and decision log.
func (s *Store) Stats(ctx context.Context) (*MemoryStats, error) {
	stats := &MemoryStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN decision = 'manual' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(usage_count), 0)
		FROM translation_memory`).Scan(
		&stats.TotalEntries,
		&stats.ManualEntries,
		&stats.TotalUsage,
	)
	if err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&stats.Sessions); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decisions`).Scan(&stats.Decisions); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization
// for consistent lookup.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

func normalizeLang(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}
