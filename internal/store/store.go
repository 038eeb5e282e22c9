// Package store persists generated drafts and synced emails in a local
// SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/yaswanthpuritipati/inboXpert/internal/core"
)

// Store wraps the SQLite database holding drafts and synced emails.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "inboxpert.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables
func (s *Store) initialize() error {
	draftsTable := `
	CREATE TABLE IF NOT EXISTS drafts (
		id TEXT PRIMARY KEY,
		subject TEXT,
		body TEXT,
		intent TEXT,
		language TEXT,
		raw TEXT,
		model_used TEXT,
		date_generated DATETIME
	);`

	emailsTable := `
	CREATE TABLE IF NOT EXISTS emails (
		id TEXT PRIMARY KEY,
		message_id TEXT UNIQUE,
		sender TEXT,
		subject TEXT,
		snippet TEXT,
		body TEXT,
		is_spam INTEGER,
		intent TEXT,
		received DATETIME,
		date_synced DATETIME
	);`

	tables := []string{draftsTable, emailsTable}
	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDraft stores a generated draft. Saving an existing id overwrites it.
func (s *Store) SaveDraft(draft core.Draft) error {
	query := `
	INSERT OR REPLACE INTO drafts
	(id, subject, body, intent, language, raw, model_used, date_generated)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		draft.ID,
		draft.Subject,
		draft.Body,
		draft.Intent,
		draft.Language,
		draft.Raw,
		draft.ModelUsed,
		draft.DateGenerated,
	)

	return err
}

// GetDraft retrieves one draft by id. A missing id returns (nil, nil).
func (s *Store) GetDraft(id string) (*core.Draft, error) {
	query := `
	SELECT id, subject, body, intent, language, raw, model_used, date_generated
	FROM drafts
	WHERE id = ?`

	row := s.db.QueryRow(query, id)

	var draft core.Draft
	err := row.Scan(
		&draft.ID,
		&draft.Subject,
		&draft.Body,
		&draft.Intent,
		&draft.Language,
		&draft.Raw,
		&draft.ModelUsed,
		&draft.DateGenerated,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan draft: %w", err)
	}

	return &draft, nil
}

// ListDrafts returns the most recent drafts, newest first.
func (s *Store) ListDrafts(limit int) ([]core.Draft, error) {
	if limit < 1 {
		limit = 50
	}
	query := `
	SELECT id, subject, body, intent, language, raw, model_used, date_generated
	FROM drafts
	ORDER BY date_generated DESC
	LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query drafts: %w", err)
	}
	defer rows.Close()

	var drafts []core.Draft
	for rows.Next() {
		var draft core.Draft
		if err := rows.Scan(
			&draft.ID,
			&draft.Subject,
			&draft.Body,
			&draft.Intent,
			&draft.Language,
			&draft.Raw,
			&draft.ModelUsed,
			&draft.DateGenerated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, draft)
	}

	return drafts, rows.Err()
}

// UpsertEmail stores a synced email, keyed by the provider message id so
// a re-sync never duplicates messages.
func (s *Store) UpsertEmail(email core.EmailRecord) error {
	query := `
	INSERT INTO emails
	(id, message_id, sender, subject, snippet, body, is_spam, intent, received, date_synced)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(message_id) DO UPDATE SET
		sender = excluded.sender,
		subject = excluded.subject,
		snippet = excluded.snippet,
		body = excluded.body,
		is_spam = excluded.is_spam,
		intent = excluded.intent,
		received = excluded.received,
		date_synced = excluded.date_synced`

	_, err := s.db.Exec(query,
		email.ID,
		email.MessageID,
		email.Sender,
		email.Subject,
		email.Snippet,
		email.Body,
		boolToInt(email.IsSpam),
		email.Intent,
		email.Received,
		email.DateSynced,
	)

	return err
}

// ListEmails returns synced emails, newest received first. When spamOnly
// is set only messages flagged as spam are returned.
func (s *Store) ListEmails(limit int, spamOnly bool) ([]core.EmailRecord, error) {
	if limit < 1 {
		limit = 50
	}
	query := `
	SELECT id, message_id, sender, subject, snippet, body, is_spam, intent, received, date_synced
	FROM emails`
	if spamOnly {
		query += `
	WHERE is_spam = 1`
	}
	query += `
	ORDER BY received DESC
	LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query emails: %w", err)
	}
	defer rows.Close()

	var emails []core.EmailRecord
	for rows.Next() {
		var email core.EmailRecord
		var isSpam int
		if err := rows.Scan(
			&email.ID,
			&email.MessageID,
			&email.Sender,
			&email.Subject,
			&email.Snippet,
			&email.Body,
			&isSpam,
			&email.Intent,
			&email.Received,
			&email.DateSynced,
		); err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		email.IsSpam = isSpam != 0
		emails = append(emails, email)
	}

	return emails, rows.Err()
}

// LastSyncTime returns when the mailbox was last synced, or the zero time
// for a fresh database.
func (s *Store) LastSyncTime() (time.Time, error) {
	row := s.db.QueryRow(`SELECT COALESCE(MAX(date_synced), '') FROM emails`)
	var raw string
	if err := row.Scan(&raw); err != nil {
		return time.Time{}, fmt.Errorf("failed to read last sync time: %w", err)
	}
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02 15:04:05.999999999-07:00", raw)
	if err != nil {
		// go-sqlite3 stores time.Time in a fixed layout; fall back to
		// RFC3339 for rows written by other tools.
		t, err = time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse last sync time %q: %w", raw, err)
		}
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
