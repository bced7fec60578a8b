package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mtomcal/videotitan-server/internal/shared"
)

// SQLite implements [Store] on an embedded database.
//
// Each row is one document: (path, key, doc). Subtrees written with Set are a
// single row with an empty key; pushed records each get their own keyed row.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	path TEXT NOT NULL,
	key  TEXT NOT NULL DEFAULT '',
	doc  TEXT NOT NULL,
	PRIMARY KEY (path, key)
);
CREATE INDEX IF NOT EXISTS idx_documents_path ON documents (path);
`

// NewSQLite creates a SQLite store on db, ensuring the schema exists.
// The now function is replaceable for tests and defaults to time.Now.
func NewSQLite(db *sql.DB, now func() time.Time) (*SQLite, error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("%w: failed to ensure schema: %v", shared.ErrStore, err)
	}
	if now == nil {
		now = time.Now
	}
	return &SQLite{db: db, now: now}, nil
}

// Set overwrites the subtree at path, or deletes it when value is nil.
func (s *SQLite) Set(ctx context.Context, path string, value any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", shared.ErrStore, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM documents WHERE path = ? OR path LIKE ? || '/%'`, path, path); err != nil {
		return fmt.Errorf("%w: failed to clear %s: %v", shared.ErrStore, path, err)
	}

	if value != nil {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("%w: failed to marshal value for %s: %v", shared.ErrStore, path, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents (path, key, doc) VALUES (?, '', ?)`, path, string(data)); err != nil {
			return fmt.Errorf("%w: failed to write %s: %v", shared.ErrStore, path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit %s: %v", shared.ErrStore, path, err)
	}
	return nil
}

// Push appends value under path with a generated time-ordered key.
func (s *SQLite) Push(ctx context.Context, path string, value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal value for %s: %v", shared.ErrStore, path, err)
	}

	key := shared.PushKey(s.now().UnixNano())
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (path, key, doc) VALUES (?, ?, ?)`, path, key, string(data)); err != nil {
		return "", fmt.Errorf("%w: failed to push to %s: %v", shared.ErrStore, path, err)
	}

	return key, nil
}

// Read unmarshals the full subtree at path into out.
//
// A subtree written with Set decodes as stored; a subtree built from pushes
// decodes as a key-to-record object. A missing path leaves out untouched.
func (s *SQLite) Read(ctx context.Context, path string, out any) error {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM documents WHERE path = ? AND key = ''`, path).Scan(&doc)
	switch {
	case err == nil:
		if err := json.Unmarshal([]byte(doc), out); err != nil {
			return fmt.Errorf("%w: failed to decode %s: %v", shared.ErrStore, path, err)
		}
		return nil
	case err != sql.ErrNoRows:
		return fmt.Errorf("%w: failed to read %s: %v", shared.ErrStore, path, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, doc FROM documents WHERE path = ? AND key != '' ORDER BY key`, path)
	if err != nil {
		return fmt.Errorf("%w: failed to read %s: %v", shared.ErrStore, path, err)
	}
	defer rows.Close()

	records := map[string]json.RawMessage{}
	for rows.Next() {
		var key, doc string
		if err := rows.Scan(&key, &doc); err != nil {
			return fmt.Errorf("%w: failed to scan %s: %v", shared.ErrStore, path, err)
		}
		records[key] = json.RawMessage(doc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: failed to read %s: %v", shared.ErrStore, path, err)
	}

	if len(records) == 0 {
		// Missing path: leave out at its zero value, same as Firebase null.
		return nil
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: failed to encode %s: %v", shared.ErrStore, path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s: %v", shared.ErrStore, path, err)
	}
	return nil
}
