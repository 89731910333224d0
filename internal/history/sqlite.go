package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    scope      TEXT NOT NULL,
    key        TEXT NOT NULL,
    value      TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (scope, key)
);
`

// SQLiteKV implements KV on a local SQLite database
type SQLiteKV struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and creates the kv
// table. path may be ":memory:".
func OpenSQLite(ctx context.Context, path string) (*SQLiteKV, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	// One connection: a single writer, and ":memory:" databases are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	return &SQLiteKV{db: db}, nil
}

func (s *SQLiteKV) Get(ctx context.Context, scope, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE scope = ? AND key = ?", scope, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("history: get %s/%s: %w", scope, key, err)
	}
	return value, true, nil
}

func (s *SQLiteKV) Set(ctx context.Context, scope, key, value string) error {
	const q = `
		INSERT INTO kv (scope, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, q, scope, key, value); err != nil {
		return fmt.Errorf("history: set %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *SQLiteKV) Delete(ctx context.Context, scope, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE scope = ? AND key = ?", scope, key); err != nil {
		return fmt.Errorf("history: delete %s/%s: %w", scope, key, err)
	}
	return nil
}

// Scopes lists every scope holding key, in ascending order
func (s *SQLiteKV) Scopes(ctx context.Context, key string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT scope FROM kv WHERE key = ? ORDER BY scope", key)
	if err != nil {
		return nil, fmt.Errorf("history: list scopes: %w", err)
	}
	defer rows.Close()

	var scopes []string
	for rows.Next() {
		var scope string
		if err := rows.Scan(&scope); err != nil {
			return nil, fmt.Errorf("history: scan scope: %w", err)
		}
		scopes = append(scopes, scope)
	}
	return scopes, rows.Err()
}

func (s *SQLiteKV) Close() error {
	return s.db.Close()
}
