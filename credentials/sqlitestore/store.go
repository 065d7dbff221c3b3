// Package sqlitestore persists dashboard credentials in a SQLite file so
// browser sessions survive a server restart.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jrsteele09/go-inventory-dashboard/credentials"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	namespace  TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (namespace, key)
);
CREATE INDEX IF NOT EXISTS credentials_updated_at ON credentials(updated_at);
`

var _ credentials.Backend = (*Backend)(nil)

type Backend struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Backend
type Option func(*Backend)

// WithClock replaces time.Now for updated_at stamps
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// Open creates or opens the database at path. Use ":memory:" in tests.
//
// The database runs in WAL mode with a single writer connection and a
// 5 second busy timeout.
func Open(path string, opts ...Option) (*Backend, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	b := &Backend{db: db, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *Backend) Scope(namespace string) credentials.Storage {
	return &storage{backend: b, namespace: namespace}
}

// Prune deletes every namespace whose newest write is before olderThan and
// returns the number of rows removed. A namespace goes as a whole so a pair
// is never split.
func (b *Backend) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := b.db.ExecContext(ctx, `
		DELETE FROM credentials WHERE namespace IN (
			SELECT namespace FROM credentials GROUP BY namespace HAVING MAX(updated_at) < ?
		)`, olderThan.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune credentials: %w", err)
	}
	return res.RowsAffected()
}

type storage struct {
	backend   *Backend
	namespace string
}

func (s *storage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.backend.db.QueryRowContext(ctx,
		`SELECT value FROM credentials WHERE namespace = ? AND key = ?`,
		s.namespace, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get credential %q: %w", key, err)
	}
	return value, true, nil
}

func (s *storage) Set(ctx context.Context, items map[string]string) error {
	tx, err := s.backend.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := s.backend.now().Unix()
	for k, v := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO credentials (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			s.namespace, k, v, now,
		)
		if err != nil {
			return fmt.Errorf("set credential %q: %w", k, err)
		}
	}
	// any write renews the whole namespace
	if _, err := tx.ExecContext(ctx,
		`UPDATE credentials SET updated_at = ? WHERE namespace = ?`, now, s.namespace,
	); err != nil {
		return fmt.Errorf("touch namespace: %w", err)
	}
	return tx.Commit()
}

func (s *storage) Delete(ctx context.Context, keys ...string) error {
	tx, err := s.backend.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, k := range keys {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM credentials WHERE namespace = ? AND key = ?`, s.namespace, k,
		); err != nil {
			return fmt.Errorf("delete credential %q: %w", k, err)
		}
	}
	return tx.Commit()
}
