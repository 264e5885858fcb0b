package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pagefold/stele/internal/tree"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteTable is a Table persisted in a SQLite database.
// Uses WAL mode for concurrent read access during fills.
type SQLiteTable struct {
	db *sql.DB
}

// OpenSQLite creates or opens the side-table database at path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func OpenSQLite(path string) (*SQLiteTable, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open side table: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to side table: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under the filler's concurrent sibling writes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply side-table schema: %w", err)
	}
	return &SQLiteTable{db: db}, nil
}

// Close closes the database connection.
func (t *SQLiteTable) Close() error {
	if t.db == nil {
		return nil
	}
	return t.db.Close()
}

// Get implements Table. Stored canonical JSON is decoded back into a
// payload value.
func (t *SQLiteTable) Get(ctx context.Context, key string) (tree.Value, bool, error) {
	var encoded string
	err := t.db.QueryRowContext(ctx, `SELECT value FROM storage WHERE key = ?`, key).Scan(&encoded)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read storage key %q: %w", key, err)
	}
	v, err := tree.UnmarshalValue([]byte(encoded))
	if err != nil {
		return nil, false, fmt.Errorf("decode storage key %q: %w", key, err)
	}
	return v, true, nil
}

// SetIfAbsent implements Table via INSERT ... ON CONFLICT(key) DO NOTHING,
// so a populated key is never overwritten.
func (t *SQLiteTable) SetIfAbsent(ctx context.Context, key string, v tree.Value) (bool, error) {
	encoded, err := tree.MarshalCanonical(v)
	if err != nil {
		return false, fmt.Errorf("encode storage key %q: %w", key, err)
	}
	res, err := t.db.ExecContext(ctx, `
		INSERT INTO storage (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO NOTHING
	`, key, string(encoded))
	if err != nil {
		return false, fmt.Errorf("write storage key %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write storage key %q: %w", key, err)
	}
	return n > 0, nil
}

// Len implements Table.
func (t *SQLiteTable) Len(ctx context.Context) (int, error) {
	var n int
	if err := t.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM storage`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count storage keys: %w", err)
	}
	return n, nil
}
