// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tamzrod/plcbridge/internal/snapshot"
)

// SQLiteStore keeps all slots as rows of one table.
// Each write is a single upsert statement, so readers see either the old
// row or the new one. WAL mode lets the bridge processes share the file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS slots (
	name       TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("store: sqlite path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: creating sqlite directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("store: opening sqlite: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: creating schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Write(ctx context.Context, slot Slot, snap snapshot.Snapshot) error {
	data, err := snapshot.Canonical(snap)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", slot, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO slots (name, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at
	`, string(slot), data, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("store: write %s: %w", slot, err)
	}
	return nil
}

func (s *SQLiteStore) Read(ctx context.Context, slot Slot) (snapshot.Snapshot, bool, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM slots WHERE name = ?`, string(slot)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: read %s: %w", slot, err)
	}

	return decodeSlot(slot, raw)
}
