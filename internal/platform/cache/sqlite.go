// Package cache persists the last successful payload per screen so the
// console can keep showing data while the backend is unreachable.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "aquaview/internal/platform/errors"

	_ "modernc.org/sqlite"
)

type SQLiteSnapshotStore struct {
	db *sql.DB
}

func NewSQLiteSnapshotStore(dbPath string) (*SQLiteSnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteSnapshotStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSnapshotStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS snapshots (
  mc_code TEXT NOT NULL,
  view TEXT NOT NULL,
  hub_id TEXT NOT NULL,
  payload BLOB NOT NULL,
  fetched_at TEXT NOT NULL,
  PRIMARY KEY (mc_code, view, hub_id)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create snapshots table: %w", err)
	}
	return nil
}

func (s *SQLiteSnapshotStore) Put(ctx context.Context, mcCode, view, hubID string, payload []byte, fetchedAt time.Time) error {
	const stmt = `
INSERT INTO snapshots (mc_code, view, hub_id, payload, fetched_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(mc_code, view, hub_id) DO UPDATE SET
  payload=excluded.payload,
  fetched_at=excluded.fetched_at;
`
	_, err := s.db.ExecContext(ctx, stmt, mcCode, view, hubID, payload, fetchedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteSnapshotStore) Get(ctx context.Context, mcCode, view, hubID string) ([]byte, time.Time, error) {
	const query = `SELECT payload, fetched_at FROM snapshots WHERE mc_code = ? AND view = ? AND hub_id = ?`
	var payload []byte
	var fetchedAt string
	err := s.db.QueryRowContext(ctx, query, mcCode, view, hubID).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, fmt.Errorf("%w: no snapshot for %s/%s", apperrors.ErrNoData, mcCode, view)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read snapshot: %w", err)
	}
	at, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("parse snapshot time: %w", err)
	}
	return payload, at, nil
}

func (s *SQLiteSnapshotStore) Close() error {
	return s.db.Close()
}
