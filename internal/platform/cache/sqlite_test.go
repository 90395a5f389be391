package cache_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"aquaview/internal/platform/cache"
	apperrors "aquaview/internal/platform/errors"
)

func newStore(t *testing.T) *cache.SQLiteSnapshotStore {
	t.Helper()
	store, err := cache.NewSQLiteSnapshotStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPutThenGetRoundTrip(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()
	at := time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC)

	if err := store.Put(ctx, "MC01", "trend", "HUB-1", []byte(`{"a":1}`), at); err != nil {
		t.Fatalf("put: %v", err)
	}
	payload, fetchedAt, err := store.Get(ctx, "MC01", "trend", "HUB-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(payload) != `{"a":1}` {
		t.Fatalf("payload mismatch: %s", payload)
	}
	if !fetchedAt.Equal(at) {
		t.Fatalf("fetched_at mismatch: got %v want %v", fetchedAt, at)
	}
}

func TestPutOverwritesPerKey(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()
	first := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	if err := store.Put(ctx, "MC01", "trend", "", []byte(`old`), first); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := store.Put(ctx, "MC01", "trend", "", []byte(`new`), second); err != nil {
		t.Fatalf("second put: %v", err)
	}
	payload, fetchedAt, err := store.Get(ctx, "MC01", "trend", "")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(payload) != "new" || !fetchedAt.Equal(second) {
		t.Fatalf("upsert must replace payload and time, got %s at %v", payload, fetchedAt)
	}
}

func TestKeysAreScoped(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	ctx := context.Background()
	at := time.Now().UTC().Truncate(time.Second)

	if err := store.Put(ctx, "MC01", "trend", "HUB-1", []byte(`x`), at); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, _, err := store.Get(ctx, "MC02", "trend", "HUB-1"); !errors.Is(err, apperrors.ErrNoData) {
		t.Fatalf("other corporation must miss, got %v", err)
	}
	if _, _, err := store.Get(ctx, "MC01", "yearly", "HUB-1"); !errors.Is(err, apperrors.ErrNoData) {
		t.Fatalf("other view must miss, got %v", err)
	}
	if _, _, err := store.Get(ctx, "MC01", "trend", "HUB-2"); !errors.Is(err, apperrors.ErrNoData) {
		t.Fatalf("other hub must miss, got %v", err)
	}
}

func TestGetMissIsNoData(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	if _, _, err := store.Get(context.Background(), "MC01", "trend", ""); !errors.Is(err, apperrors.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}
