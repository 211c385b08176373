package db

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// createTestStore creates an in-memory SQLite database with the kv schema.
func createTestStore(t *testing.T) *Store {
	t.Helper()

	rawDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	// Every pooled connection would otherwise get its own empty database.
	rawDB.SetMaxOpenConns(1)
	t.Cleanup(func() { rawDB.Close() })

	store := &Store{db: rawDB}
	if err := store.migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestGetMissing(t *testing.T) {
	store := createTestStore(t)

	e, err := store.Get("shelter-settings")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e != nil {
		t.Errorf("expected nil, got %+v", e)
	}
}

func TestPutReplaces(t *testing.T) {
	store := createTestStore(t)

	before := time.Now().Add(-time.Second)
	if err := store.Put("k", "one"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put("k", "two"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	e, err := store.Get("k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e == nil {
		t.Fatal("expected entry, got nil")
	}
	if e.Value != "two" {
		t.Errorf("value = %q, want %q", e.Value, "two")
	}
	if e.UpdatedAt.Before(before) {
		t.Errorf("updatedAt = %v, want after %v", e.UpdatedAt, before)
	}

	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("got %d keys, want 1", len(keys))
	}
}

func TestDelete(t *testing.T) {
	store := createTestStore(t)

	store.Put("a", "1")
	store.Put("b", "2")
	if err := store.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete("missing"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}

	keys, _ := store.Keys()
	if len(keys) != 1 || keys[0] != "b" {
		t.Errorf("keys = %v, want [b]", keys)
	}
}

func TestBlobLoadSave(t *testing.T) {
	store := createTestStore(t)
	blob := store.Blob("shelter-settings")

	data, err := blob.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if data != nil {
		t.Errorf("Load on empty store = %q, want nil", data)
	}

	if err := blob.Save([]byte(`{"version":1}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err = blob.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != `{"version":1}` {
		t.Errorf("Load = %q", data)
	}
}

func TestOpenFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "shimteo.sqlite")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Put("k", "v"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	e, err := store.Get("k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e == nil || e.Value != "v" {
		t.Errorf("entry = %+v, want value v", e)
	}
}
