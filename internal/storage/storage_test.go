package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return store
}

func TestStore_SetGetString(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetString(ctx, "a", "one"); err != nil {
		t.Fatalf("SetString() error = %v", err)
	}

	got, err := store.GetString(ctx, "a")
	if err != nil {
		t.Fatalf("GetString() error = %v", err)
	}
	if got != "one" {
		t.Errorf("GetString() = %q, want %q", got, "one")
	}

	// Overwrite
	if err := store.SetString(ctx, "a", "two"); err != nil {
		t.Fatalf("SetString() error = %v", err)
	}
	got, err = store.GetString(ctx, "a")
	if err != nil {
		t.Fatalf("GetString() error = %v", err)
	}
	if got != "two" {
		t.Errorf("GetString() after overwrite = %q, want %q", got, "two")
	}
}

func TestStore_GetString_Missing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetString(context.Background(), "missing")
	if err != ErrKeyNotFound {
		t.Errorf("GetString() error = %v, want %v", err, ErrKeyNotFound)
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetString(ctx, "a", "one"); err != nil {
		t.Fatalf("SetString() error = %v", err)
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.GetString(ctx, "a"); err != ErrKeyNotFound {
		t.Errorf("GetString() after delete error = %v, want %v", err, ErrKeyNotFound)
	}

	// Deleting again is a no-op
	if err := store.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete() on missing key error = %v", err)
	}
}

func TestStore_JSONRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	type record struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	in := record{Name: "Ada", Email: "a@b.com"}
	if err := store.SetJSON(ctx, "user", in); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}

	var out record
	if err := store.GetJSON(ctx, "user", &out); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if out != in {
		t.Errorf("GetJSON() = %+v, want %+v", out, in)
	}
}

func TestStore_GetJSON_Corrupt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetString(ctx, "bad", "{not json"); err != nil {
		t.Fatalf("SetString() error = %v", err)
	}

	var out map[string]any
	if err := store.GetJSON(ctx, "bad", &out); err != ErrKeyNotFound {
		t.Errorf("GetJSON() on corrupt value error = %v, want %v", err, ErrKeyNotFound)
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := store.SetString(ctx, "a", "persisted"); err != nil {
		t.Fatalf("SetString() error = %v", err)
	}
	store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open() after reopen error = %v", err)
	}
	defer reopened.Close()
	if err := reopened.Migrate(); err != nil {
		t.Fatalf("Migrate() after reopen error = %v", err)
	}

	got, err := reopened.GetString(ctx, "a")
	if err != nil {
		t.Fatalf("GetString() after reopen error = %v", err)
	}
	if got != "persisted" {
		t.Errorf("GetString() after reopen = %q, want %q", got, "persisted")
	}
}
