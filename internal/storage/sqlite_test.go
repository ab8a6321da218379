package storage

import (
	"path/filepath"
	"testing"
)

func newTestSQLite(t *testing.T) *SQLiteBackend {
	t.Helper()
	b, err := OpenSQLite(filepath.Join(t.TempDir(), "codemate.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestSQLiteBackendSetGet(t *testing.T) {
	b := newTestSQLite(t)

	if _, ok, _ := b.Get("codemate_users_v1"); ok {
		t.Fatal("expected missing key")
	}

	if err := b.Set("codemate_users_v1", `{"a":1}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := b.Set("codemate_users_v1", `{"a":2}`); err != nil {
		t.Fatalf("Set (overwrite): %v", err)
	}

	v, ok, err := b.Get("codemate_users_v1")
	if err != nil || !ok {
		t.Fatalf("Get: %v, ok=%v", err, ok)
	}
	if v != `{"a":2}` {
		t.Errorf("expected overwrite to win, got %q", v)
	}
}

func TestSQLiteBackendKeysAndDelete(t *testing.T) {
	b := newTestSQLite(t)

	for _, k := range []string{ProgressKey("a"), ProgressKey("b"), MetaKey("a")} {
		if err := b.Set(k, "{}"); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}

	keys, err := b.Keys("codemate_progress_")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("expected 2 keys, got %v", keys)
	}

	if err := b.Delete(ProgressKey("a")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := b.Get(ProgressKey("a")); ok {
		t.Error("expected key gone after delete")
	}
}
