package storage

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestFileBackendSetGetDelete(t *testing.T) {
	b, err := NewFileBackend(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	defer b.Close()

	if _, ok, _ := b.Get("codemate_users_v1"); ok {
		t.Fatal("expected missing key")
	}

	if err := b.Set("codemate_users_v1", `{"a":1}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := b.Get("codemate_users_v1")
	if err != nil || !ok || v != `{"a":1}` {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}

	if err := b.Delete("codemate_users_v1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := b.Get("codemate_users_v1"); ok {
		t.Fatal("expected key gone after delete")
	}
	// Deleting again is a no-op.
	if err := b.Delete("codemate_users_v1"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}

func TestFileBackendKeysPrefix(t *testing.T) {
	b, err := NewFileBackend(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	defer b.Close()

	for _, k := range []string{
		ProgressKey("u@example.com"),
		AchievementsKey("u@example.com"),
		ProgressKey("v@example.com"),
	} {
		if err := b.Set(k, "{}"); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}

	keys, err := b.Keys("codemate_progress_")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("expected 2 progress keys, got %v", keys)
	}
}

func TestFileBackendWatchSeesExternalWrite(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	defer b.Close()

	ch, cancel, err := b.Watch(BusSlotKey)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer cancel()

	// A second backend on the same directory stands in for another process.
	other, err := NewFileBackend(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	defer other.Close()
	if err := other.Set(BusSlotKey, `{"event":"x"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("no watch notification for external write")
	}
}

func TestSanitizeKey(t *testing.T) {
	got := sanitizeKey("codemate_progress_u+x@example.com/../etc")
	if got != "codemate_progress_u_x@example.com_.._etc" {
		t.Errorf("sanitizeKey = %q", got)
	}
}
