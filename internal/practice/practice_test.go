package practice

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap/zaptest"

	"codemate/internal/bus"
	"codemate/internal/storage"
)

const testUser = "u@example.com"

func newTestTracker(t *testing.T, b *bus.Bus) *Tracker {
	t.Helper()
	log := zaptest.NewLogger(t)
	backend, err := storage.NewFileBackend(t.TempDir(), log)
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	t.Cleanup(func() { backend.Close() })
	return NewTracker(storage.NewCodec(backend, log), b, log)
}

func TestMarkSolved(t *testing.T) {
	tr := newTestTracker(t, nil)

	if tr.IsSolved(testUser, "java", "j-p1") {
		t.Fatal("solved before marking")
	}

	tr.MarkSolved(testUser, "java", "j-p1")
	tr.MarkSolved(testUser, "java", "j-p4")
	tr.MarkSolved(testUser, "java", "j-p1") // repeat

	if !tr.IsSolved(testUser, "java", "j-p1") {
		t.Error("j-p1 not solved")
	}
	if got := tr.SolvedCount(testUser, "java"); got != 2 {
		t.Errorf("solved count = %d, want 2", got)
	}

	got := tr.Solved(testUser, "java")
	want := []string{"j-p1", "j-p4"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("solved = %v, want %v", got, want)
		}
	}
}

func TestLanguageSetsIsolated(t *testing.T) {
	tr := newTestTracker(t, nil)

	tr.MarkSolved(testUser, "java", "j-p1")
	tr.MarkSolved(testUser, "c", "c-p1")

	if tr.IsSolved(testUser, "java", "c-p1") {
		t.Error("c exercise leaked into java set")
	}
	if got := tr.SolvedCount(testUser, "c"); got != 1 {
		t.Errorf("c solved count = %d, want 1", got)
	}
	if got := tr.SolvedCount("other@example.com", "java"); got != 0 {
		t.Errorf("other user's count = %d, want 0", got)
	}
}

func TestMarkSolvedBroadcasts(t *testing.T) {
	log := zaptest.NewLogger(t)
	b := bus.New(nil, log)
	defer b.Close()

	tr := newTestTracker(t, b)

	var payloads []bus.ProgressPayload
	unsub := b.Subscribe(bus.EventProgressUpdated, func(raw json.RawMessage) {
		var p bus.ProgressPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			t.Errorf("decode payload: %v", err)
			return
		}
		payloads = append(payloads, p)
	})
	defer unsub()

	tr.MarkSolved(testUser, "python", "p-p1")
	tr.MarkSolved(testUser, "python", "p-p1") // repeat still broadcasts

	if len(payloads) != 2 {
		t.Fatalf("got %d events, want 2", len(payloads))
	}
	if payloads[0].User != testUser || payloads[0].Lang != "python" {
		t.Errorf("payload = %+v", payloads[0])
	}
}

func TestMutationHook(t *testing.T) {
	tr := newTestTracker(t, nil)

	var ensured []string
	tr.OnMutation(func(user string) { ensured = append(ensured, user) })

	tr.MarkSolved(testUser, "java", "j-p2")
	if len(ensured) != 1 || ensured[0] != testUser {
		t.Errorf("ensure calls = %v", ensured)
	}
}
